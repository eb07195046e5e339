// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/config"
	"github.com/api2spec/docs2sdk/internal/scanner"
	"github.com/api2spec/docs2sdk/internal/watch"
)

var (
	watchSpecFlags specFlags
	watchSDKFlags  sdkFlags
	watchDebounce  int
	watchSDK       bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for page changes and regenerate",
	Long: `Watch for changes to the HTML reference pages and regenerate the OpenAPI
document, and optionally the SDK, after every burst of changes.

Only files matching the page pattern trigger a rebuild. A failed rebuild is
reported and watching continues. Press Ctrl+C to stop.

Example:
  docs2sdk watch                          # Watch the current directory
  docs2sdk watch --dir docs/ --sdk        # Regenerate the SDK too
  docs2sdk watch --debounce 1000          # Wait 1s before regenerating`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchSpecFlags.register(watchCmd)
	watchSDKFlags.register(watchCmd, "sdk-output")
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "debounce duration in milliseconds (default: 500)")
	watchCmd.Flags().BoolVar(&watchSDK, "sdk", false, "regenerate the SDK after every rebuild")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	watchSpecFlags.apply(cfg)
	watchSDKFlags.apply(cfg)
	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}
	if watchSDK {
		cfg.Watch.SDK = true
	}
	cfg.SDK.Spec = cfg.OpenAPI.Output

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	printVerbose("Watch configuration:")
	printVerbose("  Debounce: %dms", cfg.Watch.Debounce)
	printVerbose("  SDK: %t", cfg.Watch.SDK)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if err := rebuild(ctx, cfg, out); err != nil {
		printError("%v", err)
	}

	s := scanner.New(cfg.ScannerConfig())
	w, err := watch.New(watch.Options{
		Dir:      cfg.Source.Dir,
		Debounce: cfg.DebounceDuration(),
		Descend:  s.ScansDir,
		Match:    s.Matches,
		OnChange: func(ctx context.Context, changed []string) error {
			for _, p := range changed {
				printVerbose("  changed: %s", filepath.Base(p))
			}
			printInfo("[%s] %d file(s) changed, rebuilding", time.Now().Format("15:04:05"), len(changed))
			return rebuild(ctx, cfg, out)
		},
		OnError: func(err error) {
			printError("%v", err)
		},
	})
	if err != nil {
		return err
	}

	if n, err := s.FileCount(); err == nil {
		printVerbose("  Pages: %d", n)
	}
	printInfo("Watching for changes in: %s", s.BasePath())
	printInfo("Press Ctrl+C to stop")
	return w.Run(ctx)
}

// rebuild regenerates the document, and the SDK when cfg.Watch.SDK is set.
func rebuild(ctx context.Context, cfg *config.Config, out io.Writer) error {
	result, err := generateSpec(ctx, cfg, false, out)
	if err != nil {
		return err
	}
	if !cfg.Watch.SDK {
		return nil
	}
	_, err = generateSDK(ctx, cfg, result.Doc, false, out)
	return err
}
