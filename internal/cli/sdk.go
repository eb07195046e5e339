// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/config"
	"github.com/api2spec/docs2sdk/internal/pipeline"
	"github.com/api2spec/docs2sdk/internal/sdkgen"
	"github.com/api2spec/docs2sdk/pkg/types"
)

// sdkFlags are the SDK flags shared by sdk, build and watch.
type sdkFlags struct {
	output         string
	packageVersion string
	apiVersion     string
	noVerify       bool
}

func (f *sdkFlags) register(cmd *cobra.Command, outputFlag string) {
	if outputFlag == "output" {
		cmd.Flags().StringVarP(&f.output, "output", "o", "", "output directory for the SDK package (default: qradar_sdk)")
	} else {
		cmd.Flags().StringVar(&f.output, outputFlag, "", "output directory for the SDK package (default: qradar_sdk)")
	}
	cmd.Flags().StringVar(&f.packageVersion, "package-version", "", "version of the generated package (default: 26.0.0)")
	cmd.Flags().StringVar(&f.apiVersion, "api-version", "", "default Version header of the generated client (default: 26.0)")
	cmd.Flags().BoolVar(&f.noVerify, "no-verify", false, "skip parsing the generated Python before writing")
}

func (f *sdkFlags) apply(cfg *config.Config) {
	if f.output != "" {
		cfg.SDK.Output = f.output
	}
	if f.packageVersion != "" {
		cfg.SDK.PackageVersion = f.packageVersion
	}
	if f.apiVersion != "" {
		cfg.SDK.APIVersion = f.apiVersion
	}
	if f.noVerify {
		cfg.SDK.Verify = false
	}
}

var (
	sdkSpec   string
	sdkOpts   sdkFlags
	sdkDryRun bool
)

var sdkCmd = &cobra.Command{
	Use:   "sdk",
	Short: "Generate a Python SDK from an OpenAPI document",
	Long: `Generate a Python client package from an OpenAPI document.

The package gets one module per tag with one method per operation, an
aggregating client class, the HTTP session with retries and pagination,
the exception hierarchy, and packaging files. pyproject.toml and
README_SDK.md are written next to the package directory.

Example:
  docs2sdk sdk                                   # openapi.yaml -> qradar_sdk/
  docs2sdk sdk --spec api.yaml -o out/my_sdk     # Custom input and package
  docs2sdk sdk --dry-run                         # List files without writing`,
	Args: cobra.NoArgs,
	RunE: runSDK,
}

func init() {
	sdkCmd.Flags().StringVarP(&sdkSpec, "spec", "s", "", "path to the OpenAPI document (default: openapi.yaml)")
	sdkOpts.register(sdkCmd, "output")
	sdkCmd.Flags().BoolVar(&sdkDryRun, "dry-run", false, "list the files instead of writing them")
}

func runSDK(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if sdkSpec != "" {
		cfg.SDK.Spec = sdkSpec
	}
	sdkOpts.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	printInfo("Reading spec: %s", cfg.SDK.Spec)
	doc, err := pipeline.LoadSpec(cfg.SDK.Spec)
	if err != nil {
		return err
	}

	_, err = generateSDK(cmd.Context(), cfg, doc, sdkDryRun, cmd.OutOrStdout())
	return err
}

// generateSDK renders the package for doc. A dry run lists the planned
// files on out.
func generateSDK(ctx context.Context, cfg *config.Config, doc *types.OpenAPI, dryRun bool, out io.Writer) (*sdkgen.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := pipeline.GenerateSDK(ctx, cfg, doc, dryRun)
	if err != nil {
		return nil, err
	}
	printInfo("Found %d tags", len(result.Modules))

	if dryRun {
		printInfo("Dry run mode - no files will be written")
		for _, f := range result.Planned {
			fmt.Fprintf(out, "%s (%d bytes)\n", filepath.Join(result.Root, filepath.FromSlash(f.RelPath)), f.Size)
		}
		return result, nil
	}

	for _, m := range result.Modules {
		printInfo("  wrote %s (%d ops)", m.FileName(), len(m.Methods))
	}
	printInfo("\nSDK written to %s/ (%d modules, %d operations)", cfg.SDK.Output, len(result.Modules), result.Operations)
	return result, nil
}
