// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/config"
	"github.com/api2spec/docs2sdk/internal/openapi"
	"github.com/api2spec/docs2sdk/internal/pipeline"
)

// specFlags are the document build flags shared by openapi, build and watch.
type specFlags struct {
	dir         string
	output      string
	format      string
	pattern     []string
	exclude     []string
	merge       bool
	keepRemoved bool
	strict      bool
	noValidate  bool
}

// registerSource registers the flags locating the pages and the document.
func (f *specFlags) registerSource(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "dir", "d", "", "directory containing the HTML files (default: .)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "OpenAPI document path (default: openapi.yaml)")
	cmd.Flags().StringSliceVarP(&f.pattern, "pattern", "p", nil, "glob patterns selecting endpoint pages (default: 26.0--*.html)")
	cmd.Flags().StringSliceVarP(&f.exclude, "exclude", "e", nil, "glob patterns to exclude")
}

func (f *specFlags) register(cmd *cobra.Command) {
	f.registerSource(cmd)
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: yaml, json (default: from extension)")
	cmd.Flags().BoolVar(&f.merge, "merge", false, "merge with the existing document at the output path")
	cmd.Flags().BoolVar(&f.keepRemoved, "keep-removed", false, "with --merge, keep operations whose page is gone")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on validation warnings")
	cmd.Flags().BoolVar(&f.noValidate, "no-validate", false, "skip document validation")
}

func (f *specFlags) apply(cfg *config.Config) {
	if f.dir != "" {
		cfg.Source.Dir = f.dir
	}
	if f.output != "" {
		cfg.OpenAPI.Output = f.output
	}
	if f.format != "" {
		cfg.OpenAPI.Format = f.format
	}
	if len(f.pattern) > 0 {
		cfg.Source.Include = f.pattern
	}
	if len(f.exclude) > 0 {
		cfg.Source.Exclude = f.exclude
	}
	if f.merge {
		cfg.OpenAPI.Merge = true
	}
	if f.keepRemoved {
		cfg.OpenAPI.KeepRemoved = true
	}
	if f.strict {
		cfg.OpenAPI.Strict = true
	}
	if f.noValidate {
		cfg.OpenAPI.Validate = false
	}
}

var (
	openapiFlags  specFlags
	openapiDryRun bool
)

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Generate an OpenAPI document from HTML reference pages",
	Long: `Generate an OpenAPI 3.0 document from a folder of HTML API reference pages.

Every page matching the pattern is parsed for its method and path heading,
parameter table and sample bodies. Pages without a heading are skipped.
When two pages describe the same method and path, the later page wins.

Example:
  docs2sdk openapi                              # Pages in the current directory
  docs2sdk openapi --dir docs/ -o api.yaml      # Custom folder and output
  docs2sdk openapi --pattern '*.html'           # Different page naming
  docs2sdk openapi --merge                      # Keep edited info and servers
  docs2sdk openapi --dry-run                    # Print instead of writing`,
	Args: cobra.NoArgs,
	RunE: runOpenAPI,
}

func init() {
	openapiFlags.register(openapiCmd)
	openapiCmd.Flags().BoolVar(&openapiDryRun, "dry-run", false, "print the document instead of writing it")
}

func runOpenAPI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	openapiFlags.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	printVerbose("Configuration:")
	printVerbose("  Directory: %s", cfg.Source.Dir)
	printVerbose("  Patterns: %v", cfg.Source.Include)
	printVerbose("  Output: %s", cfg.OpenAPI.Output)

	_, err = generateSpec(cmd.Context(), cfg, openapiDryRun, cmd.OutOrStdout())
	return err
}

// generateSpec builds the document for cfg and writes it, or prints it to
// out on a dry run.
func generateSpec(ctx context.Context, cfg *config.Config, dryRun bool, out io.Writer) (*pipeline.SpecResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := pipeline.BuildSpec(ctx, cfg)
	if result != nil {
		reportSpec(result, err != nil)
	}
	if err != nil {
		return nil, err
	}

	if dryRun {
		printInfo("Dry run mode - no files will be written")
		format := cfg.OpenAPI.Format
		if format == "" {
			format = openapi.FormatFor(cfg.OpenAPI.Output)
		}
		return result, writeDocument(out, result.Doc, format)
	}

	if err := pipeline.WriteSpec(cfg, result.Doc); err != nil {
		return nil, err
	}
	printInfo("OpenAPI spec written to %s (%d paths, %d operations)", cfg.OpenAPI.Output, result.Paths, result.Operations)
	return result, nil
}

// reportSpec prints what happened while building. Validation warnings are
// listed in full when they failed the build.
func reportSpec(result *pipeline.SpecResult, failed bool) {
	printInfo("Found %d HTML endpoint files", result.Files)
	for _, name := range result.Skipped {
		printInfo("  SKIP (no title found): %s", name)
	}
	for _, d := range result.Duplicates {
		printVerbose("  duplicate %s %s: %s replaces %s", d.Method, d.Path, d.Current, d.Previous)
	}
	if result.Merged {
		printVerbose("Merged with existing document")
	}

	if len(result.Warnings) == 0 {
		return
	}
	if failed {
		for _, w := range result.Warnings {
			printError("%s", w)
		}
		return
	}
	printInfo("%d validation warning(s)", len(result.Warnings))
	for _, w := range result.Warnings {
		printVerbose("  %s", w)
	}
}
