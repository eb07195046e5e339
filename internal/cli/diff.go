// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/openapi"
	"github.com/api2spec/docs2sdk/pkg/types"
)

var (
	diffSource         specFlags
	diffNamesOnly      bool
	diffFailOnBreaking bool
)

var diffCmd = &cobra.Command{
	Use:   "diff [file1] [file2]",
	Short: "Compare two OpenAPI specifications",
	Long: `Compare two OpenAPI specifications and show the differences.

If only one file is provided, it will be compared against the document
built from the HTML pages.

If no files are provided, the existing spec file will be compared against
what would be built from the HTML pages.

Example:
  docs2sdk diff                           # Compare current vs pages
  docs2sdk diff openapi.yaml              # Compare file vs pages
  docs2sdk diff old.yaml new.yaml         # Compare two files
  docs2sdk diff --name-only               # One line per changed operation
  docs2sdk diff --fail-on-breaking a b    # Exit 1 on removals`,
	Args: cobra.MaximumNArgs(2),
	RunE: runDiff,
}

func init() {
	diffSource.registerSource(diffCmd)
	diffCmd.Flags().BoolVar(&diffNamesOnly, "name-only", false, "list changed operations only")
	diffCmd.Flags().BoolVar(&diffFailOnBreaking, "fail-on-breaking", false, "exit non-zero on breaking changes")
}

func runDiff(cmd *cobra.Command, args []string) error {
	var before, after *types.OpenAPI
	var err error

	switch len(args) {
	case 2:
		printInfo("Comparing %s against %s...", args[0], args[1])
		if before, err = openapi.ReadFile(args[0]); err != nil {
			return err
		}
		if after, err = openapi.ReadFile(args[1]); err != nil {
			return err
		}
	default:
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		diffSource.apply(cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		file := cfg.OpenAPI.Output
		if len(args) == 1 {
			file = args[0]
		}
		printInfo("Comparing %s against %s...", file, cfg.Source.Dir)
		if before, err = openapi.ReadFile(file); err != nil {
			return err
		}
		if after, err = specFromPages(cmd, cfg); err != nil {
			return err
		}
	}

	result, err := openapi.NewDiffer().Diff(before, after)
	if err != nil {
		return fmt.Errorf("failed to compare specs: %w", err)
	}

	out := cmd.OutOrStdout()
	if diffNamesOnly {
		writeNames(out, result)
	} else {
		fmt.Fprint(out, openapi.FormatDiff(result))
		if result.IsEmpty() {
			fmt.Fprintln(out)
		}
	}

	if diffFailOnBreaking && result.HasBreakingChanges {
		return errors.New("breaking changes detected")
	}
	return nil
}

func writeNames(out io.Writer, result *openapi.DiffResult) {
	for _, c := range result.PathChanges {
		fmt.Fprintf(out, "%s %s %s\n", getChangeSymbol(c.Type), c.Method, c.Path)
	}
	for _, c := range result.SchemaChanges {
		fmt.Fprintf(out, "%s schema %s\n", getChangeSymbol(c.Type), c.Name)
	}
}
