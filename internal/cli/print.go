// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/openapi"
	"github.com/api2spec/docs2sdk/pkg/types"
)

var (
	printSource specFlags
	printFormat string
)

var printCmd = &cobra.Command{
	Use:   "print [file]",
	Short: "Print the OpenAPI specification to stdout",
	Long: `Print the OpenAPI specification to standard output.

If a file is provided, it will print that file. Otherwise, it will
build and print the document from the HTML pages.

This is useful for piping the output to other tools or for quick inspection.

Example:
  docs2sdk print                      # Build and print
  docs2sdk print openapi.yaml         # Print existing file
  docs2sdk print -f json              # Print in JSON format
  docs2sdk print -f json | jq '.paths'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

func init() {
	printSource.registerSource(printCmd)
	printCmd.Flags().StringVarP(&printFormat, "format", "f", "yaml", "output format: yaml, json")
}

func runPrint(cmd *cobra.Command, args []string) error {
	printVerbose("Print configuration:")
	printVerbose("  Format: %s", printFormat)

	var doc *types.OpenAPI
	if len(args) > 0 {
		var err error
		if doc, err = openapi.ReadFile(args[0]); err != nil {
			return err
		}
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printSource.apply(cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if doc, err = specFromPages(cmd, cfg); err != nil {
			return err
		}
	}

	return writeDocument(cmd.OutOrStdout(), doc, printFormat)
}

// writeDocument writes doc to out as YAML or JSON.
func writeDocument(out io.Writer, doc *types.OpenAPI, format string) error {
	w := openapi.NewWriter()
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		return w.WriteYAML(doc, out)
	case "json":
		return w.WriteJSON(doc, out)
	default:
		return newUsageError(fmt.Sprintf("unsupported format %q, must be one of: yaml, json", format))
	}
}
