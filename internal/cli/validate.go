// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/openapi"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate an OpenAPI document",
	Long: `Validate loads an OpenAPI document, runs the OpenAPI 3 structural checks
on it, and reports duplicate operationIds and operations without tags.

Without a file the configured output document is validated.

Example:
  docs2sdk validate                   # Validate openapi.yaml
  docs2sdk validate api.json          # Validate another document`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	file := ""
	if len(args) > 0 {
		file = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		file = cfg.OpenAPI.Output
	}

	doc, err := openapi.ReadFile(file)
	if err != nil {
		return err
	}

	report, err := openapi.Validate(cmd.Context(), doc)
	if err != nil {
		return err
	}

	paths, ops := openapi.Stats(doc)
	if report.OK() {
		printInfo("%s is valid (%d paths, %d operations)", file, paths, ops)
		return nil
	}

	for _, w := range report.Warnings {
		printError("%s", w)
	}
	return fmt.Errorf("%s has %d validation problem(s)", file, len(report.Warnings))
}
