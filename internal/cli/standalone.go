// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/config"
	"github.com/api2spec/docs2sdk/internal/pipeline"
)

var (
	html2openapiDir    string
	html2openapiOutput string

	openapi2sdkSpec   string
	openapi2sdkOutput string
)

// html2openapiCmd is the single-purpose page to document converter. It
// ignores config files.
var html2openapiCmd = &cobra.Command{
	Use:           "html2openapi",
	Short:         "Generate OpenAPI 3.0 YAML from QRadar HTML docs",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		cfg.Source.Dir = html2openapiDir
		cfg.OpenAPI.Output = html2openapiOutput
		cfg.OpenAPI.Validate = false

		_, err := generateSpec(cmd.Context(), cfg, false, cmd.OutOrStdout())
		return err
	},
}

// openapi2sdkCmd is the single-purpose document to SDK converter. It
// ignores config files.
var openapi2sdkCmd = &cobra.Command{
	Use:           "openapi2sdk",
	Short:         "Generate Python SDK from QRadar OpenAPI spec",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		cfg.SDK.Spec = openapi2sdkSpec
		cfg.SDK.Output = openapi2sdkOutput

		printInfo("Reading spec: %s", cfg.SDK.Spec)
		doc, err := pipeline.LoadSpec(cfg.SDK.Spec)
		if err != nil {
			return err
		}
		_, err = generateSDK(cmd.Context(), cfg, doc, false, cmd.OutOrStdout())
		return err
	},
}

func init() {
	html2openapiCmd.Flags().StringVarP(&html2openapiOutput, "output", "o", "openapi.yaml", "Output file path")
	html2openapiCmd.Flags().StringVarP(&html2openapiDir, "dir", "d", ".", "Directory containing the HTML files")

	openapi2sdkCmd.Flags().StringVarP(&openapi2sdkSpec, "spec", "s", "openapi.yaml", "Path to openapi.yaml")
	openapi2sdkCmd.Flags().StringVarP(&openapi2sdkOutput, "output", "o", "qradar_sdk", "Output directory for the SDK package")
}

// ExecuteHTML2OpenAPI runs the html2openapi command.
func ExecuteHTML2OpenAPI() error {
	return html2openapiCmd.Execute()
}

// ExecuteOpenAPI2SDK runs the openapi2sdk command.
func ExecuteOpenAPI2SDK() error {
	return openapi2sdkCmd.Execute()
}
