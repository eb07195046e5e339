// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package cli provides the command-line interface for docs2sdk.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/config"
)

// Global flags
var (
	cfgFile string
	verbose bool
	quiet   bool
)

// diagOut receives progress and diagnostics. Documents printed on request
// go to the command's standard output instead.
var diagOut io.Writer = os.Stderr

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "docs2sdk",
	Short: "HTML API reference to OpenAPI and Python SDK generator",
	Long: `docs2sdk turns a folder of HTML API reference pages into an OpenAPI 3.0
document, and an OpenAPI document into a Python client package.

Each page describes one operation: its method and path heading, the
parameter table, and sample request and response bodies. The SDK gets one
module per tag and one method per operation.

Example:
  docs2sdk openapi --dir docs/               # Build openapi.yaml from pages
  docs2sdk sdk --spec openapi.yaml           # Generate qradar_sdk/
  docs2sdk build                             # Both steps
  docs2sdk watch --sdk                       # Rebuild on page changes
  docs2sdk check --ci                        # Fail when openapi.yaml is stale`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: docs2sdk.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(openapiCmd)
	rootCmd.AddCommand(sdkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(probeCmd)
}

// loadConfig loads the --config file, or the first config file found in
// the current directory. Flag overrides are applied by the caller.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// printInfo prints a message if not in quiet mode.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(diagOut, format+"\n", args...)
	}
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(diagOut, format+"\n", args...)
	}
}

// printError prints an error message.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(diagOut, "Error: "+format+"\n", args...)
}
