// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	buildSpecFlags specFlags
	buildSDKFlags  sdkFlags
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the OpenAPI document, then the SDK from it",
	Long: `Build runs openapi and sdk in one go. The SDK is generated from the
document just written, so the two never disagree.

Example:
  docs2sdk build                                  # openapi.yaml and qradar_sdk/
  docs2sdk build --dir docs/ --sdk-output out/sdk # Custom folders`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildSpecFlags.register(buildCmd)
	buildSDKFlags.register(buildCmd, "sdk-output")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	buildSpecFlags.apply(cfg)
	buildSDKFlags.apply(cfg)
	cfg.SDK.Spec = cfg.OpenAPI.Output

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	result, err := generateSpec(cmd.Context(), cfg, false, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	_, err = generateSDK(cmd.Context(), cfg, result.Doc, false, cmd.OutOrStdout())
	return err
}
