// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/config"
	"github.com/api2spec/docs2sdk/internal/openapi"
	"github.com/api2spec/docs2sdk/internal/probe"
	"github.com/api2spec/docs2sdk/internal/session"
)

var (
	probeSpec     string
	probeHost     string
	probeToken    string
	probeUser     string
	probePassword string
	probeCAFile   string
	probeInsecure bool
	probeTimeout  int
	probeReport   string
	probeLimit    int
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Call the parameterless GET operations against a live console",
	Long: `Probe calls every GET operation of the document that needs no path or
required parameters, asking for a single item, and writes a CSV report of
status, size, duration and outcome per operation.

Credentials can come from the config file, flags, or the environment
(DOCS2SDK_PROBE_SECTOKEN, DOCS2SDK_PROBE_USERNAME, DOCS2SDK_PROBE_PASSWORD).

Example:
  docs2sdk probe --host qradar.example.com --sec-token $TOKEN
  docs2sdk probe --host 10.0.0.5 --insecure --report probe.csv
  docs2sdk probe --limit 10                # First ten operations only`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().StringVarP(&probeSpec, "spec", "s", "", "path to the OpenAPI document (default: openapi.yaml)")
	probeCmd.Flags().StringVar(&probeHost, "host", "", "console hostname or URL")
	probeCmd.Flags().StringVar(&probeToken, "sec-token", "", "authorized service token")
	probeCmd.Flags().StringVar(&probeUser, "username", "", "basic auth username")
	probeCmd.Flags().StringVar(&probePassword, "password", "", "basic auth password")
	probeCmd.Flags().StringVar(&probeCAFile, "ca-file", "", "CA bundle for the console certificate")
	probeCmd.Flags().BoolVar(&probeInsecure, "insecure", false, "skip TLS certificate verification")
	probeCmd.Flags().IntVar(&probeTimeout, "timeout", 0, "per-request timeout in seconds (default: 30)")
	probeCmd.Flags().StringVar(&probeReport, "report", "", "CSV report path (default: probe.csv)")
	probeCmd.Flags().IntVar(&probeLimit, "limit", 0, "probe at most this many operations")
}

func applyProbeFlags(cfg *config.Config) {
	if probeHost != "" {
		cfg.Probe.Host = probeHost
	}
	if probeToken != "" {
		cfg.Probe.SECToken = probeToken
	}
	if probeUser != "" {
		cfg.Probe.Username = probeUser
	}
	if probePassword != "" {
		cfg.Probe.Password = probePassword
	}
	if probeCAFile != "" {
		cfg.Probe.CAFile = probeCAFile
	}
	if probeInsecure {
		cfg.Probe.VerifyTLS = false
	}
	if probeTimeout > 0 {
		cfg.Probe.Timeout = probeTimeout
	}
	if probeReport != "" {
		cfg.Probe.Report = probeReport
	}
}

var outcomeOrder = []probe.Outcome{
	probe.OutcomeOK,
	probe.OutcomeNotFound,
	probe.OutcomeRateLimited,
	probe.OutcomeAuthFailed,
	probe.OutcomeHTTPError,
	probe.OutcomeFailed,
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyProbeFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	specPath := probeSpec
	if specPath == "" {
		specPath = cfg.OpenAPI.Output
	}
	doc, err := openapi.ReadFile(specPath)
	if err != nil {
		return err
	}

	s, err := session.New(session.OptionsFromConfig(cfg.Probe))
	if err != nil {
		return err
	}

	targets := probe.Targets(doc)
	if probeLimit > 0 && len(targets) > probeLimit {
		targets = targets[:probeLimit]
	}
	printInfo("Probing %d operations on %s", len(targets), s.BaseURL())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results := probe.New(s).Run(ctx, targets)
	for _, r := range results {
		printVerbose("  %-4s %-60s %3d %s", r.Method, r.Path, r.Status, r.Outcome)
	}

	counts := probe.Summary(results)
	for _, o := range outcomeOrder {
		if n := counts[o]; n > 0 {
			printInfo("  %s: %d", o, n)
		}
	}

	if err := probe.WriteReport(cfg.Probe.Report, results); err != nil {
		return err
	}
	printInfo("Report written to %s (%d results)", cfg.Probe.Report, len(results))

	if len(results) < len(targets) {
		return fmt.Errorf("probe interrupted after %d of %d operations", len(results), len(targets))
	}
	return nil
}
