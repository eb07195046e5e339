// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/api2spec/docs2sdk/internal/config"
	"github.com/api2spec/docs2sdk/internal/openapi"
	"github.com/api2spec/docs2sdk/internal/pipeline"
	"github.com/api2spec/docs2sdk/pkg/types"
)

var (
	checkSource specFlags
	checkStrict bool
	checkIgnore []string
	checkCI     bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check if the OpenAPI document matches the HTML pages",
	Long: `Check validates that the OpenAPI document on disk matches your HTML pages.

This command builds a document from the pages and compares it with the
existing document. It's useful for CI pipelines to ensure the committed
document is regenerated whenever the documentation changes.

Exit codes (with --ci):
  0  Document matches the pages
  1  Document differs from the pages
  2  Error during analysis

Example:
  docs2sdk check                          # Basic validation
  docs2sdk check --ci                     # CI mode with appropriate exit codes
  docs2sdk check --ignore '/help/*'       # Ignore some path differences`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkSource.registerSource(checkCmd)
	checkCmd.Flags().BoolVar(&checkStrict, "strict", true, "fail on any difference")
	checkCmd.Flags().StringSliceVar(&checkIgnore, "ignore", nil, "patterns to ignore in comparison (paths, schemas)")
	checkCmd.Flags().BoolVar(&checkCI, "ci", false, "CI mode: use exit codes for status")
}

// checkExit attaches the check exit code in CI mode.
func checkExit(code int, err error) error {
	if !checkCI || err == nil {
		return err
	}
	return &ExitError{Code: code, Err: err}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return checkExit(ExitCodeCheckError, err)
	}
	checkSource.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return checkExit(ExitCodeCheckError, fmt.Errorf("invalid configuration: %w", err))
	}

	printVerbose("Check configuration:")
	printVerbose("  Strict mode: %t", checkStrict)
	printVerbose("  CI mode: %t", checkCI)
	if len(checkIgnore) > 0 {
		printVerbose("  Ignored patterns: %s", strings.Join(checkIgnore, ", "))
	}
	printVerbose("  Directory: %s", cfg.Source.Dir)
	printVerbose("  Spec file: %s", cfg.OpenAPI.Output)

	existing, err := openapi.ReadFile(cfg.OpenAPI.Output)
	if err != nil {
		if errors.Is(err, openapi.ErrSpecNotFound) {
			printInfo("Run 'docs2sdk openapi' first to create the spec file")
			return checkExit(ExitCodeDifference, err)
		}
		return checkExit(ExitCodeCheckError, fmt.Errorf("failed to read existing spec: %w", err))
	}

	generated, err := specFromPages(cmd, cfg)
	if err != nil {
		return checkExit(ExitCodeCheckError, fmt.Errorf("failed to build spec from pages: %w", err))
	}

	diffResult, err := openapi.NewDiffer().Diff(existing, generated)
	if err != nil {
		return checkExit(ExitCodeCheckError, fmt.Errorf("failed to compare specs: %w", err))
	}
	diffResult = applyIgnorePatterns(diffResult, checkIgnore)

	if diffResult.IsEmpty() {
		printInfo("Spec is in sync with the documentation")
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), openapi.FormatDiff(diffResult))
	if diffResult.HasBreakingChanges {
		printError("Breaking changes detected!")
	}
	printInfo("Run 'docs2sdk openapi' to update the spec file")

	if checkStrict || checkCI {
		return checkExit(ExitCodeDifference, errors.New("spec differs from the documentation"))
	}
	return nil
}

// specFromPages builds a document from the pages without validating or
// writing it.
func specFromPages(cmd *cobra.Command, cfg *config.Config) (*types.OpenAPI, error) {
	built := *cfg
	built.OpenAPI.Validate = false
	result, err := pipeline.BuildSpec(cmd.Context(), &built)
	if err != nil {
		return nil, err
	}
	printVerbose("Scanned %d HTML endpoint files (%d skipped)", result.Files, len(result.Skipped))
	return result.Doc, nil
}

// applyIgnorePatterns filters out changes that match ignore patterns.
func applyIgnorePatterns(result *openapi.DiffResult, patterns []string) *openapi.DiffResult {
	if len(patterns) == 0 {
		return result
	}

	filtered := &openapi.DiffResult{
		PathChanges:   make([]openapi.PathChange, 0),
		SchemaChanges: make([]openapi.SchemaChange, 0),
	}

	for _, change := range result.PathChanges {
		if !matchesAnyPattern(change.Path, patterns) {
			filtered.PathChanges = append(filtered.PathChanges, change)
		}
	}

	// Schema changes are named "METHOD PATH STATUS"; the path part matches too.
	for _, change := range result.SchemaChanges {
		if !matchesAnyPattern(change.Name, patterns) && !matchesAnyPattern(schemaPath(change.Name), patterns) {
			filtered.SchemaChanges = append(filtered.SchemaChanges, change)
		}
	}

	for _, change := range filtered.PathChanges {
		if change.Type == openapi.DiffTypeRemoved || hasRemovedDetail(change.Details) {
			filtered.HasBreakingChanges = true
			break
		}
	}
	if !filtered.HasBreakingChanges {
		for _, change := range filtered.SchemaChanges {
			if change.Type == openapi.DiffTypeRemoved {
				filtered.HasBreakingChanges = true
				break
			}
		}
	}

	filtered.Summary = generateFilteredSummary(filtered)

	return filtered
}

func hasRemovedDetail(details []string) bool {
	for _, d := range details {
		if strings.HasPrefix(d, "removed ") {
			return true
		}
	}
	return false
}

func schemaPath(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name
	}
	return parts[1]
}

// matchesAnyPattern checks if a string matches any of the given patterns.
func matchesAnyPattern(s string, patterns []string) bool {
	for _, pattern := range patterns {
		// Simple prefix/suffix matching
		if strings.HasPrefix(pattern, "*") {
			if strings.HasSuffix(s, pattern[1:]) {
				return true
			}
		} else if strings.HasSuffix(pattern, "*") {
			if strings.HasPrefix(s, pattern[:len(pattern)-1]) {
				return true
			}
		} else if strings.Contains(pattern, "*") {
			if matched, _ := filepath.Match(pattern, s); matched {
				return true
			}
		} else if s == pattern {
			return true
		}
	}
	return false
}

// generateFilteredSummary generates a summary for filtered results.
func generateFilteredSummary(result *openapi.DiffResult) string {
	if result.IsEmpty() {
		return "No changes detected (after applying filters)"
	}

	counts := map[openapi.DiffType]int{}
	for _, c := range result.PathChanges {
		counts[c.Type]++
	}
	schemaCounts := map[openapi.DiffType]int{}
	for _, c := range result.SchemaChanges {
		schemaCounts[c.Type]++
	}

	var parts []string
	order := []openapi.DiffType{openapi.DiffTypeAdded, openapi.DiffTypeRemoved, openapi.DiffTypeModified}
	for _, t := range order {
		if n := counts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d operation(s) %s", n, t))
		}
	}
	for _, t := range order {
		if n := schemaCounts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d schema(s) %s", n, t))
		}
	}

	summary := strings.Join(parts, ", ")
	if result.HasBreakingChanges {
		summary += " [BREAKING CHANGES DETECTED]"
	}

	return summary
}

// getChangeSymbol returns a symbol for the change type.
func getChangeSymbol(t openapi.DiffType) string {
	switch t {
	case openapi.DiffTypeAdded:
		return "+"
	case openapi.DiffTypeRemoved:
		return "-"
	case openapi.DiffTypeModified:
		return "~"
	default:
		return " "
	}
}
