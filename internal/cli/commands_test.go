// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/docs2sdk/internal/config"
	"github.com/api2spec/docs2sdk/internal/openapi"
)

// page renders a minimal reference page. Each param is "name:location".
func page(method, path, summary string, params ...string) string {
	var rows strings.Builder
	for _, p := range params {
		name, in, _ := strings.Cut(p, ":")
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%s</td><td>Optional</td><td>String</td><td>text/plain</td><td>d</td></tr>\n", name, in)
	}
	return fmt.Sprintf(`<html><body>
<h1 class="title">%s %s</h1>
<p class="shortdesc">%s</p>
<table><caption>Table 1. request parameter details</caption>
<tr><th>Parameter</th><th>Type</th><th>Optionality</th><th>Data Type</th><th>MIME Type</th><th>Description</th></tr>
%s</table>
<table><caption>Table 2. response codes</caption>
<tr><th>Code</th><th>Unique Code</th><th>Description</th></tr>
<tr><td>200</td><td></td><td>OK</td></tr>
</table>
<pre>[{"id": 1}]</pre>
</body></html>`, method, path, summary, rows.String())
}

// docsDir writes the two offense pages, plus extra pages, into a new folder.
func docsDir(t *testing.T, extra map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	pages := map[string]string{
		"26.0--GET-siem-offenses-offense_id.html": page("GET", "/siem/offenses/{offense_id}", "Get one", "offense_id:path"),
		"26.0--GET-siem-offenses.html":            page("GET", "/siem/offenses", "List", "filter:query"),
	}
	for name, content := range extra {
		pages[name] = content
	}
	for name, content := range pages {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

var setsPage = map[string]string{
	"26.0--GET-reference_data-sets.html": page("GET", "/reference_data/sets", "List sets"),
}

func writeSpec(t *testing.T, dir string) string {
	t.Helper()
	out := filepath.Join(dir, "openapi.yaml")
	_, err := executeCommand(rootCmd, "openapi", "--dir", dir, "-o", out)
	require.NoError(t, err)
	return out
}

func TestApplyIgnorePatterns(t *testing.T) {
	tests := []struct {
		name             string
		result           *openapi.DiffResult
		patterns         []string
		expectedPaths    int
		expectedSchemas  int
		expectedBreaking bool
	}{
		{
			name: "no patterns",
			result: &openapi.DiffResult{
				PathChanges: []openapi.PathChange{
					{Type: openapi.DiffTypeAdded, Path: "/siem/offenses", Method: "GET"},
					{Type: openapi.DiffTypeRemoved, Path: "/siem/notes", Method: "POST"},
				},
				SchemaChanges: []openapi.SchemaChange{
					{Type: openapi.DiffTypeAdded, Name: "GET /siem/offenses 200"},
				},
				HasBreakingChanges: true,
			},
			patterns:         []string{},
			expectedPaths:    2,
			expectedSchemas:  1,
			expectedBreaking: true,
		},
		{
			name: "filter by exact path",
			result: &openapi.DiffResult{
				PathChanges: []openapi.PathChange{
					{Type: openapi.DiffTypeAdded, Path: "/siem/offenses", Method: "GET"},
					{Type: openapi.DiffTypeRemoved, Path: "/siem/notes", Method: "POST"},
				},
				HasBreakingChanges: true,
			},
			patterns:         []string{"/siem/offenses"},
			expectedPaths:    1,
			expectedSchemas:  0,
			expectedBreaking: true, // /siem/notes is still removed, which is breaking
		},
		{
			name: "filter by prefix pattern",
			result: &openapi.DiffResult{
				PathChanges: []openapi.PathChange{
					{Type: openapi.DiffTypeAdded, Path: "/siem/offenses", Method: "GET"},
					{Type: openapi.DiffTypeAdded, Path: "/siem/notes", Method: "POST"},
					{Type: openapi.DiffTypeAdded, Path: "/help/versions", Method: "GET"},
				},
			},
			patterns:        []string{"/siem/*"},
			expectedPaths:   1,
			expectedSchemas: 0,
		},
		{
			name: "filter schema by name or path",
			result: &openapi.DiffResult{
				SchemaChanges: []openapi.SchemaChange{
					{Type: openapi.DiffTypeAdded, Name: "GET /siem/offenses 200"},
					{Type: openapi.DiffTypeAdded, Name: "POST /siem/notes body"},
					{Type: openapi.DiffTypeRemoved, Name: "GET /help/versions 200"},
				},
			},
			patterns:         []string{"GET /siem/offenses 200", "/siem/notes"},
			expectedPaths:    0,
			expectedSchemas:  1,
			expectedBreaking: true,
		},
		{
			name: "removed parameter stays breaking",
			result: &openapi.DiffResult{
				PathChanges: []openapi.PathChange{
					{Type: openapi.DiffTypeModified, Path: "/siem/offenses", Method: "GET", Details: []string{"removed parameter query:filter"}},
					{Type: openapi.DiffTypeRemoved, Path: "/siem/notes", Method: "GET"},
				},
				HasBreakingChanges: true,
			},
			patterns:         []string{"/siem/notes"},
			expectedPaths:    1,
			expectedBreaking: true,
		},
		{
			name: "breaking change removed when filtered",
			result: &openapi.DiffResult{
				PathChanges: []openapi.PathChange{
					{Type: openapi.DiffTypeRemoved, Path: "/siem/deprecated", Method: "GET"},
				},
				HasBreakingChanges: true,
			},
			patterns:         []string{"/siem/deprecated"},
			expectedPaths:    0,
			expectedSchemas:  0,
			expectedBreaking: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := applyIgnorePatterns(tt.result, tt.patterns)

			assert.Len(t, filtered.PathChanges, tt.expectedPaths)
			assert.Len(t, filtered.SchemaChanges, tt.expectedSchemas)
			assert.Equal(t, tt.expectedBreaking, filtered.HasBreakingChanges)
		})
	}
}

func TestMatchesAnyPattern(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		patterns []string
		expected bool
	}{
		{
			name:     "exact match",
			s:        "/siem/offenses",
			patterns: []string{"/siem/offenses"},
			expected: true,
		},
		{
			name:     "no match",
			s:        "/siem/offenses",
			patterns: []string{"/siem/notes"},
			expected: false,
		},
		{
			name:     "prefix wildcard",
			s:        "/siem/offenses",
			patterns: []string{"/siem/*"},
			expected: true,
		},
		{
			name:     "suffix wildcard",
			s:        "GET /siem/offenses 200",
			patterns: []string{"* 200"},
			expected: true,
		},
		{
			name:     "inner glob",
			s:        "/siem/offenses",
			patterns: []string{"/s?em/offenses"},
			expected: true,
		},
		{
			name:     "empty patterns",
			s:        "/siem/offenses",
			patterns: []string{},
			expected: false,
		},
		{
			name:     "multiple patterns - one match",
			s:        "/siem/offenses",
			patterns: []string{"/siem/notes", "/siem/offenses", "/help"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matchesAnyPattern(tt.s, tt.patterns))
		})
	}
}

func TestGetChangeSymbol(t *testing.T) {
	tests := []struct {
		diffType openapi.DiffType
		expected string
	}{
		{openapi.DiffTypeAdded, "+"},
		{openapi.DiffTypeRemoved, "-"},
		{openapi.DiffTypeModified, "~"},
	}

	for _, tt := range tests {
		t.Run(string(tt.diffType), func(t *testing.T) {
			assert.Equal(t, tt.expected, getChangeSymbol(tt.diffType))
		})
	}
}

func TestGenerateFilteredSummary(t *testing.T) {
	tests := []struct {
		name     string
		result   *openapi.DiffResult
		expected string
	}{
		{
			name:     "empty result",
			result:   &openapi.DiffResult{},
			expected: "No changes detected (after applying filters)",
		},
		{
			name: "operations added",
			result: &openapi.DiffResult{
				PathChanges: []openapi.PathChange{
					{Type: openapi.DiffTypeAdded, Path: "/siem/offenses"},
					{Type: openapi.DiffTypeAdded, Path: "/siem/notes"},
				},
			},
			expected: "2 operation(s) added",
		},
		{
			name: "mixed with breaking",
			result: &openapi.DiffResult{
				PathChanges: []openapi.PathChange{
					{Type: openapi.DiffTypeModified, Path: "/siem/offenses"},
					{Type: openapi.DiffTypeRemoved, Path: "/siem/notes"},
				},
				SchemaChanges: []openapi.SchemaChange{
					{Type: openapi.DiffTypeAdded, Name: "GET /x 200"},
				},
				HasBreakingChanges: true,
			},
			expected: "1 operation(s) removed, 1 operation(s) modified, 1 schema(s) added [BREAKING CHANGES DETECTED]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, generateFilteredSummary(tt.result))
		})
	}
}

func TestOpenAPICommand(t *testing.T) {
	diag := captureDiag(t)
	dir := docsDir(t, map[string]string{"26.0--overview.html": "<html><h1>Overview</h1></html>"})
	out := filepath.Join(dir, "openapi.yaml")

	_, err := executeCommand(rootCmd, "openapi", "--dir", dir, "-o", out)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf(
		"Found 3 HTML endpoint files\n  SKIP (no title found): 26.0--overview.html\nOpenAPI spec written to %s (2 paths, 2 operations)\n", out),
		diag.String())

	doc, err := openapi.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"/siem/offenses/{offense_id}", "/siem/offenses"}, doc.Paths.Keys())
}

func TestOpenAPICommand_DryRun(t *testing.T) {
	diag := captureDiag(t)
	dir := docsDir(t, nil)
	out := filepath.Join(dir, "openapi.json")

	stdout, err := executeCommand(rootCmd, "openapi", "--dir", dir, "-o", out, "--dry-run")
	require.NoError(t, err)

	assert.True(t, json.Valid([]byte(stdout)), stdout)
	assert.Contains(t, stdout, `"/siem/offenses"`)
	assert.Contains(t, diag.String(), "Dry run mode - no files will be written")
	assert.NoFileExists(t, out)
}

func TestOpenAPICommand_Quiet(t *testing.T) {
	diag := captureDiag(t)
	dir := docsDir(t, nil)

	_, err := executeCommand(rootCmd, "openapi", "-q", "--dir", dir, "-o", filepath.Join(dir, "openapi.yaml"))
	require.NoError(t, err)
	assert.Empty(t, diag.String())
}

func TestOpenAPICommand_MissingDirectory(t *testing.T) {
	captureDiag(t)
	dir := filepath.Join(t.TempDir(), "missing")

	_, err := executeCommand(rootCmd, "openapi", "--dir", dir, "-o", filepath.Join(t.TempDir(), "openapi.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory not found: ")
	assert.Equal(t, 1, ExitCode(err))
}

func TestOpenAPICommand_InvalidFormat(t *testing.T) {
	captureDiag(t)
	dir := docsDir(t, nil)

	_, err := executeCommand(rootCmd, "openapi", "--dir", dir, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestSDKCommand(t *testing.T) {
	diag := captureDiag(t)
	dir := docsDir(t, nil)
	spec := writeSpec(t, dir)
	pkg := filepath.Join(dir, "out", "qradar_sdk")

	diag.Reset()
	_, err := executeCommand(rootCmd, "sdk", "--spec", spec, "-o", pkg)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf(
		"Reading spec: %s\nFound 1 tags\n  wrote siem.py (2 ops)\n\nSDK written to %s/ (1 modules, 2 operations)\n", spec, pkg),
		diag.String())

	assert.FileExists(t, filepath.Join(pkg, "api", "siem.py"))
	assert.FileExists(t, filepath.Join(pkg, "client.py"))
	assert.FileExists(t, filepath.Join(dir, "out", "pyproject.toml"))

	readme, err := os.ReadFile(filepath.Join(dir, "out", "README_SDK.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "openapi.yaml")
}

func TestSDKCommand_DryRun(t *testing.T) {
	diag := captureDiag(t)
	dir := docsDir(t, nil)
	spec := writeSpec(t, dir)
	pkg := filepath.Join(dir, "out", "qradar_sdk")

	stdout, err := executeCommand(rootCmd, "sdk", "--spec", spec, "-o", pkg, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, stdout, filepath.Join(pkg, "api", "siem.py")+" (")
	assert.Contains(t, diag.String(), "Dry run mode - no files will be written")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestSDKCommand_MissingSpec(t *testing.T) {
	captureDiag(t)
	spec := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := executeCommand(rootCmd, "sdk", "--spec", spec, "-o", filepath.Join(t.TempDir(), "sdk"))
	require.Error(t, err)
	assert.ErrorIs(t, err, openapi.ErrSpecNotFound)
	assert.Equal(t, "spec not found: "+spec, err.Error())
}

func TestBuildCommand(t *testing.T) {
	captureDiag(t)
	dir := docsDir(t, nil)
	spec := filepath.Join(dir, "api.yaml")
	pkg := filepath.Join(dir, "out", "my_sdk")

	_, err := executeCommand(rootCmd, "build", "--dir", dir, "-o", spec, "--sdk-output", pkg)
	require.NoError(t, err)

	assert.FileExists(t, spec)
	assert.FileExists(t, filepath.Join(pkg, "api", "siem.py"))

	readme, err := os.ReadFile(filepath.Join(dir, "out", "README_SDK.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "api.yaml")
}

func TestRebuild(t *testing.T) {
	captureDiag(t)
	dir := docsDir(t, nil)

	cfg := config.Default()
	cfg.Source.Dir = dir
	cfg.OpenAPI.Output = filepath.Join(dir, "openapi.yaml")
	cfg.SDK.Output = filepath.Join(dir, "out", "qradar_sdk")

	require.NoError(t, rebuild(context.Background(), cfg, io.Discard))
	assert.FileExists(t, cfg.OpenAPI.Output)
	assert.NoDirExists(t, cfg.SDK.Output)

	cfg.Watch.SDK = true
	require.NoError(t, rebuild(context.Background(), cfg, io.Discard))
	assert.FileExists(t, filepath.Join(cfg.SDK.Output, "api", "siem.py"))
}

func TestCheckCommand(t *testing.T) {
	diag := captureDiag(t)
	dir := docsDir(t, nil)
	spec := writeSpec(t, dir)

	diag.Reset()
	_, err := executeCommand(rootCmd, "check", "--dir", dir, "-o", spec)
	require.NoError(t, err)
	assert.Contains(t, diag.String(), "Spec is in sync with the documentation")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "26.0--GET-reference_data-sets.html"), []byte(setsPage["26.0--GET-reference_data-sets.html"]), 0o644))

	stdout, err := executeCommand(rootCmd, "check", "--dir", dir, "-o", spec, "--ci")
	require.Error(t, err)
	assert.Equal(t, ExitCodeDifference, ExitCode(err))
	assert.Contains(t, stdout, "+ GET /reference_data/sets\n")
	assert.Contains(t, stdout, "1 operation(s) added")

	_, err = executeCommand(rootCmd, "check", "--dir", dir, "-o", spec, "--strict=false")
	assert.NoError(t, err)

	_, err = executeCommand(rootCmd, "check", "--dir", dir, "-o", spec, "--ignore", "/reference_data/*", "--ci")
	assert.NoError(t, err)
}

func TestCheckCommand_MissingSpec(t *testing.T) {
	captureDiag(t)
	dir := docsDir(t, nil)

	_, err := executeCommand(rootCmd, "check", "--dir", dir, "-o", filepath.Join(dir, "missing.yaml"), "--ci")
	require.Error(t, err)
	assert.ErrorIs(t, err, openapi.ErrSpecNotFound)
	assert.Equal(t, ExitCodeDifference, ExitCode(err))
}

func TestCheckCommand_AnalysisError(t *testing.T) {
	captureDiag(t)
	dir := docsDir(t, nil)
	spec := writeSpec(t, dir)

	_, err := executeCommand(rootCmd, "check", "--dir", filepath.Join(dir, "missing"), "-o", spec, "--ci")
	require.Error(t, err)
	assert.Equal(t, ExitCodeCheckError, ExitCode(err))
}

func TestDiffCommand(t *testing.T) {
	captureDiag(t)
	before := writeSpec(t, docsDir(t, nil))
	after := writeSpec(t, docsDir(t, setsPage))

	stdout, err := executeCommand(rootCmd, "diff", before, after, "--name-only")
	require.NoError(t, err)
	assert.Equal(t, "+ GET /reference_data/sets\n", stdout)

	stdout, err = executeCommand(rootCmd, "diff", after, before, "--fail-on-breaking")
	require.Error(t, err)
	assert.Contains(t, stdout, "- GET /reference_data/sets\n")
	assert.Contains(t, stdout, "[BREAKING CHANGES DETECTED]")

	stdout, err = executeCommand(rootCmd, "diff", before, before)
	require.NoError(t, err)
	assert.Equal(t, "No differences found.\n", stdout)
}

func TestDiffCommand_AgainstPages(t *testing.T) {
	captureDiag(t)
	dir := docsDir(t, nil)
	spec := writeSpec(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "26.0--GET-reference_data-sets.html"), []byte(setsPage["26.0--GET-reference_data-sets.html"]), 0o644))

	stdout, err := executeCommand(rootCmd, "diff", spec, "--dir", dir, "--name-only")
	require.NoError(t, err)
	assert.Equal(t, "+ GET /reference_data/sets\n", stdout)
}

func TestPrintCommand(t *testing.T) {
	captureDiag(t)
	dir := docsDir(t, nil)
	spec := writeSpec(t, dir)

	stdout, err := executeCommand(rootCmd, "print", spec, "-f", "json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, `"openapi"`)

	stdout, err = executeCommand(rootCmd, "print", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "/siem/offenses/")

	_, err = executeCommand(rootCmd, "print", spec, "-f", "xml")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestValidateCommand(t *testing.T) {
	diag := captureDiag(t)
	dir := docsDir(t, nil)
	spec := writeSpec(t, dir)

	diag.Reset()
	_, err := executeCommand(rootCmd, "validate", spec)
	require.NoError(t, err)
	assert.Equal(t, spec+" is valid (2 paths, 2 operations)\n", diag.String())

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte(`openapi: 3.0.0
info:
  title: t
  version: "1"
paths:
  /x/{id}:
    get:
      tags: [x]
      responses:
        "200":
          description: OK
`), 0o644))

	diag.Reset()
	_, err = executeCommand(rootCmd, "validate", broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation problem(s)")
	assert.Contains(t, diag.String(), "Error: ")
}

func TestProbeCommand(t *testing.T) {
	diag := captureDiag(t)
	dir := docsDir(t, nil)
	spec := writeSpec(t, dir)

	var token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = r.Header.Get("SEC")
		if r.URL.Path != "/api/siem/offenses" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	report := filepath.Join(dir, "probe.csv")
	diag.Reset()
	_, err := executeCommand(rootCmd, "probe", "--spec", spec, "--host", srv.URL, "--sec-token", "secret", "--report", report)
	require.NoError(t, err)

	assert.Equal(t, "secret", token)
	assert.Contains(t, diag.String(), fmt.Sprintf("Probing 1 operations on %s/api\n", srv.URL))
	assert.Contains(t, diag.String(), "  ok: 1\n")
	assert.Contains(t, diag.String(), "Report written to "+report+" (1 results)\n")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), "method,path,status,bytes,duration_ms,outcome,error\n")
	assert.Contains(t, string(data), "GET,/siem/offenses,200,2,")
}

func TestProbeCommand_MissingCredentials(t *testing.T) {
	captureDiag(t)
	t.Setenv("DOCS2SDK_PROBE_SECTOKEN", "")
	dir := docsDir(t, nil)
	spec := writeSpec(t, dir)

	_, err := executeCommand(rootCmd, "probe", "--spec", spec, "--host", "localhost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEC token")
}

func TestStandaloneCommands(t *testing.T) {
	diag := captureDiag(t)
	dir := docsDir(t, nil)
	spec := filepath.Join(dir, "openapi.yaml")
	pkg := filepath.Join(dir, "qradar_sdk")

	_, err := executeCommand(html2openapiCmd, "--dir", dir, "--output", spec)
	require.NoError(t, err)
	assert.Contains(t, diag.String(), "OpenAPI spec written to "+spec+" (2 paths, 2 operations)")

	diag.Reset()
	_, err = executeCommand(openapi2sdkCmd, "-s", spec, "-o", pkg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(diag.String(), "Reading spec: "+spec+"\nFound 1 tags\n"), diag.String())
	assert.FileExists(t, filepath.Join(pkg, "api", "siem.py"))
}

func TestStandaloneCommands_MissingInputs(t *testing.T) {
	captureDiag(t)
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := executeCommand(html2openapiCmd, "-d", missing)
	require.Error(t, err)
	assert.Equal(t, "directory not found: "+missing, err.Error())

	_, err = executeCommand(openapi2sdkCmd, "--spec", missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, openapi.ErrSpecNotFound))
}
