// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDir creates a temporary directory with test files.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tmpDir, path)
		dir := filepath.Dir(fullPath)
		err := os.MkdirAll(dir, 0o755)
		require.NoError(t, err)
		err = os.WriteFile(fullPath, []byte(content), 0o644)
		require.NoError(t, err)
	}

	return tmpDir
}

func names(files []SourceFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name()
	}
	return out
}

func TestNew_DefaultConfig(t *testing.T) {
	scanner := New(Config{})

	assert.NotNil(t, scanner)
	assert.Equal(t, ".", scanner.config.BasePath)
	assert.Equal(t, []string{DefaultPattern}, scanner.config.IncludePatterns)
}

func TestNew_CustomConfig(t *testing.T) {
	scanner := New(Config{
		BasePath:        "/custom/path",
		IncludePatterns: []string{"**/*.html"},
		ExcludePatterns: []string{"old/**"},
	})

	assert.Equal(t, "/custom/path", scanner.BasePath())
	assert.Equal(t, []string{"**/*.html"}, scanner.config.IncludePatterns)
	assert.Equal(t, []string{"old/**"}, scanner.config.ExcludePatterns)
}

func TestScanner_Scan_DefaultPatternSorted(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"26.0--siem-offenses-GET.html":     "<h1>GET /siem/offenses</h1>",
		"26.0--ariel-searches-POST.html":   "<h1>POST /ariel/searches</h1>",
		"25.0--siem-offenses-GET.html":     "older version",
		"26.0--index.htm":                  "wrong extension",
		"index.html":                       "landing page",
		"nested/26.0--help-versions.html":  "not top-level",
	})

	files, err := New(Config{BasePath: tmpDir}).Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"26.0--ariel-searches-POST.html",
		"26.0--siem-offenses-GET.html",
	}, names(files))

	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.Path))
		assert.NotEmpty(t, f.Content)
		assert.False(t, f.ModTime.IsZero())
	}
}

func TestScanner_Scan_RecursivePattern(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"26.0--a.html":          "a",
		"sub/26.0--b.html":      "b",
		"sub/deep/26.0--c.html": "c",
	})

	files, err := New(Config{
		BasePath:        tmpDir,
		IncludePatterns: []string{"**/26.0--*.html"},
	}).Scan()
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestScanner_Scan_ExcludePatterns(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"26.0--a.html":           "a",
		"26.0--a-print.html":     "print view",
		"archive/26.0--old.html": "archived",
		"sub/26.0--b.html":       "b",
	})

	files, err := New(Config{
		BasePath:        tmpDir,
		IncludePatterns: []string{"**/26.0--*.html"},
		ExcludePatterns: []string{"archive/**", "**/*-print.html"},
	}).Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"26.0--a.html", "26.0--b.html"}, names(files))
}

func TestScanner_Scan_EmptyDirectory(t *testing.T) {
	files, err := New(Config{BasePath: t.TempDir()}).Scan()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanner_Scan_MissingDirectory(t *testing.T) {
	_, err := New(Config{BasePath: "/nonexistent/docs"}).Scan()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDirNotFound))
	assert.Equal(t, "directory not found: /nonexistent/docs", err.Error())
}

func TestScanner_Scan_FileInsteadOfDirectory(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{"page.html": "x"})

	_, err := New(Config{BasePath: filepath.Join(tmpDir, "page.html")}).Scan()
	assert.ErrorIs(t, err, ErrDirNotFound)
}

func TestScanner_FileCount(t *testing.T) {
	tmpDir := setupTestDir(t, map[string]string{
		"26.0--a.html":       "a",
		"26.0--b.html":       "b",
		"26.0--b-print.html": "b",
		"readme.txt":         "docs",
	})

	count, err := New(Config{
		BasePath:        tmpDir,
		ExcludePatterns: []string{"*-print.html"},
	}).FileCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestScanner_Matches(t *testing.T) {
	tmpDir := t.TempDir()
	s := New(Config{BasePath: tmpDir, ExcludePatterns: []string{"*-print.html"}})

	assert.True(t, s.Matches(filepath.Join(tmpDir, "26.0--a.html")))
	assert.True(t, s.Matches("26.0--a.html"))
	assert.False(t, s.Matches(filepath.Join(tmpDir, "26.0--a-print.html")))
	assert.False(t, s.Matches(filepath.Join(tmpDir, "notes.txt")))
	assert.False(t, s.Matches(filepath.Join(filepath.Dir(tmpDir), "26.0--a.html")))
}

func TestScanner_ScansDir(t *testing.T) {
	tmpDir := t.TempDir()

	flat := New(Config{BasePath: tmpDir})
	assert.True(t, flat.ScansDir(tmpDir))
	assert.False(t, flat.ScansDir(filepath.Join(tmpDir, "sub")))

	recursive := New(Config{
		BasePath:        tmpDir,
		IncludePatterns: []string{"**/26.0--*.html"},
		ExcludePatterns: []string{"archive/**"},
	})
	assert.True(t, recursive.ScansDir("."))
	assert.True(t, recursive.ScansDir(filepath.Join(tmpDir, "sub", "deep")))
	assert.True(t, recursive.ScansDir("sub"))
	assert.False(t, recursive.ScansDir(filepath.Join(tmpDir, "archive")))
	assert.False(t, recursive.ScansDir(filepath.Dir(tmpDir)))
}

func TestValidatePatterns(t *testing.T) {
	assert.NoError(t, ValidatePatterns([]string{"26.0--*.html", "**/*.html"}))
	assert.Error(t, ValidatePatterns([]string{"[unclosed"}))
}
