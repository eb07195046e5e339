// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrDirNotFound is returned when the documentation folder does not exist.
var ErrDirNotFound = errors.New("directory not found")

// Config holds scanner configuration.
type Config struct {
	// BasePath is the documentation folder (defaults to current directory)
	BasePath string

	// IncludePatterns are glob patterns relative to BasePath (e.g., "26.0--*.html").
	// A pattern without "**" only matches files directly in BasePath.
	IncludePatterns []string

	// ExcludePatterns are glob patterns for files to skip (e.g., "**/*-print.html")
	ExcludePatterns []string
}

// Scanner discovers documentation pages.
type Scanner struct {
	config Config
}

// New creates a new Scanner with the given configuration.
func New(config Config) *Scanner {
	if config.BasePath == "" {
		config.BasePath = "."
	}
	if len(config.IncludePatterns) == 0 {
		config.IncludePatterns = []string{DefaultPattern}
	}

	return &Scanner{
		config: config,
	}
}

// Scan returns every matching page under BasePath, sorted by path.
func (s *Scanner) Scan() ([]SourceFile, error) {
	basePath, err := s.basePath()
	if err != nil {
		return nil, err
	}

	var files []SourceFile
	err = s.walk(basePath, func(filePath string, info fs.FileInfo) {
		content, err := os.ReadFile(filePath)
		if err != nil {
			// Skip files we can't read
			return
		}
		files = append(files, SourceFile{
			Path:    filePath,
			Content: content,
			ModTime: info.ModTime(),
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// FileCount returns a quick count of matching files without reading content.
func (s *Scanner) FileCount() (int, error) {
	basePath, err := s.basePath()
	if err != nil {
		return 0, err
	}

	count := 0
	err = s.walk(basePath, func(string, fs.FileInfo) { count++ })
	return count, err
}

// Matches reports whether path (absolute, or relative to BasePath) is a page
// the scanner would pick up. The watcher uses it to filter events.
func (s *Scanner) Matches(path string) bool {
	basePath, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(basePath, path)
	}
	relPath, err := filepath.Rel(basePath, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return false
	}
	return s.shouldInclude(filepath.ToSlash(relPath))
}

// ScansDir reports whether the directory at path (absolute, or relative to
// BasePath) is one a scan walks into. The watcher uses it to pick the
// directories it subscribes to.
func (s *Scanner) ScansDir(path string) bool {
	basePath, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(basePath, path)
	}
	relPath, err := filepath.Rel(basePath, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return false
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		return true
	}
	return s.descends() && !s.shouldExcludeDir(relPath)
}

// BasePath returns the configured documentation folder.
func (s *Scanner) BasePath() string {
	return s.config.BasePath
}

func (s *Scanner) basePath() (string, error) {
	basePath, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}

	info, err := os.Stat(basePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrDirNotFound, s.config.BasePath)
		}
		return "", fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrDirNotFound, s.config.BasePath)
	}
	return basePath, nil
}

func (s *Scanner) walk(basePath string, visit func(string, fs.FileInfo)) error {
	err := filepath.WalkDir(basePath, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip inaccessible paths
			return nil
		}

		relPath, _ := filepath.Rel(basePath, filePath)
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath != "." && !s.descends() {
				return filepath.SkipDir
			}
			if s.shouldExcludeDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.shouldInclude(relPath) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		visit(filePath, info)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}
	return nil
}

// descends reports whether any include pattern can match below BasePath.
func (s *Scanner) descends() bool {
	for _, pattern := range s.config.IncludePatterns {
		if strings.Contains(pattern, "/") {
			return true
		}
	}
	return false
}

func (s *Scanner) shouldInclude(relPath string) bool {
	if matchesPatterns(relPath, s.config.ExcludePatterns) {
		return false
	}
	return matchesPatterns(relPath, s.config.IncludePatterns)
}

// shouldExcludeDir checks if a directory should be excluded.
func (s *Scanner) shouldExcludeDir(relPath string) bool {
	if relPath == "" || relPath == "." {
		return false
	}

	for _, pattern := range s.config.ExcludePatterns {
		// "old" matches "old/**"
		dirPattern := strings.TrimSuffix(pattern, "/**")
		dirPattern = strings.TrimSuffix(dirPattern, "/*")

		if relPath == dirPattern {
			return true
		}

		matched, _ := doublestar.Match(pattern, relPath+"/dummy.html")
		if matched {
			return true
		}
	}

	return false
}

// matchesPatterns checks if a path matches any of the given patterns.
func matchesPatterns(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			// Invalid pattern, skip
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// ValidatePatterns reports the first malformed glob pattern.
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid pattern %q", pattern)
		}
	}
	return nil
}
