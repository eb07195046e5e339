// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package scanner discovers HTML endpoint pages in a documentation folder.
package scanner

import (
	"path/filepath"
	"time"
)

// DefaultPattern matches the per-endpoint pages of the 26.0 reference.
const DefaultPattern = "26.0--*.html"

// SourceFile is one discovered documentation page.
type SourceFile struct {
	// Path is the absolute path to the file
	Path string

	// Content is the file content
	Content []byte

	// ModTime is the last modification time
	ModTime time.Time
}

// Name returns the file's base name, as used in skip diagnostics.
func (f SourceFile) Name() string {
	return filepath.Base(f.Path)
}
