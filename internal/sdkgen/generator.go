// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package sdkgen generates a Python client package from an OpenAPI document:
// one module per tag, one method per operation, plus the shared HTTP
// session, exception hierarchy, aggregating client and packaging files.
package sdkgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/api2spec/docs2sdk/pkg/types"
)

// Options controls generation.
type Options struct {
	OutDir         string // package directory; its parent receives pyproject.toml and README_SDK.md
	SpecName       string // spec file name quoted in the README
	PackageVersion string
	APIVersion     string
	DryRun         bool // plan only
	Verify         bool // parse every .py file before writing
}

// PlannedFile describes a file the generator writes.
type PlannedFile struct {
	RelPath string
	Size    int
}

// Result describes a generated (or planned) SDK.
type Result struct {
	// Package is the Python import name.
	Package string

	// Root is the directory planned paths are relative to.
	Root string

	Modules    []*Module
	Operations int
	Planned    []PlannedFile
}

// ErrNoOutDir is returned when Options.OutDir is empty.
var ErrNoOutDir = errors.New("output directory is required")

// Generate renders the SDK for doc and writes it unless opts.DryRun is set.
// With opts.Verify a file that does not parse as Python fails the run before
// anything is written.
func Generate(ctx context.Context, doc *types.OpenAPI, opts Options) (*Result, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, ErrNoOutDir
	}
	abs, err := filepath.Abs(opts.OutDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	dir := filepath.Base(abs)
	pkg := Identifier(dir)
	specName := opts.SpecName
	if specName == "" || specName == "." {
		specName = "openapi.yaml"
	}

	modules := Collect(doc)
	describe(modules, doc.Tags)

	files, err := renderFiles(dir, &packageData{
		Package:        pkg,
		Distribution:   strings.ReplaceAll(pkg, "_", "-"),
		PackageVersion: opts.PackageVersion,
		APIVersion:     opts.APIVersion,
		SpecName:       specName,
		Modules:        modules,
		Verbs:          types.Methods,
	})
	if err != nil {
		return nil, err
	}

	rels := make([]string, 0, len(files))
	for rel := range files {
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	if opts.Verify {
		var sources []string
		for _, rel := range rels {
			if strings.HasSuffix(rel, ".py") {
				sources = append(sources, rel)
			}
		}
		v := NewVerifier()
		defer v.Close()
		if err := v.CheckAll(ctx, files, sources); err != nil {
			return nil, fmt.Errorf("generated code failed verification: %w", err)
		}
	}

	result := &Result{
		Package:    pkg,
		Root:       filepath.Dir(abs),
		Modules:    modules,
		Operations: OperationCount(modules),
		Planned:    make([]PlannedFile, 0, len(rels)),
	}
	for _, rel := range rels {
		result.Planned = append(result.Planned, PlannedFile{RelPath: rel, Size: len(files[rel])})
	}

	if opts.DryRun {
		return result, nil
	}
	for _, rel := range rels {
		if err := writeFileAtomic(result.Root, rel, files[rel]); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", rel, err)
		}
	}
	return result, nil
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place.
func writeFileAtomic(baseDir, relPath string, content []byte) error {
	fullPath := filepath.Join(baseDir, filepath.FromSlash(relPath))
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-docs2sdk-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("set file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpPath, fullPath, err)
	}
	success = true
	return nil
}
