// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package pipeline wires the stages together: documentation pages to an
// OpenAPI document, and an OpenAPI document to the Python SDK.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/api2spec/docs2sdk/internal/config"
	"github.com/api2spec/docs2sdk/internal/endpoint"
	"github.com/api2spec/docs2sdk/internal/openapi"
	"github.com/api2spec/docs2sdk/internal/scanner"
	"github.com/api2spec/docs2sdk/internal/sdkgen"
	"github.com/api2spec/docs2sdk/pkg/types"
)

// ErrStrict is returned when validation warnings are fatal.
var ErrStrict = errors.New("document failed validation")

// SpecResult is a built document plus what happened on the way.
type SpecResult struct {
	Doc *types.OpenAPI

	// Files is the number of pages found.
	Files int

	// Skipped lists the base names of pages without a method heading.
	Skipped []string

	Duplicates []openapi.Duplicate

	// Merged is set when an existing document was merged in.
	Merged bool

	Warnings   []string
	Paths      int
	Operations int
}

// BuildSpec scans cfg.Source, parses every page and folds the endpoints
// into one document. Pages without a heading are skipped, not fatal.
func BuildSpec(ctx context.Context, cfg *config.Config) (*SpecResult, error) {
	files, err := scanner.New(cfg.ScannerConfig()).Scan()
	if err != nil {
		return nil, err
	}

	result := &SpecResult{Files: len(files)}
	endpoints := make([]*types.Endpoint, 0, len(files))
	for _, f := range files {
		ep, ok := endpoint.Parse(string(f.Content))
		if !ok {
			result.Skipped = append(result.Skipped, f.Name())
			continue
		}
		ep.SourceFile = f.Path
		endpoints = append(endpoints, ep)
	}

	built, err := openapi.NewBuilder(cfg).Build(endpoints)
	if err != nil {
		return nil, err
	}
	result.Doc = built.Doc
	result.Duplicates = built.Duplicates

	if cfg.OpenAPI.Merge {
		existing, err := openapi.ReadFile(cfg.OpenAPI.Output)
		switch {
		case errors.Is(err, openapi.ErrSpecNotFound):
			// first run, nothing to merge with
		case err != nil:
			return nil, fmt.Errorf("failed to read existing document: %w", err)
		default:
			opts := openapi.DefaultMergeOptions()
			opts.PreservePaths = cfg.OpenAPI.KeepRemoved
			if result.Doc, err = openapi.NewMerger(opts).Merge(existing, result.Doc); err != nil {
				return nil, fmt.Errorf("failed to merge: %w", err)
			}
			result.Merged = true
		}
	}

	if cfg.OpenAPI.Validate {
		report, err := openapi.Validate(ctx, result.Doc)
		if err != nil {
			return nil, err
		}
		result.Warnings = report.Warnings
		if cfg.OpenAPI.Strict && !report.OK() {
			return result, fmt.Errorf("%w: %w", ErrStrict, report.Err())
		}
	}

	result.Paths, result.Operations = openapi.Stats(result.Doc)
	return result, nil
}

// WriteSpec writes doc to cfg.OpenAPI.Output.
func WriteSpec(cfg *config.Config, doc *types.OpenAPI) error {
	return openapi.NewWriter().WriteFile(doc, cfg.OpenAPI.Output, cfg.OpenAPI.Format)
}

// LoadSpec reads the document the SDK is generated from.
func LoadSpec(path string) (*types.OpenAPI, error) {
	return openapi.ReadFile(path)
}

// GenerateSDK renders the SDK for doc into cfg.SDK.Output.
func GenerateSDK(ctx context.Context, cfg *config.Config, doc *types.OpenAPI, dryRun bool) (*sdkgen.Result, error) {
	return sdkgen.Generate(ctx, doc, sdkgen.Options{
		OutDir:         cfg.SDK.Output,
		SpecName:       filepath.Base(cfg.SDK.Spec),
		PackageVersion: cfg.SDK.PackageVersion,
		APIVersion:     cfg.SDK.APIVersion,
		DryRun:         dryRun,
		Verify:         cfg.SDK.Verify,
	})
}
