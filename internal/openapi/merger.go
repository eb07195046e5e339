// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"github.com/api2spec/docs2sdk/pkg/types"
)

// MergeStrategy defines how to handle an operation present in both documents.
type MergeStrategy string

const (
	// MergeStrategyKeepExisting keeps the existing operation.
	MergeStrategyKeepExisting MergeStrategy = "keep-existing"

	// MergeStrategyOverwrite replaces it with the regenerated one.
	MergeStrategyOverwrite MergeStrategy = "overwrite"
)

// MergeOptions configures the merge behavior.
type MergeOptions struct {
	// Strategy decides conflicts between operations.
	Strategy MergeStrategy

	// PreservePaths keeps operations of the existing document that were
	// not regenerated, e.g. hand-written additions or pages since removed.
	PreservePaths bool

	// PreserveInfo preserves info from the existing document.
	PreserveInfo bool

	// PreserveServers preserves servers from the existing document.
	PreserveServers bool

	// PreserveTags preserves tags from the existing document.
	PreserveTags bool
}

// DefaultMergeOptions returns the default merge options.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		Strategy:        MergeStrategyOverwrite,
		PreservePaths:   false,
		PreserveInfo:    true,
		PreserveServers: true,
		PreserveTags:    true,
	}
}

// Merger handles merging OpenAPI documents.
type Merger struct {
	options MergeOptions
}

// NewMerger creates a new Merger with the given options.
func NewMerger(options MergeOptions) *Merger {
	return &Merger{
		options: options,
	}
}

// Merge combines an existing OpenAPI document with a regenerated one and
// returns the regenerated document, modified in place. Regenerated paths
// keep their order; preserved paths follow in their existing order.
func (m *Merger) Merge(existing, generated *types.OpenAPI) (*types.OpenAPI, error) {
	if existing == nil {
		return generated, nil
	}

	result := generated

	if m.options.PreserveInfo && existing.Info.Title != "" {
		result.Info = existing.Info
	}

	if m.options.PreserveServers && len(existing.Servers) > 0 {
		result.Servers = existing.Servers
	}

	if m.options.PreserveTags && len(existing.Tags) > 0 {
		result.Tags = existing.Tags
	}

	if result.Paths == nil {
		result.Paths = types.NewOrderedMap[*types.PathItem]()
	}

	for path, oldItem := range existing.Paths.All() {
		newItem, ok := result.Paths.Get(path)
		if !ok {
			if m.options.PreservePaths {
				result.Paths.Set(path, oldItem)
			}
			continue
		}
		for _, method := range types.Methods {
			oldOp := oldItem.Operation(method)
			if oldOp == nil {
				continue
			}
			newOp := newItem.Operation(method)
			switch {
			case newOp == nil && m.options.PreservePaths:
				newItem.SetOperation(method, oldOp)
			case newOp != nil && m.options.Strategy == MergeStrategyKeepExisting:
				newItem.SetOperation(method, oldOp)
			}
		}
	}

	return result, nil
}
