// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/api2spec/docs2sdk/pkg/types"
)

// DiffType represents the type of change detected.
type DiffType string

const (
	// DiffTypeAdded indicates a new item was added.
	DiffTypeAdded DiffType = "added"

	// DiffTypeRemoved indicates an item was removed.
	DiffTypeRemoved DiffType = "removed"

	// DiffTypeModified indicates an item was modified.
	DiffTypeModified DiffType = "modified"
)

// PathChange represents a change to an operation.
type PathChange struct {
	Type        DiffType
	Path        string
	Method      string
	Description string

	// Details names what changed on a modified operation
	Details []string
}

// SchemaChange represents a change to a response or request body schema.
type SchemaChange struct {
	Type DiffType

	// Name locates the schema, e.g. "GET /siem/offenses 200"
	Name        string
	Description string
}

// DiffResult contains the differences between two OpenAPI documents.
type DiffResult struct {
	// PathChanges contains all path/operation changes.
	PathChanges []PathChange

	// SchemaChanges contains all schema changes.
	SchemaChanges []SchemaChange

	// HasBreakingChanges indicates if any breaking changes were detected.
	HasBreakingChanges bool

	// Summary provides a human-readable summary of changes.
	Summary string
}

// IsEmpty returns true if there are no differences.
func (d *DiffResult) IsEmpty() bool {
	return len(d.PathChanges) == 0 && len(d.SchemaChanges) == 0
}

// Differ compares two OpenAPI documents.
type Differ struct{}

// NewDiffer creates a new Differ.
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff compares two OpenAPI documents and returns the differences.
// Changes are reported in the path order of a, then the new paths of b.
func (d *Differ) Diff(a, b *types.OpenAPI) (*DiffResult, error) {
	result := &DiffResult{
		PathChanges:   []PathChange{},
		SchemaChanges: []SchemaChange{},
	}

	d.diffPaths(paths(a), paths(b), result)

	result.HasBreakingChanges = d.detectBreakingChanges(result)
	result.Summary = d.generateSummary(result)

	return result, nil
}

func paths(doc *types.OpenAPI) *types.OrderedMap[*types.PathItem] {
	if doc == nil || doc.Paths == nil {
		return types.NewOrderedMap[*types.PathItem]()
	}
	return doc.Paths
}

// diffPaths compares the paths between two documents.
func (d *Differ) diffPaths(aPaths, bPaths *types.OrderedMap[*types.PathItem], result *DiffResult) {
	for path, aItem := range aPaths.All() {
		bItem, exists := bPaths.Get(path)
		if !exists {
			bItem = &types.PathItem{}
		}
		d.diffPathItem(path, aItem, bItem, result)
	}

	for path, bItem := range bPaths.All() {
		if !aPaths.Has(path) {
			d.diffPathItem(path, &types.PathItem{}, bItem, result)
		}
	}
}

// diffPathItem compares operations within a path item.
func (d *Differ) diffPathItem(path string, a, b *types.PathItem, result *DiffResult) {
	for _, method := range types.Methods {
		name := strings.ToUpper(method)
		aOp, bOp := a.Operation(method), b.Operation(method)

		switch {
		case aOp == nil && bOp != nil:
			result.PathChanges = append(result.PathChanges, PathChange{
				Type:        DiffTypeAdded,
				Path:        path,
				Method:      name,
				Description: fmt.Sprintf("Added %s %s", name, path),
			})
		case aOp != nil && bOp == nil:
			result.PathChanges = append(result.PathChanges, PathChange{
				Type:        DiffTypeRemoved,
				Path:        path,
				Method:      name,
				Description: fmt.Sprintf("Removed %s %s", name, path),
			})
		case aOp != nil && bOp != nil:
			if details := d.operationChanges(aOp, bOp); len(details) > 0 {
				result.PathChanges = append(result.PathChanges, PathChange{
					Type:        DiffTypeModified,
					Path:        path,
					Method:      name,
					Description: fmt.Sprintf("Modified %s %s", name, path),
					Details:     details,
				})
			}
			d.diffSchemas(name+" "+path, aOp, bOp, result)
		}
	}
}

// operationChanges lists what differs between two versions of an operation.
func (d *Differ) operationChanges(a, b *types.Operation) []string {
	var details []string

	if a.Summary != b.Summary {
		details = append(details, "summary")
	}
	if a.Description != b.Description {
		details = append(details, "description")
	}
	if a.OperationID != b.OperationID {
		details = append(details, fmt.Sprintf("operationId %s -> %s", a.OperationID, b.OperationID))
	}
	if a.Deprecated != b.Deprecated {
		details = append(details, "deprecated")
	}
	if !slices.Equal(a.Tags, b.Tags) {
		details = append(details, fmt.Sprintf("tags %v -> %v", a.Tags, b.Tags))
	}

	aParams, bParams := paramIndex(a.Parameters), paramIndex(b.Parameters)
	for _, p := range a.Parameters {
		key := p.In + ":" + p.Name
		q, ok := bParams[key]
		switch {
		case !ok:
			details = append(details, "removed parameter "+key)
		case p.Required != q.Required:
			details = append(details, fmt.Sprintf("parameter %s required %t -> %t", key, p.Required, q.Required))
		case schemaType(p.Schema) != schemaType(q.Schema):
			details = append(details, fmt.Sprintf("parameter %s type %s -> %s", key, schemaType(p.Schema), schemaType(q.Schema)))
		}
	}
	for _, p := range b.Parameters {
		key := p.In + ":" + p.Name
		if _, ok := aParams[key]; !ok {
			details = append(details, "added parameter "+key)
		}
	}

	for code := range a.Responses.All() {
		if !b.Responses.Has(code) {
			details = append(details, "removed response "+code)
		}
	}
	for code := range b.Responses.All() {
		if !a.Responses.Has(code) {
			details = append(details, "added response "+code)
		}
	}

	switch {
	case a.RequestBody == nil && b.RequestBody != nil:
		details = append(details, "added request body")
	case a.RequestBody != nil && b.RequestBody == nil:
		details = append(details, "removed request body")
	}

	return details
}

func paramIndex(params []types.Parameter) map[string]types.Parameter {
	out := make(map[string]types.Parameter, len(params))
	for _, p := range params {
		out[p.In+":"+p.Name] = p
	}
	return out
}

func schemaType(s *types.Schema) string {
	if s == nil {
		return ""
	}
	return s.Type
}

// diffSchemas compares the request body and shared response schemas.
func (d *Differ) diffSchemas(where string, a, b *types.Operation, result *DiffResult) {
	if a.RequestBody != nil && b.RequestBody != nil {
		d.compareSchema(where+" body", types.FirstSchema(a.RequestBody.Content), types.FirstSchema(b.RequestBody.Content), result)
	}
	for code, aResp := range a.Responses.All() {
		bResp, ok := b.Responses.Get(code)
		if !ok {
			continue
		}
		d.compareSchema(where+" "+code, types.FirstSchema(aResp.Content), types.FirstSchema(bResp.Content), result)
	}
}

func (d *Differ) compareSchema(name string, a, b *types.Schema, result *DiffResult) {
	switch {
	case a == nil && b == nil:
		return
	case a == nil:
		result.SchemaChanges = append(result.SchemaChanges, SchemaChange{
			Type:        DiffTypeAdded,
			Name:        name,
			Description: fmt.Sprintf("Added schema: %s", name),
		})
	case b == nil:
		result.SchemaChanges = append(result.SchemaChanges, SchemaChange{
			Type:        DiffTypeRemoved,
			Name:        name,
			Description: fmt.Sprintf("Removed schema: %s", name),
		})
	case d.schemaModified(a, b):
		result.SchemaChanges = append(result.SchemaChanges, SchemaChange{
			Type:        DiffTypeModified,
			Name:        name,
			Description: fmt.Sprintf("Modified schema: %s", name),
		})
	}
}

// schemaModified checks if a schema was modified, descending into items
// and properties.
func (d *Differ) schemaModified(a, b *types.Schema) bool {
	if a == nil || b == nil {
		return a != b
	}

	if a.Type != b.Type ||
		a.Format != b.Format ||
		a.Description != b.Description ||
		a.Nullable != b.Nullable ||
		a.Ref != b.Ref {
		return true
	}

	if !slices.Equal(a.Required, b.Required) {
		return true
	}

	if d.schemaModified(a.Items, b.Items) {
		return true
	}

	if !slices.Equal(a.Properties.Keys(), b.Properties.Keys()) {
		return true
	}
	for name, ap := range a.Properties.All() {
		bp, _ := b.Properties.Get(name)
		if d.schemaModified(ap, bp) {
			return true
		}
	}

	return false
}

// detectBreakingChanges checks if any changes are breaking: removed
// operations, removed parameters or responses, and removed schemas.
func (d *Differ) detectBreakingChanges(result *DiffResult) bool {
	for _, change := range result.PathChanges {
		if change.Type == DiffTypeRemoved {
			return true
		}
		for _, detail := range change.Details {
			if strings.HasPrefix(detail, "removed ") {
				return true
			}
		}
	}

	for _, change := range result.SchemaChanges {
		if change.Type == DiffTypeRemoved {
			return true
		}
	}

	return false
}

// generateSummary creates a human-readable summary of changes.
func (d *Differ) generateSummary(result *DiffResult) string {
	if result.IsEmpty() {
		return "No changes detected"
	}

	var sb strings.Builder

	pathAdded, pathRemoved, pathModified := 0, 0, 0
	for _, c := range result.PathChanges {
		switch c.Type {
		case DiffTypeAdded:
			pathAdded++
		case DiffTypeRemoved:
			pathRemoved++
		case DiffTypeModified:
			pathModified++
		}
	}

	schemaAdded, schemaRemoved, schemaModified := 0, 0, 0
	for _, c := range result.SchemaChanges {
		switch c.Type {
		case DiffTypeAdded:
			schemaAdded++
		case DiffTypeRemoved:
			schemaRemoved++
		case DiffTypeModified:
			schemaModified++
		}
	}

	var parts []string

	if pathAdded > 0 {
		parts = append(parts, fmt.Sprintf("%d operation(s) added", pathAdded))
	}
	if pathRemoved > 0 {
		parts = append(parts, fmt.Sprintf("%d operation(s) removed", pathRemoved))
	}
	if pathModified > 0 {
		parts = append(parts, fmt.Sprintf("%d operation(s) modified", pathModified))
	}
	if schemaAdded > 0 {
		parts = append(parts, fmt.Sprintf("%d schema(s) added", schemaAdded))
	}
	if schemaRemoved > 0 {
		parts = append(parts, fmt.Sprintf("%d schema(s) removed", schemaRemoved))
	}
	if schemaModified > 0 {
		parts = append(parts, fmt.Sprintf("%d schema(s) modified", schemaModified))
	}

	sb.WriteString(strings.Join(parts, ", "))

	if result.HasBreakingChanges {
		sb.WriteString(" [BREAKING CHANGES DETECTED]")
	}

	return sb.String()
}

func symbolFor(t DiffType) string {
	switch t {
	case DiffTypeAdded:
		return "+ "
	case DiffTypeRemoved:
		return "- "
	case DiffTypeModified:
		return "~ "
	}
	return "  "
}

// FormatDiff returns a formatted string representation of the diff.
func FormatDiff(result *DiffResult) string {
	if result.IsEmpty() {
		return "No differences found."
	}

	var sb strings.Builder

	sb.WriteString("=== OpenAPI Diff ===\n\n")
	sb.WriteString(result.Summary)
	sb.WriteString("\n\n")

	if len(result.PathChanges) > 0 {
		sb.WriteString("--- Operation Changes ---\n")

		// Sort changes for deterministic output
		changes := make([]PathChange, len(result.PathChanges))
		copy(changes, result.PathChanges)
		sort.SliceStable(changes, func(i, j int) bool {
			if changes[i].Path != changes[j].Path {
				return changes[i].Path < changes[j].Path
			}
			return changes[i].Method < changes[j].Method
		})

		for _, c := range changes {
			sb.WriteString(fmt.Sprintf("%s%s %s\n", symbolFor(c.Type), c.Method, c.Path))
			for _, detail := range c.Details {
				sb.WriteString("    ")
				sb.WriteString(detail)
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}

	if len(result.SchemaChanges) > 0 {
		sb.WriteString("--- Schema Changes ---\n")

		changes := make([]SchemaChange, len(result.SchemaChanges))
		copy(changes, result.SchemaChanges)
		sort.SliceStable(changes, func(i, j int) bool {
			return changes[i].Name < changes[j].Name
		})

		for _, c := range changes {
			sb.WriteString(fmt.Sprintf("%s%s\n", symbolFor(c.Type), c.Name))
		}
	}

	return sb.String()
}
