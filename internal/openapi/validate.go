// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/api2spec/docs2sdk/pkg/types"
)

// ValidationReport lists the structural problems found in a document.
type ValidationReport struct {
	Warnings []string
}

// OK reports whether no problems were found.
func (r *ValidationReport) OK() bool {
	return len(r.Warnings) == 0
}

// Err folds the warnings into one error, or returns nil.
func (r *ValidationReport) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Warnings))
	for i, w := range r.Warnings {
		errs[i] = errors.New(w)
	}
	return errors.Join(errs...)
}

// Validate loads doc through kin-openapi and runs its structural checks,
// then adds the checks the loader does not make: duplicate operationIds and
// operations without tags. An error is returned only when the document
// cannot be serialised or loaded at all.
func Validate(ctx context.Context, doc *types.OpenAPI) (*ValidationReport, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	loader := openapi3.NewLoader()
	kdoc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	report := &ValidationReport{}
	if err := kdoc.Validate(ctx); err != nil {
		var me openapi3.MultiError
		if errors.As(err, &me) {
			for _, e := range me {
				report.Warnings = append(report.Warnings, e.Error())
			}
		} else {
			report.Warnings = append(report.Warnings, err.Error())
		}
	}

	report.Warnings = append(report.Warnings, lint(doc)...)
	return report, nil
}

func lint(doc *types.OpenAPI) []string {
	var warnings []string
	seen := make(map[string][]string)

	for path, item := range doc.Paths.All() {
		for _, method := range types.Methods {
			op := item.Operation(method)
			if op == nil {
				continue
			}
			where := fmt.Sprintf("%s %s", method, path)
			if op.OperationID != "" {
				seen[op.OperationID] = append(seen[op.OperationID], where)
			}
			if len(op.Tags) == 0 {
				warnings = append(warnings, where+": operation has no tags")
			}
		}
	}

	ids := make([]string, 0, len(seen))
	for id, at := range seen {
		if len(at) > 1 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		warnings = append(warnings, fmt.Sprintf("operationId %q is used by %d operations", id, len(seen[id])))
	}

	return warnings
}
