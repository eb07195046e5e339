// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"strings"

	"github.com/api2spec/docs2sdk/pkg/types"
)

// MapType converts a documentation data-type label ("Number (Integer)",
// "Array<Object>", "String", ...) to an OpenAPI type name.
// The comparison is case-insensitive; unknown labels map to string.
func MapType(label string) string {
	switch strings.ToLower(label) {
	case "string":
		return types.TypeString

	case "number":
		return types.TypeNumber

	case "number (integer)", "integer", "int", "long":
		return types.TypeInteger

	case "boolean", "bool":
		return types.TypeBoolean

	case "array", "array<object>":
		return types.TypeArray

	case "object":
		return types.TypeObject

	default:
		// Unknown label - return string as default
		return types.TypeString
	}
}

// ForLabel returns a schema carrying only the mapped type of label.
func ForLabel(label string) *types.Schema {
	return &types.Schema{Type: MapType(label)}
}
