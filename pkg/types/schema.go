// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

// Schema represents the subset of an OpenAPI schema object that can be
// recovered from HTML reference pages: a scalar, an array of a schema, or
// an object with named properties. The zero value is the empty schema "{}".
type Schema struct {
	// Ref is a reference to another schema ($ref)
	Ref string `json:"$ref,omitempty" yaml:"$ref,omitempty"`

	// Type is the data type (string, number, integer, boolean, array, object)
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Format is the data format (date-time, int64, etc.)
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Description is a detailed description of the schema
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Items is the schema for array items
	Items *Schema `json:"items,omitempty" yaml:"items,omitempty"`

	// Properties maps property names to their schemas in sample order
	Properties *OrderedMap[*Schema] `json:"properties,omitempty" yaml:"properties,omitempty"`

	// Required is a list of required property names
	Required []string `json:"required,omitempty" yaml:"required,omitempty"`

	// Nullable indicates if the value can be null
	Nullable bool `json:"nullable,omitempty" yaml:"nullable,omitempty"`

	// Enum is a list of allowed values
	Enum []interface{} `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// Schema type names.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// ObjectSchema returns the bare object schema used when nothing more is known.
func ObjectSchema() *Schema {
	return &Schema{Type: TypeObject}
}

// IsEmpty reports whether the schema carries no information at all.
func (s *Schema) IsEmpty() bool {
	return s == nil || (s.Ref == "" && s.Type == "" && s.Format == "" && s.Description == "" &&
		s.Items == nil && s.Properties.Len() == 0 && len(s.Required) == 0 && !s.Nullable && len(s.Enum) == 0)
}
