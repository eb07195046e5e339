// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package types provides the OpenAPI document model and the per-page
// endpoint record that the HTML scraper produces.
package types

// Parameter locations accepted from reference pages.
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
)

// Endpoint is one documented HTTP operation extracted from a single HTML page.
// It is built once per page and folded into an OpenAPI document.
type Endpoint struct {
	// Method is the upper-case HTTP method (GET, POST, PUT, DELETE, PATCH)
	Method string `json:"method" yaml:"method"`

	// Path is the URL path template (e.g., "/siem/offenses/{offense_id}")
	Path string `json:"path" yaml:"path"`

	// Summary is the page's short description
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Description is the page's short description
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Parameters are the path, query and header parameters in table order
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	// RequestBody is the flattened request body, if the page documents one
	RequestBody *RequestBody `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`

	// Responses maps status codes to responses in table order; never empty
	Responses *OrderedMap[Response] `json:"responses" yaml:"responses"`

	// SourceFile is the page the endpoint was read from
	SourceFile string `json:"sourceFile,omitempty" yaml:"sourceFile,omitempty"`
}

// Parameter represents an OpenAPI parameter.
type Parameter struct {
	// Name is the parameter name
	Name string `json:"name" yaml:"name"`

	// In is the location of the parameter (path, query, header)
	In string `json:"in" yaml:"in"`

	// Description is a brief description of the parameter
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Required indicates if the parameter is required; always true for path parameters
	Required bool `json:"required" yaml:"required"`

	// Schema defines the type of the parameter
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// RequestBody represents an OpenAPI request body.
type RequestBody struct {
	// Description is a brief description of the request body
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Required indicates if the request body is required
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Content maps media types to their schemas
	Content map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// Response represents an OpenAPI response.
type Response struct {
	// Description is a brief description of the response
	Description string `json:"description" yaml:"description"`

	// Content maps media types to their schemas
	Content map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// MediaType represents an OpenAPI media type.
type MediaType struct {
	// Schema defines the structure of the content
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// FirstSchema returns the schema of the first media type in lexical order,
// or nil when the content map is empty.
func FirstSchema(content map[string]MediaType) *Schema {
	first := ""
	for mime := range content {
		if first == "" || mime < first {
			first = mime
		}
	}
	if first == "" {
		return nil
	}
	return content[first].Schema
}
