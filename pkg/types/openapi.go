// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import "strings"

// OpenAPI represents a complete OpenAPI 3.0 document.
type OpenAPI struct {
	// OpenAPI is the OpenAPI specification version (e.g., "3.0.0")
	OpenAPI string `json:"openapi" yaml:"openapi"`

	// Info provides metadata about the API
	Info Info `json:"info" yaml:"info"`

	// Servers is a list of server objects
	Servers []Server `json:"servers,omitempty" yaml:"servers,omitempty"`

	// Paths holds the available paths and operations in insertion order
	Paths *OrderedMap[*PathItem] `json:"paths" yaml:"paths"`

	// Tags is a list of tags used by the specification
	Tags []Tag `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Info provides metadata about the API.
type Info struct {
	// Title is the title of the API
	Title string `json:"title" yaml:"title"`

	// Description is a description of the API
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Version is the version of the API
	Version string `json:"version" yaml:"version"`

	// Contact provides contact information
	Contact *Contact `json:"contact,omitempty" yaml:"contact,omitempty"`

	// License provides license information
	License *License `json:"license,omitempty" yaml:"license,omitempty"`
}

// Contact provides contact information.
type Contact struct {
	// Name is the name of the contact
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// URL is the URL of the contact
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Email is the email of the contact
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// License provides license information.
type License struct {
	// Name is the name of the license
	Name string `json:"name" yaml:"name"`

	// URL is the URL of the license
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Server represents an API server.
type Server struct {
	// URL is the URL of the server, possibly templated ("https://{host}/api")
	URL string `json:"url" yaml:"url"`

	// Description is a description of the server
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Variables are server variables
	Variables map[string]ServerVariable `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// ServerVariable represents a server variable.
type ServerVariable struct {
	// Default is the default value
	Default string `json:"default" yaml:"default"`

	// Description is a description of the variable
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Enum is a list of allowed values
	Enum []string `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// PathItem represents an API path.
type PathItem struct {
	// Get is the GET operation
	Get *Operation `json:"get,omitempty" yaml:"get,omitempty"`

	// Post is the POST operation
	Post *Operation `json:"post,omitempty" yaml:"post,omitempty"`

	// Put is the PUT operation
	Put *Operation `json:"put,omitempty" yaml:"put,omitempty"`

	// Patch is the PATCH operation
	Patch *Operation `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Delete is the DELETE operation
	Delete *Operation `json:"delete,omitempty" yaml:"delete,omitempty"`

	// Head is the HEAD operation
	Head *Operation `json:"head,omitempty" yaml:"head,omitempty"`

	// Options is the OPTIONS operation
	Options *Operation `json:"options,omitempty" yaml:"options,omitempty"`

	// Trace is the TRACE operation
	Trace *Operation `json:"trace,omitempty" yaml:"trace,omitempty"`

	// Parameters are parameters shared by all operations on this path
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Methods lists the HTTP verbs a PathItem can hold, in the order
// operations are visited when generating code.
var Methods = []string{"get", "post", "put", "patch", "delete", "head", "options", "trace"}

// Operation returns the operation for a verb (case-insensitive), or nil.
func (p *PathItem) Operation(method string) *Operation {
	if p == nil {
		return nil
	}
	switch strings.ToLower(method) {
	case "get":
		return p.Get
	case "post":
		return p.Post
	case "put":
		return p.Put
	case "patch":
		return p.Patch
	case "delete":
		return p.Delete
	case "head":
		return p.Head
	case "options":
		return p.Options
	case "trace":
		return p.Trace
	}
	return nil
}

// SetOperation stores op under a verb and reports whether one was already there.
// It returns false without storing anything for an unknown verb.
func (p *PathItem) SetOperation(method string, op *Operation) (replaced bool, ok bool) {
	var slot **Operation
	switch strings.ToLower(method) {
	case "get":
		slot = &p.Get
	case "post":
		slot = &p.Post
	case "put":
		slot = &p.Put
	case "patch":
		slot = &p.Patch
	case "delete":
		slot = &p.Delete
	case "head":
		slot = &p.Head
	case "options":
		slot = &p.Options
	case "trace":
		slot = &p.Trace
	default:
		return false, false
	}
	replaced = *slot != nil
	*slot = op
	return replaced, true
}

// OperationCount returns the number of operations defined on the path.
func (p *PathItem) OperationCount() int {
	n := 0
	for _, m := range Methods {
		if p.Operation(m) != nil {
			n++
		}
	}
	return n
}

// Operation represents an API operation.
type Operation struct {
	// Summary is a brief summary
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Description is a detailed description
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// OperationID is a unique identifier
	OperationID string `json:"operationId,omitempty" yaml:"operationId,omitempty"`

	// Tags is a list of tags; the first one groups the operation in the SDK
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Responses maps status codes to responses in document order
	Responses *OrderedMap[Response] `json:"responses" yaml:"responses"`

	// Parameters is a list of parameters
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	// RequestBody is the request body
	RequestBody *RequestBody `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`

	// Deprecated indicates if the operation is deprecated
	Deprecated bool `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// Tag represents a tag object.
type Tag struct {
	// Name is the name of the tag
	Name string `json:"name" yaml:"name"`

	// Description is a description of the tag
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// OperationCount returns the number of operations across all paths.
func (o *OpenAPI) OperationCount() int {
	n := 0
	for _, item := range o.Paths.All() {
		n += item.OperationCount()
	}
	return n
}
