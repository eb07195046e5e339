// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package openapi assembles, reads, writes, validates, compares and merges
// OpenAPI documents.
package openapi

import (
	"fmt"
	"strings"

	"github.com/api2spec/docs2sdk/internal/config"
	"github.com/api2spec/docs2sdk/internal/util"
	"github.com/api2spec/docs2sdk/pkg/types"
)

// DefaultTag groups operations whose path has no first segment.
const DefaultTag = "default"

// Builder constructs OpenAPI documents from endpoint records.
type Builder struct {
	config *config.Config
}

// NewBuilder creates a new OpenAPI builder with the given configuration.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		config: cfg,
	}
}

// Duplicate records an endpoint that replaced an earlier one with the same
// path and method.
type Duplicate struct {
	Method   string
	Path     string
	Previous string
	Current  string
}

// BuildResult is the outcome of Build.
type BuildResult struct {
	Doc *types.OpenAPI

	// Duplicates lists every overwritten operation, in input order
	Duplicates []Duplicate
}

// Build creates an OpenAPI document from endpoints in input order. Paths keep
// the position of their first endpoint; a later endpoint with the same path
// and method replaces the earlier operation.
func (b *Builder) Build(endpoints []*types.Endpoint) (*BuildResult, error) {
	result := &BuildResult{Doc: b.NewDocument()}
	sources := make(map[string]string)

	for _, ep := range endpoints {
		item, ok := result.Doc.Paths.Get(ep.Path)
		if !ok {
			item = &types.PathItem{}
			result.Doc.Paths.Set(ep.Path, item)
		}

		replaced, ok := item.SetOperation(ep.Method, OperationFor(ep))
		if !ok {
			return nil, fmt.Errorf("unsupported HTTP method: %s", ep.Method)
		}

		key := strings.ToUpper(ep.Method) + " " + ep.Path
		if replaced {
			result.Duplicates = append(result.Duplicates, Duplicate{
				Method:   strings.ToUpper(ep.Method),
				Path:     ep.Path,
				Previous: sources[key],
				Current:  ep.SourceFile,
			})
		}
		sources[key] = ep.SourceFile
	}

	return result, nil
}

// NewDocument returns an empty document carrying the configured header.
func (b *Builder) NewDocument() *types.OpenAPI {
	return &types.OpenAPI{
		OpenAPI: b.config.OpenAPI.Version,
		Info:    b.buildInfo(),
		Servers: b.buildServers(),
		Paths:   types.NewOrderedMap[*types.PathItem](),
	}
}

// buildInfo constructs the Info object from configuration.
func (b *Builder) buildInfo() types.Info {
	info := types.Info{
		Title:       b.config.OpenAPI.Info.Title,
		Description: b.config.OpenAPI.Info.Description,
		Version:     b.config.OpenAPI.Info.Version,
	}

	c := b.config.OpenAPI.Info.Contact
	if c.Name != "" || c.Email != "" || c.URL != "" {
		info.Contact = &types.Contact{
			Name:  c.Name,
			URL:   c.URL,
			Email: c.Email,
		}
	}

	return info
}

// buildServers constructs the servers list from configuration.
func (b *Builder) buildServers() []types.Server {
	servers := make([]types.Server, 0, len(b.config.OpenAPI.Servers))
	for _, s := range b.config.OpenAPI.Servers {
		server := types.Server{
			URL:         s.URL,
			Description: s.Description,
		}
		if len(s.Variables) > 0 {
			server.Variables = make(map[string]types.ServerVariable, len(s.Variables))
			for name, v := range s.Variables {
				server.Variables[name] = types.ServerVariable{
					Default:     v.Default,
					Description: v.Description,
					Enum:        v.Enum,
				}
			}
		}
		servers = append(servers, server)
	}
	return servers
}

// OperationFor converts an endpoint record to an operation.
func OperationFor(ep *types.Endpoint) *types.Operation {
	op := &types.Operation{
		Summary:     ep.Summary,
		Description: ep.Description,
		OperationID: OperationID(ep.Method, ep.Path),
		Tags:        []string{TagFor(ep.Path)},
		Responses:   ep.Responses,
		RequestBody: ep.RequestBody,
	}

	if len(ep.Parameters) > 0 {
		op.Parameters = make([]types.Parameter, len(ep.Parameters))
		copy(op.Parameters, ep.Parameters)
	}

	if op.Responses == nil || op.Responses.Len() == 0 {
		op.Responses = types.NewOrderedMap[types.Response]()
		op.Responses.Set("200", types.Response{Description: "Success"})
	}

	return op
}

// OperationID joins the lower-cased verb with every path segment, braces
// stripped and first letter upper-cased: GET /siem/offenses/{offense_id}
// becomes getSiemOffensesOffense_id.
func OperationID(method, path string) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(method))
	for _, seg := range util.PathSegments(path) {
		sb.WriteString(util.UpperFirst(util.StripBraces(seg)))
	}
	return sb.String()
}

// TagFor returns the first path segment, or DefaultTag for the root path.
func TagFor(path string) string {
	segs := util.PathSegments(path)
	if len(segs) == 0 || segs[0] == "" {
		return DefaultTag
	}
	return segs[0]
}

// Stats counts paths and operations.
func Stats(doc *types.OpenAPI) (paths, operations int) {
	return doc.Paths.Len(), doc.OperationCount()
}
