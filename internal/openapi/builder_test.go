// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/docs2sdk/internal/config"
	"github.com/api2spec/docs2sdk/pkg/types"
)

func responses(codes ...string) *types.OrderedMap[types.Response] {
	m := types.NewOrderedMap[types.Response]()
	for _, c := range codes {
		m.Set(c, types.Response{Description: "r" + c})
	}
	return m
}

func endpoint(method, path, source string) *types.Endpoint {
	return &types.Endpoint{
		Method:      method,
		Path:        path,
		Summary:     method + " " + path,
		Description: method + " " + path,
		Responses:   responses("200"),
		SourceFile:  source,
	}
}

func TestNewBuilder(t *testing.T) {
	cfg := config.Default()
	builder := NewBuilder(cfg)

	assert.NotNil(t, builder)
	assert.Equal(t, cfg, builder.config)
}

func TestBuilder_Build_Empty(t *testing.T) {
	result, err := NewBuilder(config.Default()).Build(nil)
	require.NoError(t, err)

	doc := result.Doc
	assert.Equal(t, "3.0.0", doc.OpenAPI)
	assert.Equal(t, "IBM QRadar REST API", doc.Info.Title)
	assert.Equal(t, "26.0", doc.Info.Version)
	require.NotNil(t, doc.Info.Contact)
	assert.Equal(t, "https://www.ibm.com/docs/en/qradar-common", doc.Info.Contact.URL)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "https://{host}/api", doc.Servers[0].URL)
	assert.Equal(t, "QRadar console hostname", doc.Servers[0].Variables["host"].Description)
	assert.Equal(t, 0, doc.Paths.Len())
	assert.Empty(t, result.Duplicates)
}

func TestBuilder_Build_PathOrderAndOperations(t *testing.T) {
	eps := []*types.Endpoint{
		endpoint("GET", "/siem/offenses", "a.html"),
		endpoint("GET", "/ariel/searches", "b.html"),
		endpoint("POST", "/siem/offenses", "c.html"),
	}

	result, err := NewBuilder(config.Default()).Build(eps)
	require.NoError(t, err)
	doc := result.Doc

	assert.Equal(t, []string{"/siem/offenses", "/ariel/searches"}, doc.Paths.Keys())
	paths, ops := Stats(doc)
	assert.Equal(t, 2, paths)
	assert.Equal(t, 3, ops)

	item, _ := doc.Paths.Get("/siem/offenses")
	require.NotNil(t, item.Get)
	require.NotNil(t, item.Post)
	assert.Equal(t, "getSiemOffenses", item.Get.OperationID)
	assert.Equal(t, "postSiemOffenses", item.Post.OperationID)
	assert.Equal(t, []string{"siem"}, item.Get.Tags)
}

func TestBuilder_Build_DuplicateLastWins(t *testing.T) {
	first := endpoint("GET", "/help/versions", "26.0--help-versions-GET.html")
	first.Summary = "first"
	second := endpoint("GET", "/help/versions", "26.0--help-versions-GET-copy.html")
	second.Summary = "second"

	result, err := NewBuilder(config.Default()).Build([]*types.Endpoint{first, second})
	require.NoError(t, err)

	item, _ := result.Doc.Paths.Get("/help/versions")
	assert.Equal(t, "second", item.Get.Summary)
	assert.Equal(t, 1, result.Doc.OperationCount())

	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, Duplicate{
		Method:   "GET",
		Path:     "/help/versions",
		Previous: "26.0--help-versions-GET.html",
		Current:  "26.0--help-versions-GET-copy.html",
	}, result.Duplicates[0])
}

func TestBuilder_Build_UnsupportedMethod(t *testing.T) {
	_, err := NewBuilder(config.Default()).Build([]*types.Endpoint{endpoint("CONNECT", "/x", "x.html")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported HTTP method")
}

func TestBuilder_Build_ServersFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.OpenAPI.Servers = []config.ServerConfig{{URL: "https://console.example.com/api", Description: "lab"}}
	cfg.OpenAPI.Info.Contact = config.ContactConfig{}

	result, err := NewBuilder(cfg).Build(nil)
	require.NoError(t, err)

	assert.Nil(t, result.Doc.Info.Contact)
	require.Len(t, result.Doc.Servers, 1)
	assert.Equal(t, "lab", result.Doc.Servers[0].Description)
	assert.Nil(t, result.Doc.Servers[0].Variables)
}

func TestOperationFor(t *testing.T) {
	ep := endpoint("PUT", "/config/domain_management/domains/{domain_id}", "d.html")
	ep.Parameters = []types.Parameter{{Name: "domain_id", In: types.InPath, Required: true, Schema: &types.Schema{Type: types.TypeInteger}}}
	ep.RequestBody = &types.RequestBody{Required: true}

	op := OperationFor(ep)

	assert.Equal(t, "putConfigDomain_managementDomainsDomain_id", op.OperationID)
	assert.Equal(t, []string{"config"}, op.Tags)
	assert.Equal(t, ep.Parameters, op.Parameters)
	assert.Same(t, ep.RequestBody, op.RequestBody)
	assert.Equal(t, []string{"200"}, op.Responses.Keys())
}

func TestOperationFor_NoResponses(t *testing.T) {
	ep := &types.Endpoint{Method: "DELETE", Path: "/x/{id}"}

	op := OperationFor(ep)

	r, ok := op.Responses.Get("200")
	require.True(t, ok)
	assert.Equal(t, "Success", r.Description)
	assert.Nil(t, op.Parameters)
}

func TestOperationID(t *testing.T) {
	tests := []struct {
		method, path, want string
	}{
		{"GET", "/siem/offenses/{offense_id}", "getSiemOffensesOffense_id"},
		{"POST", "/ariel/searches", "postArielSearches"},
		{"delete", "/reference_data/sets/{name}/{value}", "deleteReference_dataSetsNameValue"},
		{"GET", "/", "get"},
		{"GET", "/help//versions", "getHelpVersions"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, OperationID(tt.method, tt.path))
		})
	}
}

func TestTagFor(t *testing.T) {
	assert.Equal(t, "siem", TagFor("/siem/offenses"))
	assert.Equal(t, "help", TagFor("help"))
	assert.Equal(t, DefaultTag, TagFor("/"))
	assert.Equal(t, DefaultTag, TagFor(""))
}
