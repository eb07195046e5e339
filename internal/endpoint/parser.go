// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package endpoint turns one HTML API reference page into an endpoint record.
package endpoint

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/api2spec/docs2sdk/internal/htmldoc"
	"github.com/api2spec/docs2sdk/internal/schema"
	"github.com/api2spec/docs2sdk/internal/util"
	"github.com/api2spec/docs2sdk/pkg/types"
)

// Table caption fragments, matched case-insensitively.
const (
	CaptionParameters = "request parameter details"
	CaptionBody       = "request body details"
	CaptionResponses  = "response codes"
)

// DefaultMediaType is used when a body table names no content type.
const DefaultMediaType = "application/json"

var (
	titleRe       = regexp.MustCompile(`(?i)<h1[^>]*>\s*(GET|POST|PUT|DELETE|PATCH)\s+(/[^\s<]+)`)
	shortDescRe   = regexp.MustCompile(`(?s)<p class="shortdesc">(.*?)</p>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	placeholderRe = regexp.MustCompile(`"String <one of:[^"]*>"`)
)

// Parse extracts an endpoint from page content. It returns false when the
// page has no "METHOD /path" first-level heading.
func Parse(content string) (*types.Endpoint, bool) {
	m := titleRe.FindStringSubmatch(content)
	if m == nil {
		return nil, false
	}

	desc := ShortDescription(content)
	ep := &types.Endpoint{
		Method:      strings.ToUpper(m[1]),
		Path:        strings.TrimSpace(m[2]),
		Summary:     desc,
		Description: desc,
	}

	doc := htmldoc.Extract(content)
	paramRows, bodyRows, responseRows := classifyTables(doc)

	ep.Parameters = buildParameters(paramRows)
	ep.RequestBody = buildRequestBody(bodyRows)
	ep.Responses = buildResponses(responseRows)

	attachResponseSchema(ep, SampleSchema(doc.PreBlocks))

	return ep, true
}

// ShortDescription returns the text of the first <p class="shortdesc">,
// with tags stripped and entities unescaped.
func ShortDescription(content string) string {
	m := shortDescRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(tagRe.ReplaceAllString(m[1], "")))
}

// classifyTables picks the parameter, body and response tables by caption.
// Each table's first row is a header and is dropped. A later table with the
// same caption replaces an earlier one.
func classifyTables(doc *htmldoc.Document) (params, body, responses [][]string) {
	for _, t := range doc.Tables {
		caption := strings.ToLower(t.Caption)
		switch {
		case strings.Contains(caption, CaptionParameters):
			params = skipHeader(t.Rows)
		case strings.Contains(caption, CaptionBody):
			body = skipHeader(t.Rows)
		case strings.Contains(caption, CaptionResponses):
			responses = skipHeader(t.Rows)
		}
	}
	return params, body, responses
}

func skipHeader(rows [][]string) [][]string {
	if len(rows) == 0 {
		return nil
	}
	return rows[1:]
}

// buildParameters reads rows of name, location, optionality, data type,
// MIME type and description. Rows with fewer cells or another location are
// dropped.
func buildParameters(rows [][]string) []types.Parameter {
	var params []types.Parameter
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		location := strings.ToLower(strings.TrimSpace(row[1]))
		if location != types.InQuery && location != types.InPath && location != types.InHeader {
			continue
		}
		required := strings.ToLower(strings.TrimSpace(row[2])) == "required"
		params = append(params, types.Parameter{
			Name:        strings.TrimSpace(row[0]),
			In:          location,
			Description: strings.TrimSpace(row[5]),
			Required:    required || location == types.InPath,
			Schema:      schema.ForLabel(strings.TrimSpace(row[3])),
		})
	}
	return params
}

// buildRequestBody folds rows of name, type, MIME type and description into
// one object schema. A field is required only when its description starts
// with "required".
func buildRequestBody(rows [][]string) *types.RequestBody {
	if len(rows) == 0 {
		return nil
	}

	props := types.NewOrderedMap[*types.Schema]()
	var required []string
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		desc := strings.TrimSpace(row[3])
		props.Set(name, &types.Schema{
			Type:        schema.MapType(strings.TrimSpace(row[1])),
			Description: desc,
		})
		if IsRequiredField(desc) {
			required = append(required, name)
		}
	}

	mime := DefaultMediaType
	for _, row := range rows {
		if len(row) > 2 {
			mime = strings.TrimSpace(row[2])
			break
		}
	}

	return &types.RequestBody{
		Required: true,
		Content: map[string]types.MediaType{
			mime: {Schema: &types.Schema{
				Type:       types.TypeObject,
				Properties: props,
				Required:   required,
			}},
		},
	}
}

// IsRequiredField applies the body-field heuristic: the trimmed, lower-cased
// description must start with the word "required".
func IsRequiredField(description string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(description)), "required")
}

// buildResponses reads rows of code, MIME type and description. The
// description falls back to the second cell. Without any numeric code the
// result is a single 200 "Success" response.
func buildResponses(rows [][]string) *types.OrderedMap[types.Response] {
	responses := types.NewOrderedMap[types.Response]()
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		code := strings.TrimSpace(row[0])
		if !util.IsDigits(code) {
			continue
		}
		var desc string
		switch {
		case len(row) > 2:
			desc = strings.TrimSpace(row[2])
		case len(row) > 1:
			desc = strings.TrimSpace(row[1])
		}
		if desc == "" {
			desc = "No description"
		}
		responses.Set(code, types.Response{Description: desc})
	}

	if responses.Len() == 0 {
		responses.Set("200", types.Response{Description: "Success"})
	}
	return responses
}

// CleanSample prepares a <pre> block for JSON parsing: embedded tags are
// removed, entities unescaped, and "String <one of: ...>" placeholders
// rewritten to "String".
func CleanSample(block string) string {
	clean := placeholderRe.ReplaceAllString(block, `"String"`)
	clean = strings.TrimSpace(tagRe.ReplaceAllString(clean, ""))
	clean = html.UnescapeString(clean)
	return placeholderRe.ReplaceAllString(clean, `"String"`)
}

// SampleSchema infers a schema from the first <pre> block that parses as
// JSON. It returns the bare object schema when no block parses or the first
// parseable block is null.
func SampleSchema(blocks []string) *types.Schema {
	for _, block := range blocks {
		s, err := schema.InferString(CleanSample(block))
		if err != nil {
			continue
		}
		if s == nil {
			return types.ObjectSchema()
		}
		return s
	}
	return types.ObjectSchema()
}

// attachResponseSchema sets the JSON content of the success response: 201
// for a POST that documents one, otherwise 200 when present.
func attachResponseSchema(ep *types.Endpoint, s *types.Schema) {
	code := "200"
	if ep.Method == "POST" && ep.Responses.Has("201") {
		code = "201"
	}
	resp, ok := ep.Responses.Get(code)
	if !ok {
		return
	}
	resp.Content = map[string]types.MediaType{
		DefaultMediaType: {Schema: s},
	}
	ep.Responses.Set(code, resp)
}
