// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package sdkgen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/api2spec/docs2sdk/internal/openapi"
	"github.com/api2spec/docs2sdk/pkg/types"
)

// Module is one generated tag module.
type Module struct {
	Tag        string
	ModuleName string
	ClassName  string
	AttrName   string
	Methods    []*Method

	// Description feeds the README tag table.
	Description string
}

// FileName is the module's file name inside the api package.
func (m *Module) FileName() string {
	return m.ModuleName + ".py"
}

// Binding ties an OpenAPI parameter to the Python argument carrying it.
type Binding struct {
	// Name is the parameter name as documented
	Name string

	// Arg is the unique Python identifier
	Arg string

	// In is the parameter location
	In string
}

// Method is one generated method.
type Method struct {
	Name    string
	Verb    string
	Path    string
	Summary string

	Positional []Binding
	Keywords   []Binding
	HasBody    bool

	// Query and Headers end up in the params and headers dicts.
	Query   []Binding
	Headers []Binding

	// Forwarded session keywords; empty when absent.
	RangeArg  string
	FieldsArg string
	FilterArg string
	SortArg   string
}

// Collect groups the operations of doc by their first tag. Operations are
// visited in path order, then verb order; modules come back sorted by tag.
func Collect(doc *types.OpenAPI) []*Module {
	byTag := make(map[string][]*Method)
	var tags []string

	for path, item := range doc.Paths.All() {
		for _, verb := range types.Methods {
			op := item.Operation(verb)
			if op == nil {
				continue
			}
			tag := openapi.DefaultTag
			if len(op.Tags) > 0 {
				tag = op.Tags[0]
			}
			if _, ok := byTag[tag]; !ok {
				tags = append(tags, tag)
			}
			params := make([]types.Parameter, 0, len(item.Parameters)+len(op.Parameters))
			params = append(params, item.Parameters...)
			params = append(params, op.Parameters...)
			byTag[tag] = append(byTag[tag], newMethod(verb, path, op, params))
		}
	}
	sort.Strings(tags)

	modNames := newUniquer()
	classNames := newUniquer()
	attrNames := newUniquer()
	modules := make([]*Module, 0, len(tags))
	for _, tag := range tags {
		methods := byTag[tag]
		names := newUniquer()
		for _, m := range methods {
			m.Name = names.take(Identifier(m.Name))
		}
		modules = append(modules, &Module{
			Tag:        tag,
			ModuleName: modNames.take(Identifier(ModuleName(tag))),
			ClassName:  classNames.take(Identifier(ClassName(tag))),
			AttrName:   attrNames.take(Identifier(AttrName(tag))),
			Methods:    methods,
		})
	}
	return modules
}

// OperationCount sums the methods over modules.
func OperationCount(modules []*Module) int {
	n := 0
	for _, m := range modules {
		n += len(m.Methods)
	}
	return n
}

func newMethod(verb, path string, op *types.Operation, params []types.Parameter) *Method {
	m := &Method{
		Name:    MethodName(verb, path),
		Verb:    verb,
		Path:    path,
		Summary: strings.TrimSpace(op.Summary),
		HasBody: op.RequestBody != nil,
	}

	reserved := []string{"self", "url", "params", "headers", "kwargs"}
	if m.HasBody {
		reserved = append(reserved, "body")
	}
	args := newUniquer(reserved...)

	for _, p := range params {
		if p.In == types.InPath {
			m.Positional = append(m.Positional, Binding{Name: p.Name, Arg: args.take(Identifier(ToSnake(p.Name))), In: p.In})
		}
	}

	for _, p := range params {
		if p.In != types.InQuery && p.In != types.InHeader {
			continue
		}
		snake := ToSnake(p.Name)
		arg := snake
		if arg == "range" {
			arg = "range_header"
		}
		b := Binding{Name: p.Name, Arg: args.take(Identifier(arg)), In: p.In}
		m.Keywords = append(m.Keywords, b)

		switch {
		case p.In == types.InHeader && snake == "range" && m.RangeArg == "":
			m.RangeArg = b.Arg
		case p.In == types.InHeader:
			m.Headers = append(m.Headers, b)
		case snake == "fields" && m.FieldsArg == "":
			m.FieldsArg = b.Arg
		case snake == "filter" && m.FilterArg == "":
			m.FilterArg = b.Arg
		case snake == "sort" && m.SortArg == "":
			m.SortArg = b.Arg
		default:
			m.Query = append(m.Query, b)
		}
	}

	return m
}

// Signature renders the parameter list: self, path parameters, the body,
// optional keywords and the catch-all.
func (m *Method) Signature() string {
	parts := []string{"self"}
	for _, b := range m.Positional {
		parts = append(parts, b.Arg)
	}
	if m.HasBody {
		parts = append(parts, "body: Optional[Any] = None")
	}
	for _, b := range m.Keywords {
		parts = append(parts, b.Arg+": Optional[Any] = None")
	}
	parts = append(parts, "**kwargs: Any")
	return strings.Join(parts, ", ")
}

// Docstring is the summary, or a synthesized "Call VERB PATH".
func (m *Method) Docstring() string {
	if m.Summary == "" {
		return escapeDocstring(fmt.Sprintf("Call %s %s", strings.ToUpper(m.Verb), m.Path))
	}
	return escapeDocstring(m.Summary)
}

// URL renders the url assignment's right-hand side. Path placeholders are
// renamed to their bindings and turn the literal into an f-string.
func (m *Method) URL() string {
	if len(m.Positional) == 0 {
		return `"` + m.Path + `"`
	}
	url := m.Path
	for _, b := range m.Positional {
		url = strings.ReplaceAll(url, "{"+b.Name+"}", "{"+b.Arg+"}")
	}
	return `f"` + url + `"`
}

// ParamsDict renders the query dict literal, or "" when there is none.
func (m *Method) ParamsDict() string {
	return dictLiteral(m.Query)
}

// HeadersDict renders the header dict literal, or "" when there is none.
func (m *Method) HeadersDict() string {
	return dictLiteral(m.Headers)
}

// CallArgs renders the arguments of the session call.
func (m *Method) CallArgs() string {
	args := []string{"url"}
	if len(m.Query) > 0 {
		args = append(args, "params=params")
	}
	if len(m.Headers) > 0 {
		args = append(args, "headers=headers")
	}
	if m.RangeArg != "" {
		args = append(args, "range_header="+m.RangeArg)
	}
	if m.FieldsArg != "" {
		args = append(args, "fields="+m.FieldsArg)
	}
	if m.FilterArg != "" {
		args = append(args, "filter_expr="+m.FilterArg)
	}
	if m.SortArg != "" {
		args = append(args, "sort="+m.SortArg)
	}
	if m.HasBody {
		args = append(args, "json_body=body")
	}
	args = append(args, "**kwargs")
	return strings.Join(args, ", ")
}

func dictLiteral(bindings []Binding) string {
	if len(bindings) == 0 {
		return ""
	}
	entries := make([]string, len(bindings))
	for i, b := range bindings {
		entries[i] = strconv.Quote(b.Name) + ": " + b.Arg
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

func escapeDocstring(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
