// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package sdkgen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/api2spec/docs2sdk/internal/util"
)

var (
	acronymRe   = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	camelRe     = regexp.MustCompile(`([a-z\d])([A-Z])`)
	underscores = regexp.MustCompile(`_+`)
	wordSplitRe = regexp.MustCompile(`[_\-\s]+`)
	nonIdentRe  = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// pythonKeywords is keyword.kwlist minus the capitalised constants, which a
// lower-cased name can never equal.
var pythonKeywords = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

// reservedModules shadow builtins or common stdlib modules.
var reservedModules = map[string]bool{
	"auth": true, "help": true, "type": true, "input": true, "filter": true,
	"id": true, "list": true, "set": true, "map": true, "hash": true,
	"format": true, "open": true, "import": true,
}

// ToSnake converts camelCase and mixed strings to snake_case. Keywords get a
// trailing underscore; builtins are left alone.
func ToSnake(name string) string {
	s := acronymRe.ReplaceAllString(name, "${1}_${2}")
	s = camelRe.ReplaceAllString(s, "${1}_${2}")
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	s = strings.Trim(strings.ToLower(underscores.ReplaceAllString(s, "_")), "_")
	if pythonKeywords[s] {
		s += "_"
	}
	return s
}

// ModuleName turns a tag into a module name.
func ModuleName(tag string) string {
	name := ToSnake(tag)
	if reservedModules[name] {
		name += "_api"
	}
	return name
}

// ClassName turns a tag into a PascalCase class name ending in "API".
func ClassName(tag string) string {
	var b strings.Builder
	for _, word := range wordSplitRe.Split(tag, -1) {
		b.WriteString(util.Capitalize(word))
	}
	b.WriteString("API")
	return b.String()
}

// MethodName derives a method name from the verb and the path segments.
// "GET /siem/offenses/{offense_id}" gives "get_siem_offenses_offense_id".
func MethodName(method, path string) string {
	parts := []string{strings.ToLower(method)}
	for _, seg := range util.PathSegments(path) {
		if seg = util.StripBraces(seg); seg != "" {
			parts = append(parts, seg)
		}
	}
	return ToSnake(strings.Join(parts, "_"))
}

// AttrName is the client attribute that exposes a tag's class.
func AttrName(tag string) string {
	return ToSnake(tag)
}

// Identifier replaces characters that cannot appear in a Python identifier.
// Names that are already valid pass through unchanged.
func Identifier(name string) string {
	id := nonIdentRe.ReplaceAllString(name, "_")
	switch {
	case id == "":
		return "_"
	case id[0] >= '0' && id[0] <= '9':
		return "_" + id
	}
	return id
}

// uniquer hands out names, suffixing repeats with _2, _3, ...
type uniquer struct {
	seen map[string]bool
}

func newUniquer(reserved ...string) *uniquer {
	u := &uniquer{seen: make(map[string]bool)}
	for _, r := range reserved {
		u.seen[r] = true
	}
	return u
}

func (u *uniquer) take(name string) string {
	candidate := name
	for n := 2; u.seen[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
	u.seen[candidate] = true
	return candidate
}
