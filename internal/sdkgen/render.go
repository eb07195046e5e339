// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package sdkgen

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/api2spec/docs2sdk/pkg/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("sdk").
		Funcs(template.FuncMap{"upper": strings.ToUpper}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// knownTags describes the QRadar tags when the document has no tag objects.
var knownTags = map[string]string{
	"access":                     "Login attempts and access management",
	"analytics":                  "Rules, building blocks, ADE rules",
	"ariel":                      "AQL searches, saved searches",
	"asset_model":                "Asset management",
	"auth":                       "Authentication (logout)",
	"backup_and_restore":         "Backup management",
	"bandwidth_manager":          "Bandwidth configurations",
	"config":                     "System configuration",
	"data_classification":        "QID records, categories",
	"disaster_recovery":          "Ariel copy profiles",
	"dynamic_search":             "Dynamic search schemas",
	"forensics":                  "Packet capture and case management",
	"gui_app_framework":          "App framework management",
	"health":                     "Health metrics",
	"health_data":                "Security data counts",
	"help":                       "API endpoint documentation",
	"qni":                        "QNI host configuration",
	"qrm":                        "Risk management",
	"qvm":                        "Vulnerability management",
	"reference_data":             "Reference sets, maps, tables",
	"reference_data_collections": "Reference data collections",
	"scanner":                    "Vulnerability scanner profiles",
	"services":                   "DNS, WHOIS, port scan services",
	"siem":                       "Offenses, notes, closing reasons",
	"staged_config":              "Staged (pre-deploy) configuration",
	"system":                     "System information, servers",
}

// packageData feeds the package-level templates.
type packageData struct {
	Package        string
	Distribution   string
	PackageVersion string
	APIVersion     string
	SpecName       string
	Modules        []*Module
	Verbs          []string
}

func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// describe fills module descriptions from the document's tag objects,
// falling back to the built-in QRadar descriptions.
func describe(modules []*Module, tags []types.Tag) {
	declared := make(map[string]string, len(tags))
	for _, t := range tags {
		declared[t.Name] = t.Description
	}
	for _, m := range modules {
		if d := declared[m.Tag]; d != "" {
			m.Description = d
		} else {
			m.Description = knownTags[m.Tag]
		}
	}
}

// renderFiles renders the whole SDK keyed by slash-separated path relative
// to the output directory's parent.
func renderFiles(dir string, data *packageData) (map[string][]byte, error) {
	files := make(map[string][]byte)
	pkg := func(rel string) string { return dir + "/" + rel }

	for _, m := range data.Modules {
		src, err := render("module.py.tmpl", m)
		if err != nil {
			return nil, err
		}
		files[pkg("api/"+m.FileName())] = src
	}

	static := []struct {
		rel  string
		tmpl string
	}{
		{pkg("api/__init__.py"), "api_init.py.tmpl"},
		{pkg("client.py"), "client.py.tmpl"},
		{pkg("__init__.py"), "init.py.tmpl"},
		{pkg("exceptions.py"), "exceptions.py.tmpl"},
		{pkg("_http.py"), "http.py.tmpl"},
		{"pyproject.toml", "pyproject.toml.tmpl"},
		{"README_SDK.md", "readme.md.tmpl"},
	}
	for _, s := range static {
		src, err := render(s.tmpl, data)
		if err != nil {
			return nil, err
		}
		files[s.rel] = src
	}
	files[pkg("py.typed")] = []byte{}

	return files, nil
}
