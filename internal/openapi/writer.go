// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/api2spec/docs2sdk/pkg/types"
)

// ErrSpecNotFound is returned by ReadFile when the document does not exist.
var ErrSpecNotFound = errors.New("spec not found")

// Writer handles writing OpenAPI documents to various outputs.
type Writer struct {
	// Indent specifies the indentation for JSON output (default: 2 spaces)
	Indent int
}

// NewWriter creates a new Writer with default settings.
func NewWriter() *Writer {
	return &Writer{
		Indent: 2,
	}
}

// WriteYAML writes an OpenAPI document as YAML to the given writer.
func (w *Writer) WriteYAML(doc *types.OpenAPI, out io.Writer) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// WriteJSON writes an OpenAPI document as JSON to the given writer.
func (w *Writer) WriteJSON(doc *types.OpenAPI, out io.Writer) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", w.Indent))

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// WriteFile writes an OpenAPI document to a file.
// The format is determined by the format parameter ("yaml" or "json").
// If format is empty, it is inferred from the file extension.
func (w *Writer) WriteFile(doc *types.OpenAPI, path string, format string) error {
	if format == "" {
		format = FormatFor(path)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Create file
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// Write content
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return w.WriteYAML(doc, file)
	case "json":
		return w.WriteJSON(doc, file)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatFor infers "yaml" or "json" from a file extension, defaulting to YAML.
func FormatFor(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return "json"
	}
	return "yaml"
}

// ReadFile reads an OpenAPI document from a file.
// The format is inferred from the file extension.
func ReadFile(path string) (*types.OpenAPI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSpecNotFound, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse decodes a document. ext selects the decoder (".yaml", ".yml",
// ".json"); any other value tries YAML, then JSON.
func Parse(data []byte, ext string) (*types.OpenAPI, error) {
	ext = strings.ToLower(ext)

	var doc types.OpenAPI
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, &doc); err != nil {
			if err := json.Unmarshal(data, &doc); err != nil {
				return nil, fmt.Errorf("failed to parse file as YAML or JSON")
			}
		}
	}

	if doc.Paths == nil {
		doc.Paths = types.NewOrderedMap[*types.PathItem]()
	}
	return &doc, nil
}
