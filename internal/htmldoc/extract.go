// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package htmldoc extracts tables and preformatted blocks from HTML
// reference pages in a single tokenizer pass.
package htmldoc

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// PreMarker replaces each <pre> block in Document.Text.
const PreMarker = "\n__PRE__\n"

// Table is a captioned HTML table.
type Table struct {
	// Caption is the trimmed caption text, empty when the table has none
	Caption string

	// Rows holds the trimmed cell texts of each row that has at least one
	// non-blank cell, in document order
	Rows [][]string
}

// Document is the structured view of one HTML page.
type Document struct {
	// Tables are the page's tables in the order they were closed
	Tables []Table

	// Text is the visible text outside <pre> blocks, with PreMarker in
	// place of each block
	Text string

	// PreBlocks holds the raw text content of each <pre> element
	PreBlocks []string
}

// TablesWithCaption returns the tables whose caption contains substr,
// compared case-insensitively.
func (d *Document) TablesWithCaption(substr string) []Table {
	needle := strings.ToLower(substr)
	var out []Table
	for _, t := range d.Tables {
		if strings.Contains(strings.ToLower(t.Caption), needle) {
			out = append(out, t)
		}
	}
	return out
}

// extractor is the tokenizer state machine. Content of <script> and
// <style> is skipped, with nested start/end tags depth-counted.
type extractor struct {
	doc Document

	table *Table
	row   []string

	inCell  bool
	cell    strings.Builder
	inCapt  bool
	caption strings.Builder
	inPre   bool
	pre     strings.Builder
	text    strings.Builder

	skipTag   string
	skipDepth int
}

// Extract scans src and returns its tables, text and <pre> blocks.
func Extract(src string) *Document {
	return ExtractReader(strings.NewReader(src))
}

// ExtractReader is Extract over an io.Reader. Tokenizer errors other than
// io.EOF end the scan early; whatever was collected so far is returned.
func ExtractReader(r io.Reader) *Document {
	e := &extractor{}
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			e.doc.Text = e.text.String()
			return &e.doc
		case html.StartTagToken:
			name, _ := z.TagName()
			e.start(string(name))
		case html.EndTagToken:
			name, _ := z.TagName()
			e.end(string(name))
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			e.start(string(name))
			e.end(string(name))
		case html.TextToken:
			e.data(string(z.Text()))
		}
	}
}

func (e *extractor) start(tag string) {
	if e.skipTag != "" {
		e.skipDepth++
		return
	}
	switch tag {
	case "script", "style":
		e.skipTag = tag
		e.skipDepth = 1
	case "table":
		e.table = &Table{}
	case "caption":
		e.inCapt = true
		e.caption.Reset()
	case "td", "th":
		e.inCell = true
		e.cell.Reset()
	case "tr":
		e.row = nil
	case "pre":
		e.inPre = true
		e.pre.Reset()
	}
}

func (e *extractor) end(tag string) {
	if e.skipTag != "" {
		e.skipDepth--
		if e.skipDepth == 0 {
			e.skipTag = ""
		}
		return
	}
	switch tag {
	case "table":
		if e.table != nil {
			e.doc.Tables = append(e.doc.Tables, *e.table)
			e.table = nil
		}
	case "caption":
		e.inCapt = false
		if e.table != nil {
			e.table.Caption = strings.TrimSpace(e.caption.String())
		}
	case "td", "th":
		e.inCell = false
		if e.table != nil {
			e.row = append(e.row, strings.TrimSpace(e.cell.String()))
		}
	case "tr":
		if e.table != nil {
			if hasContent(e.row) {
				e.table.Rows = append(e.table.Rows, e.row)
			}
			e.row = nil
		}
	case "pre":
		e.inPre = false
		e.doc.PreBlocks = append(e.doc.PreBlocks, e.pre.String())
		e.text.WriteString(PreMarker)
	}
}

func (e *extractor) data(s string) {
	if e.skipTag != "" {
		return
	}
	if e.inCapt {
		e.caption.WriteString(s)
	} else if e.inCell {
		e.cell.WriteString(s)
	}
	if e.inPre {
		e.pre.WriteString(s)
	} else {
		e.text.WriteString(s)
	}
}

func hasContent(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}
