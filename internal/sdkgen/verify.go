// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package sdkgen

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// SyntaxError points at the first parse error in a generated file.
type SyntaxError struct {
	File   string
	Line   int
	Column int
	Text   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: invalid Python syntax near %q", e.File, e.Line, e.Column, e.Text)
}

// Verifier parses generated Python with tree-sitter.
type Verifier struct {
	parser *sitter.Parser
}

// NewVerifier creates a Verifier for Python sources.
func NewVerifier() *Verifier {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Verifier{parser: parser}
}

// Check returns a *SyntaxError if src does not parse as Python.
func (v *Verifier) Check(ctx context.Context, name string, src []byte) error {
	tree, err := v.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}

	serr := &SyntaxError{File: name, Line: 1, Column: 1}
	if node := firstError(root); node != nil {
		serr.Line = int(node.StartPoint().Row) + 1
		serr.Column = int(node.StartPoint().Column) + 1
		serr.Text = node.Content(src)
		if len(serr.Text) > 40 {
			serr.Text = serr.Text[:40]
		}
	}
	return serr
}

// Close releases the parser.
func (v *Verifier) Close() {
	if v.parser != nil {
		v.parser.Close()
	}
}

// CheckAll verifies every file and joins the failures.
func (v *Verifier) CheckAll(ctx context.Context, files map[string][]byte, names []string) error {
	var errs []error
	for _, name := range names {
		if err := v.Check(ctx, name, files[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstError(child); found != nil {
			return found
		}
	}
	return nil
}
