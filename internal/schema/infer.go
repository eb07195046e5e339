// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package schema derives minimal OpenAPI schemas from documentation
// samples and type labels.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/api2spec/docs2sdk/pkg/types"
)

// ErrTrailingData is returned when a sample holds more than one JSON value.
var ErrTrailingData = errors.New("unexpected data after top-level JSON value")

// Infer parses a JSON sample and returns its schema.
//
// Scalars map to boolean, integer, number and string; a number is an integer
// when its literal has no fraction or exponent. Arrays take their items
// schema from the first element, and an empty array gets the empty items
// schema. Objects keep their members in sample order; for a repeated member
// the last value wins. A top-level null returns a nil schema and no error.
func Infer(sample []byte) (*types.Schema, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(sample), jsontext.AllowDuplicateNames(true))

	if dec.PeekKind() == 'n' {
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		if err := expectEOF(dec); err != nil {
			return nil, err
		}
		return nil, nil
	}

	s, err := inferValue(dec)
	if err != nil {
		return nil, err
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return s, nil
}

// InferString is Infer over a string.
func InferString(sample string) (*types.Schema, error) {
	return Infer([]byte(sample))
}

func expectEOF(dec *jsontext.Decoder) error {
	_, err := dec.ReadToken()
	if err == io.EOF {
		return nil
	}
	if err == nil {
		return ErrTrailingData
	}
	return err
}

func inferValue(dec *jsontext.Decoder) (*types.Schema, error) {
	switch kind := dec.PeekKind(); kind {
	case '{':
		return inferObject(dec)
	case '[':
		return inferArray(dec)
	default:
		tok, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}
		return scalarSchema(tok)
	}
}

func scalarSchema(tok jsontext.Token) (*types.Schema, error) {
	switch tok.Kind() {
	case 't', 'f':
		return &types.Schema{Type: types.TypeBoolean}, nil
	case '"':
		return &types.Schema{Type: types.TypeString}, nil
	case '0':
		if strings.ContainsAny(tok.String(), ".eE") {
			return &types.Schema{Type: types.TypeNumber}, nil
		}
		return &types.Schema{Type: types.TypeInteger}, nil
	case 'n':
		return &types.Schema{}, nil
	default:
		return nil, fmt.Errorf("unexpected JSON token %s", tok.Kind())
	}
}

func inferObject(dec *jsontext.Decoder) (*types.Schema, error) {
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}

	props := types.NewOrderedMap[*types.Schema]()
	for dec.PeekKind() != '}' {
		tok, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}
		// A token is only valid until the next decoder call.
		name := tok.String()
		value, err := inferValue(dec)
		if err != nil {
			return nil, err
		}
		props.Set(name, value)
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}

	return &types.Schema{Type: types.TypeObject, Properties: props}, nil
}

func inferArray(dec *jsontext.Decoder) (*types.Schema, error) {
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}

	items := &types.Schema{}
	if dec.PeekKind() != ']' {
		first, err := inferValue(dec)
		if err != nil {
			return nil, err
		}
		items = first
		for dec.PeekKind() != ']' {
			if err := dec.SkipValue(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}

	return &types.Schema{Type: types.TypeArray, Items: items}, nil
}
