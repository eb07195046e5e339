// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package util provides shared string helpers.
package util

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UpperFirst upper-cases the first character and leaves the rest untouched.
// For example: "offenses" returns "Offenses", "offense_id" returns "Offense_id".
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Capitalize upper-cases the first letter of a word and lower-cases the rest.
// For example: "QRM" returns "Qrm", "gui" returns "Gui".
func Capitalize(word string) string {
	if word == "" {
		return word
	}
	return cases.Title(language.English).String(word)
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// PathSegments splits a URL path on "/" after trimming leading and trailing
// slashes. "/" yields a single empty segment.
func PathSegments(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

// StripBraces removes path-template braces from a segment ("{id}" -> "id").
func StripBraces(segment string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(segment)
}
