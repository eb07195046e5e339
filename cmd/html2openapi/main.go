// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package main is the entry point for html2openapi, which converts HTML
// reference pages to an OpenAPI document.
package main

import (
	"fmt"
	"os"

	"github.com/api2spec/docs2sdk/internal/cli"
)

func main() {
	if err := cli.ExecuteHTML2OpenAPI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
