// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package main is the entry point for openapi2sdk, which generates a Python
// SDK from an OpenAPI document.
package main

import (
	"fmt"
	"os"

	"github.com/api2spec/docs2sdk/internal/cli"
)

func main() {
	if err := cli.ExecuteOpenAPI2SDK(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
