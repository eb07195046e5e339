// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a command and returns output and error. Flag values
// left over from earlier runs are reset first.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	resetFlags(root)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// captureDiag redirects progress and diagnostics for the test.
func captureDiag(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	prev := diagOut
	diagOut = buf
	verbose, quiet = false, false
	t.Cleanup(func() {
		diagOut = prev
		verbose, quiet = false, false
	})
	return buf
}

func TestRootCommand_Help(t *testing.T) {
	output, err := executeCommand(rootCmd, "--help")
	require.NoError(t, err)

	assert.Contains(t, output, "docs2sdk")
	assert.Contains(t, output, "HTML API reference pages")
	assert.Contains(t, output, "Available Commands")
	for _, name := range []string{"openapi", "sdk", "build", "init", "check", "diff", "watch", "print", "validate", "probe", "version"} {
		assert.Contains(t, output, name)
	}
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		expected string
	}{
		{
			name:     "config flag short",
			flag:     "-c",
			expected: "config file",
		},
		{
			name:     "config flag long",
			flag:     "--config",
			expected: "config file",
		},
		{
			name:     "verbose flag short",
			flag:     "-v",
			expected: "verbose output",
		},
		{
			name:     "verbose flag long",
			flag:     "--verbose",
			expected: "verbose output",
		},
		{
			name:     "quiet flag short",
			flag:     "-q",
			expected: "suppress",
		},
		{
			name:     "quiet flag long",
			flag:     "--quiet",
			expected: "suppress",
		},
	}

	output, err := executeCommand(rootCmd, "--help")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, output, tt.flag)
			assert.Contains(t, output, tt.expected)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := executeCommand(rootCmd, "version")
	require.NoError(t, err)

	assert.Contains(t, output, "docs2sdk")
	assert.Contains(t, output, "Commit")
	assert.Contains(t, output, "Build Date")
	assert.Contains(t, output, "Go Version")
	assert.Contains(t, output, "OS/Arch")
}

func TestCommand_Help(t *testing.T) {
	tests := []struct {
		command  string
		contains []string
	}{
		{"openapi", []string{"Generate an OpenAPI 3.0 document", "--dir", "--output", "--pattern", "--merge", "--strict", "--no-validate", "--dry-run"}},
		{"sdk", []string{"Generate a Python client package", "--spec", "--output", "--dry-run", "--no-verify"}},
		{"build", []string{"Build runs openapi and sdk", "--dir", "--sdk-output"}},
		{"init", []string{"Initialize a new docs2sdk configuration file", "--force", "--interactive"}},
		{"check", []string{"Check validates that the OpenAPI document", "--strict", "--ignore", "--ci"}},
		{"diff", []string{"Compare two OpenAPI specifications", "--name-only", "--fail-on-breaking"}},
		{"watch", []string{"Watch for changes", "--debounce", "--sdk"}},
		{"print", []string{"Print the OpenAPI specification", "--format"}},
		{"validate", []string{"Validate loads an OpenAPI document"}},
		{"probe", []string{"Probe calls every GET operation", "--host", "--sec-token", "--report"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			output, err := executeCommand(rootCmd, tt.command, "--help")
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
		})
	}
}

func TestUnknownArgs(t *testing.T) {
	_, err := executeCommand(rootCmd, "openapi", "extra")
	assert.Error(t, err)
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Contains(t, info, "docs2sdk")
	assert.Contains(t, info, "commit")
	assert.Contains(t, info, "built")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitCodeCheckError, ExitCode(&ExitError{Code: ExitCodeCheckError, Err: errors.New("x")}))

	wrapped := errors.Join(errors.New("context"), &ExitError{Code: ExitCodeDifference, Err: errors.New("differs")})
	assert.Equal(t, ExitCodeDifference, ExitCode(wrapped))
}

func TestPrintHelpers(t *testing.T) {
	diag := captureDiag(t)

	printInfo("info %d", 1)
	printVerbose("hidden")
	printError("bad %s", "thing")
	assert.Equal(t, "info 1\nError: bad thing\n", diag.String())

	diag.Reset()
	verbose = true
	printVerbose("shown")
	assert.Equal(t, "shown\n", diag.String())

	diag.Reset()
	quiet = true
	printInfo("info")
	printVerbose("verbose")
	printError("still")
	assert.Equal(t, "Error: still\n", diag.String())
}
