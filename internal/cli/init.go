// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/api2spec/docs2sdk/internal/config"
)

var (
	initForce       bool
	initInteractive bool
	initTitle       string
	initVersion     string
	initDescription string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new docs2sdk configuration file",
	Long: `Initialize a new docs2sdk configuration file in the current directory.

This command creates a docs2sdk.yaml file with sensible defaults
that you can customize for your project.

Features:
  - Finds the folder holding the HTML reference pages
  - Infers the API version and page pattern from page names
  - Fills in the OpenAPI info and SDK versions from it

Example:
  docs2sdk init                         # Detect pages and create config
  docs2sdk init --force                 # Overwrite existing config
  docs2sdk init --interactive           # Interactive mode with prompts
  docs2sdk init --title "My API"        # Set custom API title`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "interactive mode with prompts")
	initCmd.Flags().StringVar(&initTitle, "title", "", "API title for OpenAPI info")
	initCmd.Flags().StringVar(&initVersion, "version", "", "API version for OpenAPI info and the SDK")
	initCmd.Flags().StringVar(&initDescription, "description", "", "API description for OpenAPI info")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := "docs2sdk.yaml"

	if existing := config.ConfigFilePath(); existing != "" && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", existing)
	}

	projectRoot, err := filepath.Abs(".")
	if err != nil {
		return fmt.Errorf("failed to determine project root: %w", err)
	}

	cfg := config.Default()

	docs := detectDocsInfo(projectRoot)
	if docs.Pages > 0 {
		printInfo("Detected %d reference pages in %s", docs.Pages, docs.Dir)
		cfg.Source.Dir = docs.Dir
		cfg.Source.Include = []string{docs.Pattern}
		applyAPIVersion(cfg, docs.Version)
	} else {
		printInfo("No reference pages detected. Using defaults.")
	}

	if initVersion != "" {
		applyAPIVersion(cfg, initVersion)
	}
	if initTitle != "" {
		cfg.OpenAPI.Info.Title = initTitle
	}
	if initDescription != "" {
		cfg.OpenAPI.Info.Description = initDescription
	}

	if initInteractive && isTerminal() {
		if err := interactiveInit(cfg, os.Stdin, diagOut); err != nil {
			return fmt.Errorf("interactive init failed: %w", err)
		}
	}

	output, err := buildConfigYAML(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFile, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printInfo("Created %s", configFile)
	printVerbose("Source: %s (%s)", cfg.Source.Dir, strings.Join(cfg.Source.Include, ", "))
	printVerbose("Output: %s", cfg.OpenAPI.Output)
	printVerbose("SDK: %s", cfg.SDK.Output)

	return nil
}

// applyAPIVersion points every version setting at one API version.
func applyAPIVersion(cfg *config.Config, version string) {
	cfg.OpenAPI.Info.Version = version
	cfg.OpenAPI.Info.Description = fmt.Sprintf("IBM QRadar REST API version %s. Generated from HTML documentation files.", version)
	cfg.SDK.APIVersion = version
	cfg.SDK.PackageVersion = version + ".0"
	cfg.Probe.APIVersion = version
}

// docsInfo holds what was detected about the reference pages.
type docsInfo struct {
	Dir     string
	Version string
	Pattern string
	Pages   int
}

// pageName matches "<version>--<METHOD>--<path>.html" page names.
var pageName = regexp.MustCompile(`^(\d+(?:\.\d+)*)--.+\.html$`)

// docsDirs are the folders searched for pages, in order.
var docsDirs = []string{".", "docs", "html", "api-docs", "reference"}

// detectDocsInfo finds the first folder holding versioned reference pages.
// When pages of several versions share a folder the most common wins.
func detectDocsInfo(projectRoot string) docsInfo {
	for _, dir := range docsDirs {
		entries, err := os.ReadDir(filepath.Join(projectRoot, dir))
		if err != nil {
			continue
		}

		counts := make(map[string]int)
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if m := pageName.FindStringSubmatch(e.Name()); m != nil {
				counts[m[1]]++
			}
		}
		if len(counts) == 0 {
			continue
		}

		versions := make([]string, 0, len(counts))
		for v := range counts {
			versions = append(versions, v)
		}
		sort.Slice(versions, func(i, j int) bool {
			if counts[versions[i]] != counts[versions[j]] {
				return counts[versions[i]] > counts[versions[j]]
			}
			return versions[i] > versions[j]
		})

		v := versions[0]
		return docsInfo{Dir: dir, Version: v, Pattern: v + "--*.html", Pages: counts[v]}
	}
	return docsInfo{}
}

// isTerminal checks if stdin is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// interactiveInit prompts for the common settings. An empty answer keeps
// the value shown in brackets.
func interactiveInit(cfg *config.Config, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	ask := func(prompt string, value *string) error {
		fmt.Fprintf(out, "%s [%s]: ", prompt, *value)
		answer, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			*value = answer
		}
		return nil
	}

	version := cfg.OpenAPI.Info.Version
	prompts := []struct {
		prompt string
		value  *string
	}{
		{"API Title", &cfg.OpenAPI.Info.Title},
		{"API Version", &version},
		{"Pages directory", &cfg.Source.Dir},
		{"Output file", &cfg.OpenAPI.Output},
		{"SDK package directory", &cfg.SDK.Output},
		{"Console host (for probe)", &cfg.Probe.Host},
	}
	for _, p := range prompts {
		if err := ask(p.prompt, p.value); err != nil {
			return err
		}
	}
	if version != cfg.OpenAPI.Info.Version {
		applyAPIVersion(cfg, version)
	}
	return nil
}

// buildConfigYAML builds a YAML config with helpful comments.
func buildConfigYAML(cfg *config.Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	header := `# docs2sdk configuration file
#
# Every key can be overridden from the environment with the DOCS2SDK_
# prefix, e.g. DOCS2SDK_PROBE_SECTOKEN. Keep credentials out of this file.

`
	return header + string(data), nil
}
