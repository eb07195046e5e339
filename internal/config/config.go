// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for docs2sdk.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/api2spec/docs2sdk/internal/scanner"
)

// EnvPrefix prefixes environment overrides, e.g. DOCS2SDK_PROBE_SECTOKEN.
const EnvPrefix = "DOCS2SDK"

// Config represents the docs2sdk configuration.
type Config struct {
	// Source describes where the HTML reference pages live
	Source SourceConfig `mapstructure:"source" yaml:"source" json:"source"`

	// OpenAPI contains OpenAPI document generation settings
	OpenAPI OpenAPIConfig `mapstructure:"openapi" yaml:"openapi" json:"openapi"`

	// SDK contains Python SDK generation settings
	SDK SDKConfig `mapstructure:"sdk" yaml:"sdk" json:"sdk"`

	// Watch contains file watching configuration
	Watch WatchConfig `mapstructure:"watch" yaml:"watch" json:"watch"`

	// Probe contains live console settings for the probe command
	Probe ProbeConfig `mapstructure:"probe" yaml:"probe" json:"probe"`
}

// SourceConfig contains documentation folder settings.
type SourceConfig struct {
	// Dir is the folder holding the HTML pages
	Dir string `mapstructure:"dir" yaml:"dir" json:"dir"`

	// Include is a list of glob patterns, relative to Dir
	Include []string `mapstructure:"include" yaml:"include" json:"include"`

	// Exclude is a list of glob patterns to skip
	Exclude []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
}

// OpenAPIConfig contains OpenAPI document settings.
type OpenAPIConfig struct {
	// Version is the OpenAPI version written to the document
	Version string `mapstructure:"version" yaml:"version" json:"version"`

	// Output is the path of the generated document
	Output string `mapstructure:"output" yaml:"output" json:"output"`

	// Format is the output format (yaml, json); empty infers it from Output
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// Validate runs structural validation on the built document
	Validate bool `mapstructure:"validate" yaml:"validate" json:"validate"`

	// Strict turns validation warnings into errors
	Strict bool `mapstructure:"strict" yaml:"strict" json:"strict"`

	// Merge keeps info and servers from an existing document at Output
	Merge bool `mapstructure:"merge" yaml:"merge" json:"merge"`

	// KeepRemoved keeps paths of the existing document that were not regenerated
	KeepRemoved bool `mapstructure:"keepRemoved" yaml:"keepRemoved" json:"keepRemoved"`

	// Info contains API metadata
	Info InfoConfig `mapstructure:"info" yaml:"info" json:"info"`

	// Servers is a list of server configurations
	Servers []ServerConfig `mapstructure:"servers" yaml:"servers" json:"servers"`
}

// InfoConfig contains API metadata.
type InfoConfig struct {
	Title       string        `mapstructure:"title" yaml:"title" json:"title"`
	Description string        `mapstructure:"description" yaml:"description" json:"description"`
	Version     string        `mapstructure:"version" yaml:"version" json:"version"`
	Contact     ContactConfig `mapstructure:"contact" yaml:"contact" json:"contact"`
}

// ContactConfig contains contact information.
type ContactConfig struct {
	Name  string `mapstructure:"name" yaml:"name" json:"name"`
	URL   string `mapstructure:"url" yaml:"url" json:"url"`
	Email string `mapstructure:"email" yaml:"email" json:"email"`
}

// ServerConfig contains server configuration.
type ServerConfig struct {
	// URL is the server URL, possibly templated ("https://{host}/api")
	URL string `mapstructure:"url" yaml:"url" json:"url"`

	// Description is the server description
	Description string `mapstructure:"description" yaml:"description" json:"description"`

	// Variables substitutes the URL template placeholders
	Variables map[string]ServerVariableConfig `mapstructure:"variables" yaml:"variables,omitempty" json:"variables,omitempty"`
}

// ServerVariableConfig describes one server URL placeholder.
type ServerVariableConfig struct {
	Default     string   `mapstructure:"default" yaml:"default" json:"default"`
	Description string   `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
	Enum        []string `mapstructure:"enum" yaml:"enum,omitempty" json:"enum,omitempty"`
}

// SDKConfig contains Python SDK generation settings.
type SDKConfig struct {
	// Spec is the OpenAPI document the SDK is generated from
	Spec string `mapstructure:"spec" yaml:"spec" json:"spec"`

	// Output is the package directory; its base name is the import name
	Output string `mapstructure:"output" yaml:"output" json:"output"`

	// PackageVersion is written to __init__.py and pyproject.toml
	PackageVersion string `mapstructure:"packageVersion" yaml:"packageVersion" json:"packageVersion"`

	// APIVersion is the default Version header of the generated client
	APIVersion string `mapstructure:"apiVersion" yaml:"apiVersion" json:"apiVersion"`

	// Verify parses every generated Python file before writing
	Verify bool `mapstructure:"verify" yaml:"verify" json:"verify"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// Debounce is the debounce duration in milliseconds
	Debounce int `mapstructure:"debounce" yaml:"debounce" json:"debounce"`

	// SDK regenerates the SDK after every rebuild
	SDK bool `mapstructure:"sdk" yaml:"sdk" json:"sdk"`
}

// ProbeConfig contains live console settings.
type ProbeConfig struct {
	Host       string `mapstructure:"host" yaml:"host" json:"host"`
	SECToken   string `mapstructure:"secToken" yaml:"secToken" json:"secToken"`
	Username   string `mapstructure:"username" yaml:"username" json:"username"`
	Password   string `mapstructure:"password" yaml:"password" json:"password"`
	APIVersion string `mapstructure:"apiVersion" yaml:"apiVersion" json:"apiVersion"`
	VerifyTLS  bool   `mapstructure:"verifyTLS" yaml:"verifyTLS" json:"verifyTLS"`
	CAFile     string `mapstructure:"caFile" yaml:"caFile" json:"caFile"`

	// Timeout is the per-request timeout in seconds
	Timeout int `mapstructure:"timeout" yaml:"timeout" json:"timeout"`

	MaxRetries int `mapstructure:"maxRetries" yaml:"maxRetries" json:"maxRetries"`

	// Report is the CSV file written by the probe command
	Report string `mapstructure:"report" yaml:"report" json:"report"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"docs2sdk.yaml",
	"docs2sdk.json",
	".docs2sdk.yaml",
	".docs2sdk.json",
}

// supportedFormats is the list of supported output formats.
var supportedFormats = []string{
	"yaml",
	"json",
}

// supportedOpenAPIVersions is the list of accepted document versions.
var supportedOpenAPIVersions = []string{
	"3.0.0",
	"3.0.1",
	"3.0.2",
	"3.0.3",
}

// ErrConfigNotFound is returned when no config file is found.
var ErrConfigNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Dir:     ".",
			Include: []string{scanner.DefaultPattern},
		},
		OpenAPI: OpenAPIConfig{
			Version:  "3.0.0",
			Output:   "openapi.yaml",
			Validate: true,
			Info: InfoConfig{
				Title:       "IBM QRadar REST API",
				Description: "IBM QRadar REST API version 26.0. Generated from HTML documentation files.",
				Version:     "26.0",
				Contact: ContactConfig{
					Name: "IBM QRadar",
					URL:  "https://www.ibm.com/docs/en/qradar-common",
				},
			},
			Servers: []ServerConfig{DefaultServer()},
		},
		SDK: SDKConfig{
			Spec:           "openapi.yaml",
			Output:         "qradar_sdk",
			PackageVersion: "26.0.0",
			APIVersion:     "26.0",
			Verify:         true,
		},
		Watch: WatchConfig{
			Debounce: 500,
		},
		Probe: ProbeConfig{
			APIVersion: "26.0",
			VerifyTLS:  true,
			Timeout:    30,
			MaxRetries: 3,
			Report:     "probe.csv",
		},
	}
}

// DefaultServer is the templated console server entry.
func DefaultServer() ServerConfig {
	return ServerConfig{
		URL: "https://{host}/api",
		Variables: map[string]ServerVariableConfig{
			"host": {
				Default:     "localhost",
				Description: "QRadar console hostname",
			},
		},
	}
}

// Load loads the configuration from a file.
// It searches for config files in the following order:
// 1. docs2sdk.yaml
// 2. docs2sdk.json
// 3. .docs2sdk.yaml
// 4. .docs2sdk.json
//
// If configPath is provided, it will use that path instead. Environment
// variables prefixed with DOCS2SDK_ override file values either way.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = findConfigFile(".")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var configFileNotFoundError viper.ConfigFileNotFoundError
			if errors.As(err, &configFileNotFoundError) || errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func findConfigFile(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// setDefaults sets the default values for viper. Every key is registered so
// AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("source.dir", d.Source.Dir)
	v.SetDefault("source.include", d.Source.Include)

	v.SetDefault("openapi.version", d.OpenAPI.Version)
	v.SetDefault("openapi.output", d.OpenAPI.Output)
	v.SetDefault("openapi.format", "")
	v.SetDefault("openapi.validate", d.OpenAPI.Validate)
	v.SetDefault("openapi.strict", false)
	v.SetDefault("openapi.merge", false)
	v.SetDefault("openapi.keepRemoved", false)
	v.SetDefault("openapi.info.title", d.OpenAPI.Info.Title)
	v.SetDefault("openapi.info.description", d.OpenAPI.Info.Description)
	v.SetDefault("openapi.info.version", d.OpenAPI.Info.Version)
	v.SetDefault("openapi.info.contact.name", d.OpenAPI.Info.Contact.Name)
	v.SetDefault("openapi.info.contact.url", d.OpenAPI.Info.Contact.URL)
	v.SetDefault("openapi.info.contact.email", "")
	v.SetDefault("openapi.servers", []map[string]any{
		{
			"url": d.OpenAPI.Servers[0].URL,
			"variables": map[string]any{
				"host": map[string]any{
					"default":     "localhost",
					"description": "QRadar console hostname",
				},
			},
		},
	})

	v.SetDefault("sdk.spec", d.SDK.Spec)
	v.SetDefault("sdk.output", d.SDK.Output)
	v.SetDefault("sdk.packageVersion", d.SDK.PackageVersion)
	v.SetDefault("sdk.apiVersion", d.SDK.APIVersion)
	v.SetDefault("sdk.verify", d.SDK.Verify)

	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("watch.sdk", false)

	v.SetDefault("probe.host", "")
	v.SetDefault("probe.secToken", "")
	v.SetDefault("probe.username", "")
	v.SetDefault("probe.password", "")
	v.SetDefault("probe.apiVersion", d.Probe.APIVersion)
	v.SetDefault("probe.verifyTLS", d.Probe.VerifyTLS)
	v.SetDefault("probe.caFile", "")
	v.SetDefault("probe.timeout", d.Probe.Timeout)
	v.SetDefault("probe.maxRetries", d.Probe.MaxRetries)
	v.SetDefault("probe.report", d.Probe.Report)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Source.Dir == "" {
		errs = append(errs, ValidationError{
			Field:   "source.dir",
			Message: "directory is required",
		})
	}

	if len(c.Source.Include) == 0 {
		errs = append(errs, ValidationError{
			Field:   "source.include",
			Message: "at least one pattern is required",
		})
	}
	if err := scanner.ValidatePatterns(append(append([]string{}, c.Source.Include...), c.Source.Exclude...)); err != nil {
		errs = append(errs, ValidationError{
			Field:   "source",
			Message: err.Error(),
		})
	}

	// Validate format
	if c.OpenAPI.Format != "" && !contains(supportedFormats, c.OpenAPI.Format) {
		errs = append(errs, ValidationError{
			Field:   "openapi.format",
			Message: fmt.Sprintf("unsupported format %q, must be one of: %s", c.OpenAPI.Format, strings.Join(supportedFormats, ", ")),
		})
	}

	// Validate OpenAPI version
	if c.OpenAPI.Version != "" && !contains(supportedOpenAPIVersions, c.OpenAPI.Version) {
		errs = append(errs, ValidationError{
			Field:   "openapi.version",
			Message: fmt.Sprintf("unsupported OpenAPI version %q, must be one of: %s", c.OpenAPI.Version, strings.Join(supportedOpenAPIVersions, ", ")),
		})
	}

	if c.OpenAPI.Info.Title == "" {
		errs = append(errs, ValidationError{
			Field:   "openapi.info.title",
			Message: "title is required",
		})
	}

	if c.OpenAPI.Info.Version == "" {
		errs = append(errs, ValidationError{
			Field:   "openapi.info.version",
			Message: "version is required",
		})
	}

	for i, s := range c.OpenAPI.Servers {
		if s.URL == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("openapi.servers[%d].url", i),
				Message: "url is required",
			})
		}
	}

	if c.SDK.Output == "" {
		errs = append(errs, ValidationError{
			Field:   "sdk.output",
			Message: "output directory is required",
		})
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if c.Probe.Timeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "probe.timeout",
			Message: "timeout must be non-negative",
		})
	}

	if c.Probe.MaxRetries < 0 {
		errs = append(errs, ValidationError{
			Field:   "probe.maxRetries",
			Message: "maxRetries must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ScannerConfig returns the scanner settings for the source section.
func (c *Config) ScannerConfig() scanner.Config {
	return scanner.Config{
		BasePath:        c.Source.Dir,
		IncludePatterns: c.Source.Include,
		ExcludePatterns: c.Source.Exclude,
	}
}

// DebounceDuration returns the watch debounce as a duration.
func (c *Config) DebounceDuration() time.Duration {
	return time.Duration(c.Watch.Debounce) * time.Millisecond
}

// ConfigFilePath returns the path of the config file in the current
// directory, if any.
func ConfigFilePath() string {
	return findConfigFile(".")
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
