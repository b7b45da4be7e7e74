// Package config loads and saves the sbomlx YAML configuration file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/StinkyLord/sbom-license-exporter/internal/flatten"
	"github.com/StinkyLord/sbom-license-exporter/internal/output"
)

// Config is the full set of tool settings. CLI flags override these values.
type Config struct {
	Output    OutputConfig    `yaml:"output" json:"output"`
	SPDX      SPDXConfig      `yaml:"spdx" json:"spdx"`
	CycloneDX CycloneDXConfig `yaml:"cyclonedx" json:"cyclonedx"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// OutputConfig controls the written tables.
type OutputConfig struct {
	Format        string `yaml:"format" json:"format"`                 // csv, tsv or json
	Delimiter     string `yaml:"delimiter" json:"delimiter"`           // single character, csv only
	LicenseFile   string `yaml:"license_file" json:"license_file"`     // record table path
	ReferenceFile string `yaml:"reference_file" json:"reference_file"` // SPDX extracted-license table path
}

type SPDXConfig struct {
	Mode string `yaml:"mode" json:"mode"` // per-identifier or whole-expression
}

type CycloneDXConfig struct {
	IncludeRoot bool `yaml:"include_root" json:"include_root"`
}

type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"` // empty disables the file log
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Default returns the settings used when no configuration file is found.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:        string(output.FormatCSV),
			Delimiter:     ",",
			LicenseFile:   "license.csv",
			ReferenceFile: "license_ref.csv",
		},
		SPDX: SPDXConfig{
			Mode: string(flatten.PerIdentifier),
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "sbom_license.log",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty or missing
// path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml)", ext)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing YAML config %s: %w", path, err)
	}

	if err := cfg.validateSchema(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validateSchema() error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("converting config to JSON for validation: %w", err)
	}
	return ValidateJSON(data)
}

// Validate checks the semantic constraints the schema cannot express and
// normalizes whitespace in free-form fields.
func (c *Config) Validate() error {
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if _, err := c.Delimiter(); err != nil {
		return err
	}
	if _, err := flatten.ParseSPDXMode(c.SPDX.Mode); err != nil {
		return err
	}

	c.Output.LicenseFile = strings.TrimSpace(c.Output.LicenseFile)
	c.Output.ReferenceFile = strings.TrimSpace(c.Output.ReferenceFile)
	if c.Output.LicenseFile == "" {
		return fmt.Errorf("output.license_file cannot be empty")
	}
	if c.Output.ReferenceFile == "" {
		return fmt.Errorf("output.reference_file cannot be empty")
	}

	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s",
			c.Logging.Level, strings.Join(validLevels, ", "))
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	return nil
}

// Delimiter returns the configured CSV field separator.
func (c *Config) Delimiter() (rune, error) {
	d := c.Output.Delimiter
	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", d)
	}
	r, _ := utf8.DecodeRuneInString(d)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", d)
	}
	return r, nil
}

// OutputOptions converts the output section for the writer.
func (c *Config) OutputOptions() (output.Options, error) {
	format, err := output.ParseFormat(c.Output.Format)
	if err != nil {
		return output.Options{}, err
	}
	delim, err := c.Delimiter()
	if err != nil {
		return output.Options{}, err
	}
	return output.Options{Format: format, Delimiter: delim}, nil
}

// Save validates the configuration and writes it to path as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	if err := c.validateSchema(); err != nil {
		return fmt.Errorf("config validation failed before save: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config to YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// SearchPaths returns the locations FindConfigFile checks, in order.
func SearchPaths() []string {
	paths := []string{"sbomlx.yml", "sbomlx.yaml"}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths,
			filepath.Join(home, ".config", "sbomlx", "config.yml"),
			filepath.Join(home, ".config", "sbomlx", "config.yaml"),
		)
	}
	return paths
}

// FindConfigFile returns the first existing file from SearchPaths, or "".
func FindConfigFile() string {
	for _, path := range SearchPaths() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
