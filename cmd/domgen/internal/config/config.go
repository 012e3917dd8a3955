package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project directory
const FileName = "domgen.yaml"

// Config represents the domgen.yaml configuration
type Config struct {
	// Input is the HTML document holding the <template> elements
	Input string `yaml:"input,omitempty"`

	// Output is the generated Go file
	Output string `yaml:"output,omitempty"`

	// Package is the package clause of the generated file
	Package string `yaml:"package,omitempty"`

	// RuntimeImport is the import path providing dom.Factory
	RuntimeImport string `yaml:"runtimeImport,omitempty"`

	// Whitespace configuration
	Whitespace *WhitespaceConfig `yaml:"whitespace,omitempty"`
}

// WhitespaceConfig contains the text-node retention rules
type WhitespaceConfig struct {
	// Tags whose neighbouring whitespace-only text is kept
	InlineTags []string `yaml:"inlineTags,omitempty"`

	// Tags under which text is kept byte for byte
	LiteralTags []string `yaml:"literalTags,omitempty"`
}

// Load loads configuration from domgen.yaml in projectPath
func Load(projectPath string) (*Config, error) {
	return LoadFile(filepath.Join(projectPath, FileName))
}

// LoadFile loads configuration from an explicit path. A missing file yields
// the default configuration.
func LoadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	applyDefaults(&config)

	return &config, nil
}

// Save saves configuration to domgen.yaml in projectPath
func Save(config *Config, projectPath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(projectPath, FileName), data, 0644)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Input:         "templates.html",
		Output:        "templates_gen.go",
		Package:       "templates",
		RuntimeImport: "github.com/recera/domgen/pkg/dom",
		Whitespace: &WhitespaceConfig{
			InlineTags:  []string{"span"},
			LiteralTags: []string{"pre", "textarea"},
		},
	}
}

// applyDefaults applies default values to missing configuration
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Input == "" {
		config.Input = defaults.Input
	}
	if config.Output == "" {
		config.Output = defaults.Output
	}
	if config.Package == "" {
		config.Package = defaults.Package
	}
	if config.RuntimeImport == "" {
		config.RuntimeImport = defaults.RuntimeImport
	}

	// nil tag lists fall back to defaults; an explicit empty list disables the rule
	if config.Whitespace == nil {
		config.Whitespace = defaults.Whitespace
	} else {
		if config.Whitespace.InlineTags == nil {
			config.Whitespace.InlineTags = defaults.Whitespace.InlineTags
		}
		if config.Whitespace.LiteralTags == nil {
			config.Whitespace.LiteralTags = defaults.Whitespace.LiteralTags
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input path is required")
	}
	if c.Output == "" {
		return errors.New("output path is required")
	}
	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("package %q is not a valid Go identifier", c.Package)
	}
	if filepath.Clean(c.Input) == filepath.Clean(c.Output) {
		return fmt.Errorf("output %q would overwrite the input", c.Output)
	}
	return nil
}
