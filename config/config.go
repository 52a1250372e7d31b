// Package config provides configuration loading for the annotation
// pipeline and the corpus commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete morphrob configuration.
type Config struct {
	Dataset   DatasetConfig   `yaml:"dataset"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Converter ConverterConfig `yaml:"converter"`
	Storage   StorageConfig   `yaml:"storage"`
}

// DatasetConfig configures the input dataset and the artifact output.
type DatasetConfig struct {
	// Dir is the directory holding the raw article and metadata files.
	Dir string `yaml:"dir"`
	// Artifacts is the directory the pipeline writes artifacts to
	// (defaults to the dataset dir).
	Artifacts string `yaml:"artifacts"`
	// Workers is the number of articles processed concurrently.
	Workers int `yaml:"workers"`
}

// AnalyzerConfig selects and configures the morphological analyzer.
type AnalyzerConfig struct {
	// Kind is the analyzer backend, "mystem" or "pymorphy".
	Kind string `yaml:"kind"`
	// Command is the mystem binary path (kind mystem).
	Command string `yaml:"command"`
	// URL is the analyzer HTTP endpoint (kind pymorphy).
	URL string `yaml:"url"`
	// Timeout is the maximum time to wait per sentence analysis.
	Timeout time.Duration `yaml:"timeout"`
}

// ConverterConfig selects the tagset conversion.
type ConverterConfig struct {
	// Variant is the tagset of the analyzer output, "mystem" or
	// "opencorpora".
	Variant string `yaml:"variant"`
	// Mapping is an optional path to a tagset mapping file overriding
	// the embedded one.
	Mapping string `yaml:"mapping"`
}

// StorageConfig configures the annotated corpus backend for the read
// commands.
type StorageConfig struct {
	// Kind is the backend, "dir" (artifact directory) or "file"
	// (sqlite database).
	Kind string `yaml:"kind"`
	// Path is the sqlite database path (kind file).
	Path string `yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Workers: 4,
		},
		Analyzer: AnalyzerConfig{
			Kind:    "mystem",
			Command: "mystem",
			URL:     "http://localhost:8088/analyze",
			Timeout: 30 * time.Second,
		},
		Converter: ConverterConfig{
			Variant: "mystem",
		},
		Storage: StorageConfig{
			Kind: "dir",
		},
	}
}

// Validate checks that the configuration is consistent.
func (c *Config) Validate() error {
	switch c.Analyzer.Kind {
	case "mystem":
		if c.Analyzer.Command == "" {
			return fmt.Errorf("analyzer.command is required for kind mystem")
		}
	case "pymorphy":
		if c.Analyzer.URL == "" {
			return fmt.Errorf("analyzer.url is required for kind pymorphy")
		}
	default:
		return fmt.Errorf("unknown analyzer.kind: %q", c.Analyzer.Kind)
	}

	switch c.Converter.Variant {
	case "mystem", "opencorpora":
	default:
		return fmt.Errorf("unknown converter.variant: %q", c.Converter.Variant)
	}

	switch c.Storage.Kind {
	case "dir", "file":
	default:
		return fmt.Errorf("unknown storage.kind: %q", c.Storage.Kind)
	}

	if c.Dataset.Workers < 1 {
		return fmt.Errorf("dataset.workers must be at least 1")
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file. Missing fields keep
// the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
