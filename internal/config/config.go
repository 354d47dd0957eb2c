// Package config loads project configuration from .treegrep.yaml at the
// project root. A missing file is not an error; every field has a default.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the per-project configuration file.
const FileName = ".treegrep.yaml"

// Config is the full project configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Search  SearchConfig  `yaml:"search"`
	Hints   HintsConfig   `yaml:"hints"`
}

// LoggingConfig controls the log handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// SearchConfig holds the defaults applied to every search.
type SearchConfig struct {
	WholeWord   bool     `yaml:"whole_word"`
	EscapeAware bool     `yaml:"escape_aware"`
	MaxResults  int      `yaml:"max_results"`
	Workers     int      `yaml:"workers"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
}

// HintsConfig holds inline-hint defaults for fresh projects.
type HintsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Search: SearchConfig{
			WholeWord:  true,
			MaxResults: 1000,
			Workers:    8,
			Exclude:    []string{".git", "node_modules", "vendor", ".treegrep"},
		},
		Hints: HintsConfig{Enabled: true},
	}
}

// Load reads the project's configuration file, layering it over the
// defaults. A missing file yields the defaults.
func Load(projectRoot string) (Config, error) {
	cfg := Default()

	path := filepath.Join(projectRoot, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("search.max_results must be >= 0")
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("search.workers must be >= 1")
	}
	return nil
}
