// Package config defines process configuration for the vendor analysis
// pipeline and its optional sinks.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains process configuration. The zero value is not usable;
// build one with New or Load.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Model is the Gemini model used for all generation calls.
	Model string `koanf:"model"`

	// Temperature is passed to every generation call. The analysis prompts
	// are written for deterministic output, so the default is 0.
	Temperature float64 `koanf:"temperature"`

	// SearchProvider selects the web-search capability. Only "google"
	// (Gemini grounding with Google Search) is recognized.
	SearchProvider string `koanf:"search_provider"`

	// APIKey authenticates the Gemini client. When empty the client falls
	// back to the GEMINI_API_KEY environment variable.
	APIKey string `koanf:"api_key"`

	// Workers bounds the enrichment worker pool. 1 processes vendors
	// strictly in sequence.
	Workers int `koanf:"workers"`

	// OutputDir is where the results CSV and opportunities file are written.
	OutputDir string `koanf:"output_dir"`

	// CheckpointDir is where per-vendor checkpoint files are written.
	CheckpointDir string `koanf:"checkpoint_dir"`

	// BigQueryProject and BigQueryDataset locate the analysis_runs audit
	// table. Run auditing is disabled when the project is empty.
	BigQueryProject string `koanf:"bigquery_project"`
	BigQueryDataset string `koanf:"bigquery_dataset"`

	// GCSBucket, when set, receives copies of the output artifacts.
	GCSBucket string `koanf:"gcs_bucket"`

	// NotionToken and NotionDatabaseID enable publishing results to a
	// Notion database. Disabled when the token is empty.
	NotionToken      string `koanf:"notion_token"`
	NotionDatabaseID string `koanf:"notion_database_id"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Model:           "gemini-2.5-flash",
		Temperature:     0,
		SearchProvider:  "google",
		Workers:         1,
		OutputDir:       ".",
		CheckpointDir:   ".",
		BigQueryDataset: "vendorscope",
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if VENDORSCOPE_CONFIG is set
//  3. env (prefix VENDORSCOPE_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("VENDORSCOPE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	// Environment variables: VENDORSCOPE_MODEL, VENDORSCOPE_WORKERS, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("VENDORSCOPE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "vendorscope_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Model == "" {
		return errors.New("config: model must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: temperature %v out of range [0, 2]", c.Temperature)
	}
	if c.SearchProvider != "google" {
		return fmt.Errorf("config: unknown search provider %q", c.SearchProvider)
	}
	return nil
}
