// Package config provides configuration loading and validation for the scraper CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Default values used when neither the config file, the environment nor a flag sets a field.
const (
	DefaultInputPath      = "inputs/companies.csv"
	DefaultOutputPath     = "out/scraped.json"
	DefaultNameColumn     = "Company Name"
	DefaultURLColumn      = "YC URL"
	DefaultConcurrency    = 1
	DefaultTimeoutSeconds = 30
	DefaultLogLevel       = "info"
)

// Environment variable names read by ApplyEnv.
const (
	EnvInputPath   = "SCRAPER_INPUT_PATH"
	EnvOutputPath  = "SCRAPER_OUTPUT_PATH"
	EnvConcurrency = "SCRAPER_CONCURRENCY"
	EnvDatabaseURL = "DATABASE_URL"
	EnvLogLevel    = "LOG_LEVEL"
)

// Config represents the scraper configuration that can be loaded from a JSON file.
// All fields are optional in the file; missing values use defaults.
type Config struct {
	// Paths
	InputPath  string `json:"input_path,omitempty" validate:"required"`  // CSV file with the targets
	OutputPath string `json:"output_path,omitempty" validate:"required"` // JSON output file

	// CSV columns
	NameColumn string `json:"name_column,omitempty" validate:"required"`
	URLColumn  string `json:"url_column,omitempty" validate:"required"`

	// Fetching
	Concurrency    int    `json:"concurrency,omitempty" validate:"gte=1,lte=64"`      // Simultaneous in-flight fetches
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" validate:"gte=1,lte=600"` // Per-request timeout
	UserAgent      string `json:"user_agent,omitempty"`
	UseBrowser     bool   `json:"use_browser,omitempty"` // Render pages with headless Chrome

	// Behavior
	Verbose        bool   `json:"verbose,omitempty"`
	ValidateOutput bool   `json:"validate_output,omitempty"` // Check the written file against the output schema
	LogLevel       string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	DatabaseURL    string `json:"database_url,omitempty"` // Optional PostgreSQL results store, URL or keyword/value DSN
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		InputPath:      DefaultInputPath,
		OutputPath:     DefaultOutputPath,
		NameColumn:     DefaultNameColumn,
		URLColumn:      DefaultURLColumn,
		Concurrency:    DefaultConcurrency,
		TimeoutSeconds: DefaultTimeoutSeconds,
		LogLevel:       DefaultLogLevel,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.InputPath == "" {
		result.InputPath = defaults.InputPath
	}
	if result.OutputPath == "" {
		result.OutputPath = defaults.OutputPath
	}
	if result.NameColumn == "" {
		result.NameColumn = defaults.NameColumn
	}
	if result.URLColumn == "" {
		result.URLColumn = defaults.URLColumn
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we only turn them on
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Verbose = result.Verbose || defaults.Verbose
	result.ValidateOutput = result.ValidateOutput || defaults.ValidateOutput

	return result
}

// ApplyEnv overlays values from the environment. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvInputPath); ok && v != "" {
		c.InputPath = v
	}
	if v, ok := lookup(EnvOutputPath); ok && v != "" {
		c.OutputPath = v
	}
	if v, ok := lookup(EnvDatabaseURL); ok && v != "" {
		c.DatabaseURL = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer: %w", EnvConcurrency, err)
		}
		c.Concurrency = n
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
