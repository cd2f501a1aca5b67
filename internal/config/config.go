// Package config provides configuration loading and validation for the
// dispatch service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the service configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via environment variables.
type Config struct {
	// Persistence
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// External backend
	DocstoreURL    string `json:"docstore_url,omitempty"`     // Document store / dispatch API base URL
	DocstoreAPIKey string `json:"docstore_api_key,omitempty"` // Bearer token for the backend

	// Server
	Port     int `json:"port,omitempty"`      // HTTP listen port
	PageSize int `json:"page_size,omitempty"` // Default batch page size

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed dispatch summaries
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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

// FromEnv builds a Config from environment variables.
func FromEnv() *Config {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DocstoreURL:    os.Getenv("DOCSTORE_URL"),
		DocstoreAPIKey: os.Getenv("DOCSTORE_API_KEY"),
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = port
	}
	return cfg
}

// Merge overlays non-zero values from other onto c and returns c.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}
	if other.DatabaseURL != "" {
		c.DatabaseURL = other.DatabaseURL
	}
	if other.DocstoreURL != "" {
		c.DocstoreURL = other.DocstoreURL
	}
	if other.DocstoreAPIKey != "" {
		c.DocstoreAPIKey = other.DocstoreAPIKey
	}
	if other.Port != 0 {
		c.Port = other.Port
	}
	if other.PageSize != 0 {
		c.PageSize = other.PageSize
	}
	if other.Verbose {
		c.Verbose = true
	}
	return c
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}
	if c.DocstoreURL == "" {
		return fmt.Errorf("config error: 'docstore_url' is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.PageSize < 0 {
		return fmt.Errorf("config error: 'page_size' must be non-negative")
	}
	return nil
}
