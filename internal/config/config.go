// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Resume      string `json:"resume,omitempty"`       // Path to resume JSON file
	Template    string `json:"template,omitempty"`     // Path to .docx resume template
	OutputDir   string `json:"output_dir,omitempty"`   // Directory for generated artifacts
	Credentials string `json:"credentials,omitempty"`  // Path to OAuth client credentials JSON
	TokenPath   string `json:"token_path,omitempty"`   // Path to the cached OAuth token

	// Fetching
	Query      string `json:"query,omitempty"`       // Extra Gmail search query terms
	DaysBack   int    `json:"days_back,omitempty"`   // How many days of mail to fetch
	MaxResults int    `json:"max_results,omitempty"` // Cap on fetched messages

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information

	// Sending
	DryRun     bool   `json:"dry_run,omitempty"`     // Build drafts but never send
	OverrideTo string `json:"override_to,omitempty"` // Redirect all outgoing mail to this address
	FromName   string `json:"from_name,omitempty"`   // Display name on outgoing mail
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

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.DaysBack < 0 {
		return fmt.Errorf("config error: 'days_back' must be non-negative")
	}
	if c.MaxResults < 0 {
		return fmt.Errorf("config error: 'max_results' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}
	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}
	if c.Credentials != "" {
		if _, err := os.Stat(c.Credentials); os.IsNotExist(err) {
			return fmt.Errorf("config error: credentials file not found: %s", c.Credentials)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.Credentials == "" {
		result.Credentials = defaults.Credentials
	}
	if result.TokenPath == "" {
		result.TokenPath = defaults.TokenPath
	}
	if result.Query == "" {
		result.Query = defaults.Query
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.OverrideTo == "" {
		result.OverrideTo = defaults.OverrideTo
	}
	if result.FromName == "" {
		result.FromName = defaults.FromName
	}

	// Int fields: use default if zero
	if result.DaysBack == 0 {
		if defaults.DaysBack > 0 {
			result.DaysBack = defaults.DaysBack
		} else {
			result.DaysBack = 7
		}
	}
	if result.MaxResults == 0 {
		result.MaxResults = defaults.MaxResults
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
