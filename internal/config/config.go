// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/ronaldsalkes/cvmaster/internal/store"
)

// Config is the CLI configuration, loadable from a JSON file. All fields are
// optional; missing values fall back to defaults or CLI flags.
type Config struct {
	// StoragePath is the draft slot file.
	StoragePath string `json:"storage_path,omitempty"`

	// CollaboratorURL is the optimization endpoint the wizard posts the
	// draft to.
	CollaboratorURL string `json:"collaborator_url,omitempty" validate:"omitempty,url"`

	// CollaboratorToken is the bearer token sent to the collaborator.
	CollaboratorToken string `json:"collaborator_token,omitempty"`

	// AutosaveWindowMS is the autosave quiet window in milliseconds.
	AutosaveWindowMS int `json:"autosave_window_ms,omitempty" validate:"min=0"`

	// Model overrides the LLM model used by the serve command.
	Model string `json:"model,omitempty"`

	// Port is the serve command's listen port.
	Port int `json:"port,omitempty" validate:"min=0,max=65535"`

	// Verbose enables debug logging.
	Verbose bool `json:"verbose,omitempty"`
}

// DefaultAutosaveWindowMS is the quiet window used when nothing overrides
// it. The value is deliberately single-sourced: every autosave site uses
// this window.
const DefaultAutosaveWindowMS = 500

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		StoragePath:      store.DefaultPath(),
		AutosaveWindowMS: DefaultAutosaveWindowMS,
		Port:             8080,
	}
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
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

// Validate checks field values and ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults fills empty fields from defaults and returns the result.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.StoragePath == "" {
		result.StoragePath = defaults.StoragePath
	}
	if result.CollaboratorURL == "" {
		result.CollaboratorURL = defaults.CollaboratorURL
	}
	if result.CollaboratorToken == "" {
		result.CollaboratorToken = defaults.CollaboratorToken
	}
	if result.AutosaveWindowMS == 0 {
		result.AutosaveWindowMS = defaults.AutosaveWindowMS
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if defaults.Verbose {
		result.Verbose = true
	}
	return result
}

// APIKey reads the LLM API key from the environment. Empty means the serve
// command falls back to the stub engine.
func APIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

// JWTSecret reads the shared secret used to verify identity-provider tokens.
func JWTSecret() string {
	return os.Getenv("JWT_SECRET")
}
