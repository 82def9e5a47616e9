// Package config loads LogicTutor configuration from .tutor/config.json
// in the workspace, then applies environment overrides. The API key is
// environment-only and its absence is a fatal startup condition.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMissingAPIKey is returned when no credential is available at
// startup. No conversation is possible without it.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// LoggingConfig controls the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
}

// Config is the process-wide configuration.
type Config struct {
	// APIKey is read from the environment, never from the config file.
	APIKey string `json:"-"`

	Model           string `json:"model,omitempty"`
	BaseURL         string `json:"base_url,omitempty"`
	MaxOutputTokens int    `json:"max_output_tokens,omitempty"`

	// DefaultLevel seeds the session's knowledge level
	// (beginner/intermediate/advanced).
	DefaultLevel string `json:"default_level,omitempty"`

	Logging LoggingConfig `json:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model:        "gemini-2.0-flash",
		DefaultLevel: "beginner",
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads .tutor/config.json from the workspace (missing file is
// fine), then applies environment overrides.
func Load(workspace string) (Config, error) {
	cfg := Default()

	path := filepath.Join(workspace, ".tutor", "config.json")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyEnvOverrides layers environment variables over file values.
func applyEnvOverrides(cfg *Config) {
	cfg.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if v := strings.TrimSpace(os.Getenv("TUTOR_MODEL")); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("TUTOR_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TUTOR_LEVEL")); v != "" {
		cfg.DefaultLevel = strings.ToLower(v)
	}
}

// RequireAPIKey validates the credential is present. Called once at
// startup, before any conversation attempt.
func (c Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
