package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Config represents the mdq configuration
type Config struct {
	DefaultFormat string `json:"default_format"`
	WrapWidth     int    `json:"wrap_width"`
	HistorySize   int    `json:"history_size"`
	LogFile       string `json:"log_file,omitempty"`
	Prompt        string `json:"prompt"`
	Suggestions   bool   `json:"suggestions"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultFormat: "markdown",
		WrapWidth:     100,
		HistorySize:   1000,
		Prompt:        "mdq> ",
		Suggestions:   true,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "mdq", "config.json")
	}
	return filepath.Join(home, ".config", "mdq", "config.json")
}

// HistoryPath returns the path to the REPL history file
// Uses platform-specific XDG data directory
// Can be overridden for testing
var HistoryPath = func() string {
	return filepath.Join(xdg.DataHome, "mdq", "history.json")
}

// Load reads configuration from the XDG config directory
func Load() (*Config, error) {
	configPath := ConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.LogFile != "" {
		expanded, err := expandPath(cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to expand log_file: %w", err)
		}
		cfg.LogFile = expanded
	}

	return cfg, nil
}

// Save writes configuration to the XDG config directory
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		"md":       true,
		"markdown": true,
		"json":     true,
		"plain":    true,
		"yaml":     true,
	}
	if !validFormats[c.DefaultFormat] {
		return fmt.Errorf("invalid default_format '%s': must be one of: markdown, json, plain, yaml", c.DefaultFormat)
	}
	if c.WrapWidth < 0 {
		return fmt.Errorf("wrap_width cannot be negative")
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("history_size must be positive")
	}
	if c.Prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
