package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultFormat != "markdown" {
		t.Errorf("Expected DefaultFormat to be markdown, got %q", cfg.DefaultFormat)
	}
	if cfg.WrapWidth != 100 {
		t.Errorf("Expected WrapWidth to be 100, got %d", cfg.WrapWidth)
	}
	if cfg.HistorySize != 1000 {
		t.Errorf("Expected HistorySize to be 1000, got %d", cfg.HistorySize)
	}
	if cfg.Prompt != "mdq> " {
		t.Errorf("Expected Prompt to be 'mdq> ', got %q", cfg.Prompt)
	}
	if !cfg.Suggestions {
		t.Error("Expected Suggestions to be enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "invalid format",
			config: &Config{
				DefaultFormat: "xml",
				WrapWidth:     100,
				HistorySize:   1000,
				Prompt:        "mdq> ",
			},
			wantErr: true,
		},
		{
			name: "negative wrap width",
			config: &Config{
				DefaultFormat: "json",
				WrapWidth:     -10,
				HistorySize:   1000,
				Prompt:        "mdq> ",
			},
			wantErr: true,
		},
		{
			name: "zero history size",
			config: &Config{
				DefaultFormat: "plain",
				WrapWidth:     80,
				HistorySize:   0,
				Prompt:        "mdq> ",
			},
			wantErr: true,
		},
		{
			name: "empty prompt",
			config: &Config{
				DefaultFormat: "markdown",
				WrapWidth:     80,
				HistorySize:   100,
				Prompt:        "",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	// Create a temporary directory for test config
	tmpDir := t.TempDir()
	testConfigPath := filepath.Join(tmpDir, "config.json")

	// Override ConfigPath for testing
	originalConfigPath := ConfigPath
	ConfigPath = func() string {
		return testConfigPath
	}
	defer func() {
		ConfigPath = originalConfigPath
	}()

	testCfg := &Config{
		DefaultFormat: "json",
		WrapWidth:     80,
		HistorySize:   200,
		Prompt:        ">> ",
		Suggestions:   false,
	}

	if err := testCfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(testConfigPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedCfg.DefaultFormat != "json" {
		t.Errorf("DefaultFormat mismatch: got %q, want json", loadedCfg.DefaultFormat)
	}
	if loadedCfg.WrapWidth != 80 {
		t.Errorf("WrapWidth mismatch: got %d, want 80", loadedCfg.WrapWidth)
	}
	if loadedCfg.Prompt != ">> " {
		t.Errorf("Prompt mismatch: got %q, want '>> '", loadedCfg.Prompt)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	tmpDir := t.TempDir()
	testConfigPath := filepath.Join(tmpDir, "nonexistent.json")

	originalConfigPath := ConfigPath
	ConfigPath = func() string {
		return testConfigPath
	}
	defer func() {
		ConfigPath = originalConfigPath
	}()

	// Load should return default config when file doesn't exist
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}

	if cfg.DefaultFormat != "markdown" {
		t.Errorf("Expected default format markdown, got %q", cfg.DefaultFormat)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	testConfigPath := filepath.Join(tmpDir, "config.json")

	originalConfigPath := ConfigPath
	ConfigPath = func() string {
		return testConfigPath
	}
	defer func() {
		ConfigPath = originalConfigPath
	}()

	partial := `{"default_format": "plain", "wrap_width": 100, "history_size": 1000, "prompt": "mdq> "}`
	if err := os.WriteFile(testConfigPath, []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DefaultFormat != "plain" {
		t.Errorf("Expected format plain, got %q", cfg.DefaultFormat)
	}
	if cfg.HistorySize != 1000 {
		t.Errorf("Expected default history size, got %d", cfg.HistorySize)
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		contains string // The output should contain this
	}{
		{
			name:     "tilde expansion",
			input:    "~/mdq.log",
			contains: homeDir,
		},
		{
			name:     "absolute path",
			input:    "/tmp/mdq.log",
			contains: "/tmp/mdq.log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := expandPath(tt.input)
			if err != nil {
				t.Fatalf("expandPath() error = %v", err)
			}
			if !strings.Contains(result, tt.contains) {
				t.Errorf("expandPath(%q) = %q, want it to contain %q", tt.input, result, tt.contains)
			}
		})
	}
}
