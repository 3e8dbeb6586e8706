package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.API.BaseURL != "http://localhost:5000" {
		t.Fatalf("BaseURL = %q, want http://localhost:5000", cfg.API.BaseURL)
	}
	if cfg.Form.Months != 3 {
		t.Fatalf("Months = %d, want 3", cfg.Form.Months)
	}
	if cfg.API.PredictPerHour != 0 {
		t.Fatalf("PredictPerHour = %d, want 0 (no local budget)", cfg.API.PredictPerHour)
	}
	if cfg.API.RequestTimeoutSec != 0 {
		t.Fatalf("RequestTimeoutSec = %d, want 0", cfg.API.RequestTimeoutSec)
	}
	if cfg.Appearance.Theme != "flexoki-dark" || cfg.Log.Level != "info" {
		t.Fatalf("theme/level = %q/%q", cfg.Appearance.Theme, cfg.Log.Level)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults fail validation: %v", err)
	}
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://predict.internal:8080"
	cfg.API.PredictPerHour = 30
	cfg.Form.Months = 6

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got != cfg {
		t.Fatalf("loaded %+v, want %+v", got, cfg)
	}
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[form]\nmonths = 4\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Form.Months != 4 {
		t.Fatalf("Months = %d, want 4", cfg.Form.Months)
	}
	if cfg.API.BaseURL != "http://localhost:5000" {
		t.Fatalf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
}

func TestLoadFileBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[form\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("err = %v, want parsing error", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIURL, " http://example.test:9000 ")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg := DefaultConfig()
	applied := ApplyEnv(&cfg)
	if cfg.API.BaseURL != "http://example.test:9000" {
		t.Fatalf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Level = %q, want debug", cfg.Log.Level)
	}
	if len(applied) != 2 {
		t.Fatalf("applied = %v, want both variables", applied)
	}
}

func TestApplyEnvUnsetLeavesConfig(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvLogLevel, "")
	cfg := DefaultConfig()
	if applied := ApplyEnv(&cfg); len(applied) != 0 {
		t.Fatalf("applied = %v, want none", applied)
	}
	if cfg != DefaultConfig() {
		t.Fatal("config changed without env overrides")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.API.BaseURL = "not a url" }, "BaseURL"},
		{"zero months", func(c *Config) { c.Form.Months = 0 }, "Months"},
		{"too many months", func(c *Config) { c.Form.Months = 13 }, "Months"},
		{"unknown theme", func(c *Config) { c.Appearance.Theme = "solarized" }, "Theme"},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
		{"negative timeout", func(c *Config) { c.API.RequestTimeoutSec = -1 }, "RequestTimeoutSec"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate accepted bad config")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("err = %v, want mention of %s", err, tt.field)
			}
		})
	}
}

func TestLoadDotEnvMissingFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := LoadDotEnv(); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvAPIURL+"=http://from-dotenv:1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv(EnvAPIURL, "http://from-env:2")

	if err := LoadDotEnv(); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(EnvAPIURL); got != "http://from-env:2" {
		t.Fatalf("%s = %q, want the pre-set value", EnvAPIURL, got)
	}
}

func TestLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	cfg := DefaultConfig()
	if got := LogPath(cfg); got != filepath.Join("/tmp/state", "spendcast", "spendcast.log") {
		t.Fatalf("LogPath = %q", got)
	}
	cfg.Log.File = "/var/log/x.log"
	if got := LogPath(cfg); got != "/var/log/x.log" {
		t.Fatalf("LogPath = %q", got)
	}
}

func TestValidateBaseURL(t *testing.T) {
	for _, ok := range []string{"http://localhost:5000", "https://api.example.com/v1"} {
		if err := ValidateBaseURL(ok); err != nil {
			t.Errorf("ValidateBaseURL(%q) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []string{"", "localhost:5000", "ftp://example.com"} {
		if err := ValidateBaseURL(bad); err == nil {
			t.Errorf("ValidateBaseURL(%q) = nil, want error", bad)
		}
	}
}
