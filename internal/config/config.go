// Package config loads spendcast settings from the TOML config file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment variables read once at startup.
const (
	EnvAPIURL   = "PREDICTION_API_URL"
	EnvLogLevel = "SPENDCAST_LOG_LEVEL"
)

// Config holds all spendcast configuration.
type Config struct {
	API        APIConfig        `toml:"api"`
	Form       FormConfig       `toml:"form"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// APIConfig points at the prediction service.
type APIConfig struct {
	BaseURL           string `toml:"base_url" default:"http://localhost:5000" validate:"required,http_url"`
	RequestTimeoutSec int    `toml:"request_timeout_sec" validate:"gte=0"` // 0 = no timeout
	PredictPerHour    int    `toml:"predict_per_hour" validate:"gte=0"` // 0 = no local budget
}

// FormConfig controls the input form.
type FormConfig struct {
	Months int `toml:"months" default:"3" validate:"min=1,max=12"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" default:"flexoki-dark" validate:"oneof=flexoki-dark tokyo-night terminal"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level string `toml:"level" default:"info" validate:"oneof=trace debug info warn error disabled"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		// Only reachable with a malformed default tag.
		panic(fmt.Sprintf("config: applying defaults: %v", err))
	}
	return cfg
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spendcast")
}

// StateDir returns the XDG-compliant state directory (logs live here).
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "spendcast")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LogPath returns the configured log file, or the default under StateDir.
func LogPath(cfg Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(StateDir(), "spendcast.log")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes the config to path, creating its directory.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// LoadDotEnv loads a .env file from the working directory into the process
// environment. Variables already set are left alone. A missing file is not
// an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// ApplyEnv overlays environment overrides onto cfg and returns the names of
// the variables that were applied.
func ApplyEnv(cfg *Config) []string {
	var applied []string
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.API.BaseURL = v
		applied = append(applied, EnvAPIURL)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = strings.ToLower(v)
		applied = append(applied, EnvLogLevel)
	}
	return applied
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and formats.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// ValidateBaseURL checks a single API base URL with the same rule as Validate.
func ValidateBaseURL(s string) error {
	if err := validate.Var(strings.TrimSpace(s), "required,http_url"); err != nil {
		return fmt.Errorf("%q is not an http(s) URL", s)
	}
	return nil
}
