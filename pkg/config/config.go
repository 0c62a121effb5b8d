// Package config loads the kit's configuration from an optional YAML file
// and the environment. Environment variables win over file values so
// credentials never need to live on disk in plain YAML.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Strava  StravaConfig  `yaml:"strava"`
	Hevy    HevyConfig    `yaml:"hevy"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// StravaConfig configures the running activity provider.
type StravaConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// HevyConfig configures the gym-logging provider.
type HevyConfig struct {
	APIKey string `yaml:"api_key"`
}

// StorageConfig configures durable token and cache storage.
type StorageConfig struct {
	// Dir is where token and cache files live. Defaults to
	// $HOME/.fitness-provider-kit.
	Dir string `yaml:"dir"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// Environment variable names. Each overrides the corresponding file value.
const (
	EnvStravaClientID     = "STRAVA_CLIENT_ID"
	EnvStravaClientSecret = "STRAVA_CLIENT_SECRET"
	EnvStravaRedirectURL  = "STRAVA_REDIRECT_URL"
	EnvHevyAPIKey         = "HEVY_API_KEY"
	EnvStorageDir         = "FITKIT_STORAGE_DIR"
	EnvLogLevel           = "FITKIT_LOG_LEVEL"
)

// Load reads configuration from path and the environment. An empty path or a
// missing file is fine; env values still apply. A .env file in the working
// directory is loaded first if present.
func Load(path string) (*Config, error) {
	// Best effort: absent .env files are the normal case.
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvStravaClientID); v != "" {
		cfg.Strava.ClientID = v
	}
	if v := os.Getenv(EnvStravaClientSecret); v != "" {
		cfg.Strava.ClientSecret = v
	}
	if v := os.Getenv(EnvStravaRedirectURL); v != "" {
		cfg.Strava.RedirectURL = v
	}
	if v := os.Getenv(EnvHevyAPIKey); v != "" {
		cfg.Hevy.APIKey = v
	}
	if v := os.Getenv(EnvStorageDir); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Dir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.Storage.Dir = home + "/.fitness-provider-kit"
		}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}
