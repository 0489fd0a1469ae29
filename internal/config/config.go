// Package config loads the client configuration from
// ~/.config/sayonika/config.yaml, with environment overrides for the
// settings that matter when scripting.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Defaults applied when the config file is missing or partial.
const (
	DefaultAPIURL          = "https://sayonika.moe"
	DefaultPollIntervalSec = 30
	DefaultPageSize        = 50
)

// Config is the top-level client configuration.
type Config struct {
	// APIURL is the base URL of the Sayonika API.
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// PollIntervalSec is how often (in seconds) the unread notification
	// count is refreshed in the background.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// PageSize is the number of items fetched per list request.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// Theme selects the UI color theme.
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// DefaultPath returns the default config file path,
// ~/.config/sayonika/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "sayonika", "config.yaml")
}

func defaults() *Config {
	return &Config{
		APIURL:          DefaultAPIURL,
		PollIntervalSec: DefaultPollIntervalSec,
		PageSize:        DefaultPageSize,
		Theme:           "default",
	}
}

// Load reads configuration from the given YAML file path using Viper.
// A missing file yields the defaults. SAYONIKA_API_URL overrides the
// configured API URL when set.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("poll_interval_sec", DefaultPollIntervalSec)
	v.SetDefault("page_size", DefaultPageSize)
	v.SetDefault("theme", "default")

	cfg := defaults()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
		// Missing file: fall through with defaults.
	} else if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if env := os.Getenv("SAYONIKA_API_URL"); env != "" {
		cfg.APIURL = env
	}
	if cfg.PollIntervalSec <= 0 {
		cfg.PollIntervalSec = DefaultPollIntervalSec
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file at path, creating parent
// directories if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api_url", cfg.APIURL)
	v.Set("poll_interval_sec", cfg.PollIntervalSec)
	v.Set("page_size", cfg.PageSize)
	v.Set("theme", cfg.Theme)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
