// Package config provides configuration management for the journal CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"tradelog/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`
}

// StorageConfig holds trade store configuration.
type StorageConfig struct {
	Path string `mapstructure:"path"` // sqlite database file
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	File  bool   `mapstructure:"file"`  // also log to rotating file
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradelog"
	}
	return filepath.Join(home, ".config", "tradelog")
}

// Load loads configuration from the specified directory. If configDir is
// empty, uses the default config directory. A template config file is
// written on first run.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("storage.path", filepath.Join(configDir, "tradelog.db"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", true)
	v.SetDefault("ui.color_enabled", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := writeTemplate(configDir); werr != nil {
				return nil, fmt.Errorf("creating config template: %w", werr)
			}
		} else {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.Wrapf(errors.ErrConfigInvalid, "unknown logging level %q", c.Logging.Level)
	}
	if c.Storage.Path == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "storage.path must not be empty")
	}
	return nil
}

const configTemplate = `# tradelog configuration

[storage]
# path = "~/.config/tradelog/tradelog.db"

[logging]
level = "info"
file = true

[ui]
color_enabled = true
`

func writeTemplate(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}
