// Package config loads the wiki's TOML configuration from the XDG config
// path, with defaults for anything unset.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Content  ContentConfig  `toml:"content"`
	Search   SearchConfig   `toml:"search"`
	Actor    ActorConfig    `toml:"actor"`
}

// DatabaseConfig holds database-related settings.
type DatabaseConfig struct {
	Default string `toml:"default"` // Default database name or path
}

// ContentConfig holds settings for the markdown file mirror.
type ContentConfig struct {
	Dir string `toml:"dir"` // Mirror root; empty disables mirroring
}

// SearchConfig holds search-related settings.
type SearchConfig struct {
	DefaultLimit int `toml:"default_limit"` // Default number of search results
}

// ActorConfig holds the default identity used when flags are absent.
type ActorConfig struct {
	ID   string `toml:"id"`
	Role string `toml:"role"`
}

// Load reads the configuration from the XDG config path or uses defaults.
func Load() (*Config, error) {
	configPath, err := configFilePath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the XDG config path.
func (cfg *Config) Save() error {
	configPath, err := configFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

func configFilePath() (string, error) {
	if path := os.Getenv("FERNWIKI_CONFIG"); path != "" {
		return path, nil
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.toml"), nil
}
