package config

import (
	"os/user"
	"path/filepath"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Default: defaultDatabasePath()},
		Search:   SearchConfig{DefaultLimit: 20},
		Actor:    ActorConfig{ID: defaultActorID(), Role: "writer"},
	}
}

func defaultDatabasePath() string {
	dataDir, err := DataDir()
	if err != nil {
		return "fernwiki.db"
	}
	return filepath.Join(dataDir, "fernwiki.db")
}

func defaultActorID() string {
	u, err := user.Current()
	if err != nil {
		return "local"
	}
	return u.Username
}
