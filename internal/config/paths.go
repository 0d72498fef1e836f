package config

import (
	"os"
	"path/filepath"
)

const appDir = "fernwiki"

// ConfigDir returns the XDG configuration directory for the application.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDir), nil
}

// DataDir returns the XDG data directory for the application.
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appDir), nil
}

// ResolveDatabasePath converts a database name or path to an absolute path.
// "default" or an empty string resolves to the configured default database;
// an absolute path passes through; anything else lands in the data
// directory, gaining a .db extension when it has none.
func ResolveDatabasePath(nameOrPath string) (string, error) {
	if nameOrPath == "" || nameOrPath == "default" {
		cfg, err := Load()
		if err != nil {
			return "", err
		}
		return cfg.Database.Default, nil
	}

	if filepath.IsAbs(nameOrPath) {
		return nameOrPath, nil
	}

	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	if filepath.Ext(nameOrPath) == "" {
		nameOrPath += ".db"
	}

	return filepath.Join(dataDir, nameOrPath), nil
}
