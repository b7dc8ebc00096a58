// Package config resolves file locations and path expansion for the
// application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ and $VAR style environment variables
// in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// ConfigDir returns the directory holding the config file, database and
// backups. It honors XDG_CONFIG_HOME and falls back to ~/.config/till.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "till")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "till"
	}
	return filepath.Join(home, ".config", "till")
}

// DefaultDatabasePath returns the database location used when none is
// configured.
func DefaultDatabasePath() string {
	return filepath.Join(ConfigDir(), "till.db")
}

// DefaultBackupsDir returns the managed snapshot directory used when
// none is configured.
func DefaultBackupsDir() string {
	return filepath.Join(ConfigDir(), "backups")
}
