package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"absolute untouched", "/var/lib/till.db", "/var/lib/till.db"},
		{"tilde prefix", "~/till.db", filepath.Join(home, "till.db")},
		{"bare tilde", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.input))
		})
	}
}

func TestExpandPathEnvVar(t *testing.T) {
	t.Setenv("TILL_TEST_DIR", "/opt/till")
	assert.Equal(t, "/opt/till/data.db", ExpandPath("$TILL_TEST_DIR/data.db"))
}

func TestConfigDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "till"), ConfigDir())
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.True(t, strings.HasSuffix(DefaultDatabasePath(), "till/till.db"))
	assert.True(t, strings.HasSuffix(DefaultBackupsDir(), "till/backups"))
}
