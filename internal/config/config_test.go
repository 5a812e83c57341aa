package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/todo-tui/internal/db"
	"github.com/pdxmph/todo-tui/internal/todo"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvDatabasePath, "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, db.DefaultMaxBytes, cfg.Database.MaxBytes)
	assert.Equal(t, todo.DefaultKeys(), cfg.Keys())
	assert.Equal(t, todo.ThemeDark, cfg.Theme())
}

func TestLoadFromOverrides(t *testing.T) {
	t.Setenv(EnvDatabasePath, "")

	path := writeConfig(t, `
[database]
path = "/tmp/tasks.db"
max_bytes = 1024

[storage]
backend = "memory"
tasks_key = "todos"

[ui]
theme = "light"
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tasks.db", cfg.Database.Path)
	assert.Equal(t, int64(1024), cfg.Database.MaxBytes)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, todo.Keys{Tasks: "todos", Filter: "filter", Theme: "theme"}, cfg.Keys())
	assert.Equal(t, todo.ThemeLight, cfg.Theme())
}

func TestLoadFromExpandsHome(t *testing.T) {
	t.Setenv(EnvDatabasePath, "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := LoadFrom(writeConfig(t, "[database]\npath = \"~/notes/todo.db\"\n"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "notes", "todo.db"), cfg.Database.Path)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv(EnvDatabasePath, "/srv/todo.db")

	cfg, err := LoadFrom(writeConfig(t, "[database]\npath = \"/tmp/ignored.db\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/todo.db", cfg.Database.Path)

	cfg, err = LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/todo.db", cfg.Database.Path)
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	t.Setenv(EnvDatabasePath, "")

	tests := []struct {
		name string
		body string
	}{
		{"bad toml", "[database\npath = 1"},
		{"negative quota", "[database]\nmax_bytes = -1\n"},
		{"unknown theme", "[ui]\ntheme = \"solarized\"\n"},
		{"shared keys", "[storage]\ntasks_key = \"state\"\nfilter_key = \"state\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	t.Setenv(EnvDatabasePath, "")

	cfg := Default()
	cfg.Database.Path = "/data/todo.db"
	cfg.Storage.Backend = "sqlite"
	cfg.UI.Theme = string(todo.ThemeLight)

	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
