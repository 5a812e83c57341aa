package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/pdxmph/todo-tui/internal/db"
	"github.com/pdxmph/todo-tui/internal/todo"
)

// EnvDatabasePath overrides the database path when set
const EnvDatabasePath = "TODO_TUI_DB"

// Config holds the application configuration
type Config struct {
	Database DatabaseConfig `toml:"database" yaml:"database"`
	Storage  StorageConfig  `toml:"storage" yaml:"storage"`
	UI       UIConfig       `toml:"ui" yaml:"ui"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path     string `toml:"path" yaml:"path"`
	MaxBytes int64  `toml:"max_bytes" yaml:"max_bytes"`
}

// StorageConfig selects the backend and the entry names it stores
type StorageConfig struct {
	// Backend is "sqlite", "memory", or empty to pick automatically
	Backend   string `toml:"backend" yaml:"backend"`
	TasksKey  string `toml:"tasks_key" yaml:"tasks_key"`
	FilterKey string `toml:"filter_key" yaml:"filter_key"`
	ThemeKey  string `toml:"theme_key" yaml:"theme_key"`
}

// UIConfig holds terminal UI preferences
type UIConfig struct {
	// Theme is used until the user toggles it; the toggle is persisted
	Theme string `toml:"theme" yaml:"theme"`
}

// Default returns the default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	keys := todo.DefaultKeys()
	return &Config{
		Database: DatabaseConfig{
			Path:     filepath.Join(homeDir, ".config", "todo-tui", "todo.db"),
			MaxBytes: db.DefaultMaxBytes,
		},
		Storage: StorageConfig{
			TasksKey:  keys.Tasks,
			FilterKey: keys.Filter,
			ThemeKey:  keys.Theme,
		},
		UI: UIConfig{
			Theme: string(todo.ThemeDark),
		},
	}
}

// Path returns the standard config file location
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(homeDir, ".config", "todo-tui", "config.toml"), nil
}

// Load loads configuration from the standard location
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads configuration from a specific path
func LoadFrom(configPath string) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// No config file, use defaults
		cfg.applyEnv()
		return cfg, nil
	}

	// Read and parse config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand home directory in paths
	if cfg.Database.Path != "" {
		cfg.Database.Path = expandPath(cfg.Database.Path)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv lets the environment override file settings
func (c *Config) applyEnv() {
	if p := os.Getenv(EnvDatabasePath); p != "" {
		c.Database.Path = expandPath(p)
	}
}

// Validate checks values that would otherwise fail later and less clearly
func (c *Config) Validate() error {
	if c.Database.MaxBytes < 0 {
		return fmt.Errorf("database.max_bytes must not be negative")
	}
	switch todo.Theme(c.UI.Theme) {
	case todo.ThemeDark, todo.ThemeLight, "":
	default:
		return fmt.Errorf("ui.theme must be %q or %q, got %q", todo.ThemeDark, todo.ThemeLight, c.UI.Theme)
	}
	keys := c.Keys()
	if keys.Tasks == keys.Filter || keys.Tasks == keys.Theme || keys.Filter == keys.Theme {
		return fmt.Errorf("storage keys must be distinct")
	}
	return nil
}

// Keys returns the storage entry names, falling back to the defaults
func (c *Config) Keys() todo.Keys {
	def := todo.DefaultKeys()
	keys := todo.Keys{
		Tasks:  c.Storage.TasksKey,
		Filter: c.Storage.FilterKey,
		Theme:  c.Storage.ThemeKey,
	}
	if keys.Tasks == "" {
		keys.Tasks = def.Tasks
	}
	if keys.Filter == "" {
		keys.Filter = def.Filter
	}
	if keys.Theme == "" {
		keys.Theme = def.Theme
	}
	return keys
}

// Theme returns the configured default theme
func (c *Config) Theme() todo.Theme {
	if c.UI.Theme == "" {
		return todo.ThemeDark
	}
	return todo.Theme(c.UI.Theme)
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves the configuration to the standard location
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}
