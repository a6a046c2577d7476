// Package config loads zpeople settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zarlcorp/zpeople/internal/store"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendVault  = "vault"
)

// Config is the full zpeople configuration.
type Config struct {
	Backend string     `yaml:"backend"`
	DataDir string     `yaml:"data_dir"`
	Sort    SortConfig `yaml:"sort"`
	Log     LogConfig  `yaml:"log"`
}

// SortConfig is the list order the TUI starts with.
type SortConfig struct {
	Field      string `yaml:"field"`
	Descending bool   `yaml:"descending"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendSQLite,
		DataDir: DataDir(),
		Sort:    SortConfig{Field: string(store.FieldName)},
		Log:     LogConfig{Level: "info"},
	}
}

// DataDir returns the default data directory for zpeople.
func DataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, "zpeople")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zpeople"
	}
	return filepath.Join(home, ".local", "share", "zpeople")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "zpeople", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "zpeople", "config.yaml")
}

// Load reads the config at path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ZPEOPLE_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("ZPEOPLE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks that every setting has a usable value.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendVault:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}

	if c.DataDir == "" {
		return errors.New("config: data_dir is empty")
	}

	if _, err := store.ParseField(c.Sort.Field); err != nil {
		return fmt.Errorf("config: sort: %w", err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}

	return nil
}

// DefaultSort returns the configured list order.
func (c *Config) DefaultSort() store.Sort {
	f, err := store.ParseField(c.Sort.Field)
	if err != nil {
		f = store.FieldName
	}
	return store.Sort{Field: f, Descending: c.Sort.Descending}
}

// SQLitePath is the database file used by the sqlite backend.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "people.db")
}

// VaultDir is the directory used by the vault backend.
func (c *Config) VaultDir() string {
	return filepath.Join(c.DataDir, "vault")
}

// LogPath is where the TUI writes its log.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "zpeople.log")
}
