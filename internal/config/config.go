// Package config loads grimoire settings: built-in defaults, then an optional
// YAML file, then GRIMOIRE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Backend names.
const (
	BackendREST     = "rest"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config is the full runtime configuration.
type Config struct {
	Backend  string         `yaml:"backend" env:"BACKEND"`
	REST     RESTConfig     `yaml:"rest" envPrefix:"REST_"`
	SQLite   SQLiteConfig   `yaml:"sqlite" envPrefix:"SQLITE_"`
	Postgres PostgresConfig `yaml:"postgres" envPrefix:"POSTGRES_"`

	// UserID is the static identity used by the local backends when no
	// access token is present.
	UserID string `yaml:"user_id" env:"USER_ID"`

	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	Theme          string        `yaml:"theme" env:"THEME"`
	LogFile        string        `yaml:"log_file" env:"LOG_FILE"`
	MetricsFile    string        `yaml:"metrics_file" env:"METRICS_FILE"`
	PrepPath       string        `yaml:"prep_path" env:"PREP_PATH"`
}

// RESTConfig points at a PostgREST-style endpoint.
type RESTConfig struct {
	URL    string `yaml:"url" env:"URL"`
	APIKey string `yaml:"api_key" env:"API_KEY"`
	Table  string `yaml:"table" env:"TABLE"`
}

// SQLiteConfig is the local database file.
type SQLiteConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

// PostgresConfig is a direct database connection.
type PostgresConfig struct {
	URL string `yaml:"url" env:"URL"`
}

// Dir is ~/.grimoire, where credentials, config and local data live.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".grimoire"), nil
}

// Default returns the built-in settings: a local SQLite store under Dir.
func Default() Config {
	dir, err := Dir()
	if err != nil {
		dir = "."
	}
	return Config{
		Backend:        BackendSQLite,
		REST:           RESTConfig{Table: "progress"},
		SQLite:         SQLiteConfig{Path: filepath.Join(dir, "progress.db")},
		UserID:         "local",
		RequestTimeout: 10 * time.Second,
		Theme:          "classic",
		PrepPath:       filepath.Join(dir, "preparatifs-checked.json"),
	}
}

// Load applies the YAML file at path (missing files are fine when path is
// the default one) and then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		dir, err := Dir()
		if err == nil {
			path = filepath.Join(dir, "config.yaml")
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: "GRIMOIRE_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the backend and its connection settings.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendREST:
		if c.REST.URL == "" {
			return errors.New("config: rest.url is required for the rest backend")
		}
		if c.REST.Table == "" {
			return errors.New("config: rest.table is required for the rest backend")
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return errors.New("config: sqlite.path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return errors.New("config: postgres.url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.RequestTimeout < 0 {
		return errors.New("config: request_timeout must not be negative")
	}
	return nil
}
