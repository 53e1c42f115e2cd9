package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Fixtures FixturesConfig `yaml:"fixtures"`
	Renewal  RenewalConfig  `yaml:"renewal"`
	Search   SearchConfig   `yaml:"search"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port            string        `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	Mode            string        `yaml:"mode"             env:"SERVER_MODE"             env-default:"debug"` // debug/release/test
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig represents the optional SQLite mirror of the stores
type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled" env:"DATABASE_ENABLED"`
	Type    string `yaml:"type"    env:"DATABASE_TYPE"    env-default:"sqlite"`
	Path    string `yaml:"path"    env:"DATABASE_PATH"    env-default:"data/portfolio.db"`
}

// FixturesConfig points at an external seed file; empty uses the built-in seed
type FixturesConfig struct {
	Path string `yaml:"path" env:"FIXTURES_PATH"`
}

// RenewalConfig represents the auto-renew sweep
type RenewalConfig struct {
	Enabled       bool   `yaml:"enabled"        env:"RENEWAL_ENABLED"`
	CheckInterval string `yaml:"check_interval" env:"RENEWAL_CHECK_INTERVAL" env-default:"0 3 * * *"` // Cron expression
	WindowDays    int    `yaml:"window_days"    env:"RENEWAL_WINDOW_DAYS"    env-default:"30"`
}

// SearchConfig represents the simulated availability search
type SearchConfig struct {
	Delay      time.Duration `yaml:"delay"      env:"SEARCH_DELAY"      env-default:"1500ms"`
	Extensions []string      `yaml:"extensions" env:"SEARCH_EXTENSIONS" env-separator:","`
}

// AuthConfig represents password handling. Without an initial password
// every password change is accepted.
type AuthConfig struct {
	InitialPassword string `yaml:"initial_password" env:"AUTH_INITIAL_PASSWORD"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"` // json/text
}

// LoadConfig loads configuration from a YAML file and the environment.
// A missing file falls back to environment variables and defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			return &cfg, cfg.Validate()
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, cfg.Validate()
}

// Validate checks values the loaders cannot
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode: unsupported mode %q", c.Server.Mode)
	}

	if c.Database.Enabled && c.Database.Type != "sqlite" {
		return fmt.Errorf("database.type: unsupported database type %q", c.Database.Type)
	}

	if c.Renewal.WindowDays <= 0 {
		return fmt.Errorf("renewal.window_days: must be positive, got %d", c.Renewal.WindowDays)
	}
	if _, err := cron.ParseStandard(c.Renewal.CheckInterval); err != nil {
		return fmt.Errorf("renewal.check_interval: %w", err)
	}

	if c.Search.Delay < 0 {
		return fmt.Errorf("search.delay: must not be negative")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format: unsupported format %q", c.Log.Format)
	}

	return nil
}
