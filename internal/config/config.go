// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (FERRET_* prefix, runtime override)
//  2. Config file (~/.ferret/config.yaml or ./config.yaml)
//  3. Default values
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidBaseDir indicates the base directory does not exist or is not a directory.
	ErrInvalidBaseDir = errors.New("invalid base directory")

	// ErrInvalidLogLevel indicates the log level is not one of debug/info/warn/error.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidMaxReadSize indicates the read size cap is out of range.
	ErrInvalidMaxReadSize = errors.New("invalid max read size")

	// ErrInvalidWatchCapacity indicates the change ring capacity is out of range.
	ErrInvalidWatchCapacity = errors.New("invalid watch capacity")
)

const (
	// DefaultMaxReadSize caps how many bytes a single read or content scan
	// may load into memory (10 MiB).
	DefaultMaxReadSize int64 = 10 * 1024 * 1024

	// DefaultWatchCapacity is the number of change records retained.
	DefaultWatchCapacity = 100
)

// Config stores application configuration.
type Config struct {
	// BaseDir is the sandbox root. Every path a tool accepts must resolve
	// to a location at or under it. Defaults to the working directory.
	BaseDir string `mapstructure:"base_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// LogJSON switches log output from text to JSON.
	LogJSON bool `mapstructure:"log_json"`

	// MaxReadSize caps file reads and content scans, in bytes.
	MaxReadSize int64 `mapstructure:"max_read_size"`

	// Watch enables the filesystem change notifier.
	Watch bool `mapstructure:"watch"`

	// WatchCapacity is the change ring size (oldest records evicted first).
	WatchCapacity int `mapstructure:"watch_capacity"`
}

// Load reads configuration from defaults, an optional config file, and
// FERRET_* environment variables, in ascending priority. The returned
// config is validated; callers can rely on every field being usable.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("base_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("max_read_size", DefaultMaxReadSize)
	v.SetDefault("watch", true)
	v.SetDefault("watch_capacity", DefaultWatchCapacity)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".ferret"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("FERRET")
	for _, key := range []string{"base_dir", "log_level", "log_json", "max_read_size", "watch", "watch_capacity"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine; defaults and env cover everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		cfg.BaseDir = wd
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	info, err := os.Stat(c.BaseDir)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidBaseDir, c.BaseDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidBaseDir, c.BaseDir)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: must be debug, info, warn or error, got %q", ErrInvalidLogLevel, c.LogLevel)
	}

	if c.MaxReadSize < 1 {
		return fmt.Errorf("%w: must be positive, got %d", ErrInvalidMaxReadSize, c.MaxReadSize)
	}

	if c.WatchCapacity < 1 {
		return fmt.Errorf("%w: must be positive, got %d", ErrInvalidWatchCapacity, c.WatchCapacity)
	}

	return nil
}

// SlogLevel maps the configured log level string to a slog.Level.
// Call Validate first; unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
