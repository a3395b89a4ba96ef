// Package config loads deck CLI configuration from defaults, an optional
// config file, DECK_* environment variables and command-line flags.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Output   OutputConfig   `mapstructure:"output"`
}

// DatabaseConfig holds the deck database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics export configuration.
type MetricsConfig struct {
	// File is a node-exporter textfile written after each command.
	// Empty disables the export.
	File string `mapstructure:"file"`
}

// OutputConfig holds CLI output configuration.
type OutputConfig struct {
	Format string `mapstructure:"format"` // "text" | "json"
}

// FlagKeys maps command-line flag names to config keys.
var FlagKeys = map[string]string{
	"db":           "database.path",
	"format":       "output.format",
	"metrics-file": "metrics.file",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// ValidFormats lists the accepted output and log formats.
var ValidFormats = []string{"text", "json"}

// LoadConfig loads configuration from file, environment and flags.
// Precedence, highest first: changed flags, DECK_* env, config file, defaults.
// flags may be nil; flags absent from the set are skipped.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("database.path", "deck.db")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.file", "")
	v.SetDefault("output.format", "text")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("DECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if !slices.Contains(ValidFormats, c.Output.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Output.Format, ValidFormats)
	}
	if !slices.Contains(ValidFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("invalid log format %q: must be one of %v", c.Log.Format, ValidFormats)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// SetupLogger creates a logger with the configured level and format.
// verbose forces debug level.
func SetupLogger(cfg *Config, w io.Writer, verbose bool) *slog.Logger {
	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelWarn
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s)
	}
}
