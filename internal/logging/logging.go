// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls log format, level, and the optional rotating log file.
type Config struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Format     string
	Level      string
	File       string
	MaxSizeMB  string
	MaxBackups string
	MaxAgeDays string
	Compress   string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.File != "" {
		c.File = overlay.File
	}
	if overlay.MaxSizeMB > 0 {
		c.MaxSizeMB = overlay.MaxSizeMB
	}
	if overlay.MaxBackups > 0 {
		c.MaxBackups = overlay.MaxBackups
	}
	if overlay.MaxAgeDays > 0 {
		c.MaxAgeDays = overlay.MaxAgeDays
	}
	if overlay.Compress {
		c.Compress = true
	}
}

// SlogLevel returns the parsed level. Call after Finalize.
func (c *Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.Level)
	return l
}

func (c *Config) loadDefaults() {
	if c.Format == "" {
		c.Format = "json"
	}
	if c.Level == "" {
		c.Level = "info"
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 100
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 28
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Format != "" {
		if v := os.Getenv(env.Format); v != "" {
			c.Format = v
		}
	}
	if env.Level != "" {
		if v := os.Getenv(env.Level); v != "" {
			c.Level = v
		}
	}
	if env.File != "" {
		if v := os.Getenv(env.File); v != "" {
			c.File = v
		}
	}
	if env.MaxSizeMB != "" {
		if n, err := strconv.Atoi(os.Getenv(env.MaxSizeMB)); err == nil {
			c.MaxSizeMB = n
		}
	}
	if env.MaxBackups != "" {
		if n, err := strconv.Atoi(os.Getenv(env.MaxBackups)); err == nil {
			c.MaxBackups = n
		}
	}
	if env.MaxAgeDays != "" {
		if n, err := strconv.Atoi(os.Getenv(env.MaxAgeDays)); err == nil {
			c.MaxAgeDays = n
		}
	}
	if env.Compress != "" {
		if b, err := strconv.ParseBool(os.Getenv(env.Compress)); err == nil {
			c.Compress = b
		}
	}
}

func (c *Config) validate() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("format must be one of: json, text")
	}

	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	if _, err := parseLevel(c.Level); err != nil {
		return err
	}

	if c.MaxSizeMB < 1 {
		return fmt.Errorf("max_size_mb must be positive")
	}
	return nil
}

// New creates a logger writing to w, and additionally to a rotating file when
// cfg.File is set. The returned closer releases the file; it is a no-op otherwise.
func New(cfg Config, w io.Writer, command string) (*slog.Logger, io.Closer) {
	if w == nil {
		w = os.Stdout
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		w = io.MultiWriter(w, lj)
		closer = lj
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	command = strings.TrimSpace(command)
	if command == "" {
		command = "taxon"
	}
	return slog.New(handler).With("app", "taxon", "command", command), closer
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func parseLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("level must be one of: debug, info, warn, error")
	}
}
