// Package config loads the taxon service configuration from TOML files,
// a .env file, and TAXON_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/taxon/internal/classifier"
	"github.com/JaimeStill/taxon/internal/logging"
	"github.com/JaimeStill/taxon/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvTaxonEnv             = "TAXON_ENV"
	EnvTaxonShutdownTimeout = "TAXON_SHUTDOWN_TIMEOUT"
	EnvTaxonVersion         = "TAXON_VERSION"
)

var storageEnv = &storage.Env{
	Provider:         "TAXON_STORAGE_PROVIDER",
	ContainerName:    "TAXON_STORAGE_CONTAINER_NAME",
	ConnectionString: "TAXON_STORAGE_CONNECTION_STRING",
	Prefix:           "TAXON_STORAGE_PREFIX",
}

var classifierEnv = &classifier.Env{
	Provider:    "TAXON_CLASSIFIER_PROVIDER",
	Endpoint:    "TAXON_CLASSIFIER_ENDPOINT",
	BaseURL:     "TAXON_CLASSIFIER_BASE_URL",
	Model:       "TAXON_CLASSIFIER_MODEL",
	Token:       "TAXON_CLASSIFIER_TOKEN",
	Timeout:     "TAXON_CLASSIFIER_TIMEOUT",
	BatchSize:   "TAXON_CLASSIFIER_BATCH_SIZE",
	Concurrency: "TAXON_CLASSIFIER_CONCURRENCY",
	MaxTokens:   "TAXON_CLASSIFIER_MAX_TOKENS",
	Temperature: "TAXON_CLASSIFIER_TEMPERATURE",
	TopP:        "TAXON_CLASSIFIER_TOP_P",
	MockReverse: "TAXON_CLASSIFIER_MOCK_REVERSE",
}

var loggingEnv = &logging.Env{
	Format:     "TAXON_LOG_FORMAT",
	Level:      "TAXON_LOG_LEVEL",
	File:       "TAXON_LOG_FILE",
	MaxSizeMB:  "TAXON_LOG_MAX_SIZE_MB",
	MaxBackups: "TAXON_LOG_MAX_BACKUPS",
	MaxAgeDays: "TAXON_LOG_MAX_AGE_DAYS",
	Compress:   "TAXON_LOG_COMPRESS",
}

// Config is the root configuration for the taxon service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	API             APIConfig         `toml:"api"`
	Storage         storage.Config    `toml:"storage"`
	Classifier      classifier.Config `toml:"classifier"`
	Logging         logging.Config    `toml:"logging"`
	Metrics         MetricsConfig     `toml:"metrics"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the TAXON_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvTaxonEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads .env (if present) into the process environment, then the base
// config at path (config.toml when empty, skipped if absent), applies the
// config.<TAXON_ENV>.toml overlay next to it, and finalizes all values.
// Variables already set in the environment win over .env.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
		}
	}

	explicit := path != ""
	if !explicit {
		path = BaseConfigFile
	}

	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if overlay := overlayPath(filepath.Dir(path)); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Storage.Merge(&overlay.Storage)
	c.Classifier.Merge(&overlay.Classifier)
	c.Logging.Merge(&overlay.Logging)
	c.Metrics.Merge(&overlay.Metrics)
}

// Finalize applies defaults, environment overrides, and validation to every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(serverEnv); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Metrics.Finalize(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvTaxonShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvTaxonVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvTaxonEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
