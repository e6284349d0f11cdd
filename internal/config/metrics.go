package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvMetricsEnabled = "TAXON_METRICS_ENABLED"
	EnvMetricsPath    = "TAXON_METRICS_PATH"
)

// MetricsConfig controls the Prometheus scrape endpoint. Enabled is a pointer
// so an explicit false survives defaulting.
type MetricsConfig struct {
	Enabled *bool  `toml:"enabled"`
	Path    string `toml:"path"`
}

// On reports whether the endpoint is served. Call after Finalize.
func (c *MetricsConfig) On() bool {
	return c.Enabled != nil && *c.Enabled
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *MetricsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites set fields from overlay.
func (c *MetricsConfig) Merge(overlay *MetricsConfig) {
	if overlay.Enabled != nil {
		v := *overlay.Enabled
		c.Enabled = &v
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}

func (c *MetricsConfig) loadDefaults() {
	if c.Enabled == nil {
		v := true
		c.Enabled = &v
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
}

func (c *MetricsConfig) loadEnv() {
	if v := os.Getenv(EnvMetricsEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = &b
		}
	}
	if v := os.Getenv(EnvMetricsPath); v != "" {
		c.Path = v
	}
}

func (c *MetricsConfig) validate() error {
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("path must start with /: %q", c.Path)
	}
	return nil
}
