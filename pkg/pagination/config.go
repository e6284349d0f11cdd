// Package pagination provides page arithmetic and page-size configuration
// for in-memory record views.
package pagination

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Config holds page size settings: the default size for a fresh view,
// the upper bound for any requested size, and the selectable sizes offered to clients.
type Config struct {
	DefaultPageSize int   `toml:"default_page_size" json:"default_page_size"`
	MaxPageSize     int   `toml:"max_page_size" json:"max_page_size"`
	PageSizes       []int `toml:"page_sizes" json:"page_sizes"`
}

// ConfigEnv maps environment variable names for pagination configuration.
type ConfigEnv struct {
	DefaultPageSize string
	MaxPageSize     string
	PageSizes       string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.DefaultPageSize != 0 {
		c.DefaultPageSize = overlay.DefaultPageSize
	}
	if overlay.MaxPageSize != 0 {
		c.MaxPageSize = overlay.MaxPageSize
	}
	if len(overlay.PageSizes) > 0 {
		c.PageSizes = overlay.PageSizes
	}
}

// ClampSize bounds a requested page size to [1, MaxPageSize].
// Non-positive sizes fall back to DefaultPageSize.
func (c Config) ClampSize(size int) int {
	if size < 1 {
		return c.DefaultPageSize
	}
	if c.MaxPageSize > 0 && size > c.MaxPageSize {
		return c.MaxPageSize
	}
	return size
}

func (c *Config) loadDefaults() {
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = 10
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = 100
	}
	if len(c.PageSizes) == 0 {
		c.PageSizes = []int{5, 10, 20, 50, 100}
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if env.DefaultPageSize != "" {
		if v := os.Getenv(env.DefaultPageSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.DefaultPageSize = n
			}
		}
	}
	if env.MaxPageSize != "" {
		if v := os.Getenv(env.MaxPageSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxPageSize = n
			}
		}
	}
	if env.PageSizes != "" {
		if v := os.Getenv(env.PageSizes); v != "" {
			sizes := make([]int, 0)
			for part := range strings.SplitSeq(v, ",") {
				if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
					sizes = append(sizes, n)
				}
			}
			if len(sizes) > 0 {
				c.PageSizes = sizes
			}
		}
	}
}

func (c *Config) validate() error {
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("default_page_size must be positive")
	}
	if c.MaxPageSize < 1 {
		return fmt.Errorf("max_page_size must be positive")
	}
	if c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("default_page_size cannot exceed max_page_size")
	}
	for _, size := range c.PageSizes {
		if size < 1 || size > c.MaxPageSize {
			return fmt.Errorf("page_sizes entry %d outside [1, %d]", size, c.MaxPageSize)
		}
	}
	if !slices.IsSorted(c.PageSizes) {
		return fmt.Errorf("page_sizes must be ascending")
	}
	return nil
}
