package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/taxon/pkg/formatting"
	"github.com/JaimeStill/taxon/pkg/middleware"
	"github.com/JaimeStill/taxon/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "TAXON_CORS_ENABLED",
	Origins:          "TAXON_CORS_ORIGINS",
	AllowedMethods:   "TAXON_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "TAXON_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "TAXON_CORS_EXPOSED_HEADERS",
	AllowCredentials: "TAXON_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "TAXON_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "TAXON_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "TAXON_PAGINATION_MAX_PAGE_SIZE",
	PageSizes:       "TAXON_PAGINATION_PAGE_SIZES",
}

// APIConfig holds API routing, CORS, and pagination settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes. Call after Finalize.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxUploadSize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if size, err := formatting.ParseBytes(c.MaxUploadSize); err != nil || size <= 0 {
		return fmt.Errorf("invalid max_upload_size: %q", c.MaxUploadSize)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "20MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("TAXON_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("TAXON_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
