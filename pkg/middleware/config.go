package middleware

import (
	"os"
	"strconv"
	"strings"
)

// CORSConfig holds the cross-origin policy of the API.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	ExposedHeaders   []string `toml:"exposed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv maps CORS fields to environment variable names.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	ExposedHeaders   string
	AllowCredentials string
	MaxAge           string
}

// Finalize applies defaults and environment variable overrides.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites fields from overlay. Booleans always apply; lists and
// MaxAge only when set.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials

	for _, p := range []struct{ dst, src *[]string }{
		{&c.Origins, &overlay.Origins},
		{&c.AllowedMethods, &overlay.AllowedMethods},
		{&c.AllowedHeaders, &overlay.AllowedHeaders},
		{&c.ExposedHeaders, &overlay.ExposedHeaders},
	} {
		if *p.src != nil {
			*p.dst = *p.src
		}
	}
	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *CORSConfig) loadDefaults() {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization", RequestIDHeader}
	}
	if len(c.ExposedHeaders) == 0 {
		c.ExposedHeaders = []string{"Content-Disposition", RequestIDHeader}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}
}

func (c *CORSConfig) loadEnv(env *CORSEnv) {
	flag := func(name string, dst *bool) {
		if b, err := strconv.ParseBool(lookup(name)); err == nil {
			*dst = b
		}
	}
	list := func(name string, dst *[]string) {
		if v := lookup(name); v != "" {
			*dst = splitList(v)
		}
	}

	flag(env.Enabled, &c.Enabled)
	list(env.Origins, &c.Origins)
	list(env.AllowedMethods, &c.AllowedMethods)
	list(env.AllowedHeaders, &c.AllowedHeaders)
	list(env.ExposedHeaders, &c.ExposedHeaders)
	flag(env.AllowCredentials, &c.AllowCredentials)

	if n, err := strconv.Atoi(lookup(env.MaxAge)); err == nil {
		c.MaxAge = n
	}
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func splitList(v string) []string {
	var out []string
	for p := range strings.SplitSeq(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
