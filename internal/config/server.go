package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/taxon/pkg/validation"
)

var serverEnv = &ServerEnv{
	Host:              "TAXON_SERVER_HOST",
	Port:              "TAXON_SERVER_PORT",
	ReadTimeout:       "TAXON_SERVER_READ_TIMEOUT",
	ReadHeaderTimeout: "TAXON_SERVER_READ_HEADER_TIMEOUT",
	WriteTimeout:      "TAXON_SERVER_WRITE_TIMEOUT",
	IdleTimeout:       "TAXON_SERVER_IDLE_TIMEOUT",
	ShutdownTimeout:   "TAXON_SERVER_SHUTDOWN_TIMEOUT",
}

// ServerConfig holds HTTP listener parameters. Durations are Go duration strings.
// WriteTimeout bounds export downloads, so it stays well above ReadTimeout.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port" validate:"min=1,max=65535"`
	ReadTimeout       string `toml:"read_timeout" validate:"required"`
	ReadHeaderTimeout string `toml:"read_header_timeout" validate:"required"`
	WriteTimeout      string `toml:"write_timeout" validate:"required"`
	IdleTimeout       string `toml:"idle_timeout" validate:"required"`
	ShutdownTimeout   string `toml:"shutdown_timeout" validate:"required"`
}

// ServerEnv maps server fields to environment variable names.
type ServerEnv struct {
	Host              string
	Port              string
	ReadTimeout       string
	ReadHeaderTimeout string
	WriteTimeout      string
	IdleTimeout       string
	ShutdownTimeout   string
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration       { return duration(c.ReadTimeout) }
func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration { return duration(c.ReadHeaderTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration      { return duration(c.WriteTimeout) }
func (c *ServerConfig) IdleTimeoutDuration() time.Duration       { return duration(c.IdleTimeout) }
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration   { return duration(c.ShutdownTimeout) }

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize(env *ServerEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&c.Host, overlay.Host)
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	set(&c.ReadTimeout, overlay.ReadTimeout)
	set(&c.ReadHeaderTimeout, overlay.ReadHeaderTimeout)
	set(&c.WriteTimeout, overlay.WriteTimeout)
	set(&c.IdleTimeout, overlay.IdleTimeout)
	set(&c.ShutdownTimeout, overlay.ShutdownTimeout)
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "1m"
	}
	if c.ReadHeaderTimeout == "" {
		c.ReadHeaderTimeout = "10s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "5m"
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "2m"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
}

func (c *ServerConfig) loadEnv(env *ServerEnv) {
	for name, dst := range map[string]*string{
		env.Host:              &c.Host,
		env.ReadTimeout:       &c.ReadTimeout,
		env.ReadHeaderTimeout: &c.ReadHeaderTimeout,
		env.WriteTimeout:      &c.WriteTimeout,
		env.IdleTimeout:       &c.IdleTimeout,
		env.ShutdownTimeout:   &c.ShutdownTimeout,
	} {
		if name == "" {
			continue
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	if env.Port != "" {
		if port, err := strconv.Atoi(os.Getenv(env.Port)); err == nil {
			c.Port = port
		}
	}
}

func (c *ServerConfig) validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	for name, v := range map[string]string{
		"read_timeout":        c.ReadTimeout,
		"read_header_timeout": c.ReadHeaderTimeout,
		"write_timeout":       c.WriteTimeout,
		"idle_timeout":        c.IdleTimeout,
		"shutdown_timeout":    c.ShutdownTimeout,
	} {
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			return fmt.Errorf("invalid %s: %q", name, v)
		}
	}
	return nil
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
