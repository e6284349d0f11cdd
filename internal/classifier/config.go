package classifier

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/taxon/pkg/validation"
)

// Providers supported by New.
const (
	ProviderMock   = "mock"
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
)

// Config selects and tunes the classifier. Temperature and TopP are pointers
// so an explicit zero survives defaulting.
type Config struct {
	Provider    string   `toml:"provider" validate:"required,oneof=mock http openai"`
	Endpoint    string   `toml:"endpoint" validate:"required_if=Provider http,omitempty,url"`
	BaseURL     string   `toml:"base_url" validate:"required_if=Provider openai,omitempty,url"`
	Model       string   `toml:"model" validate:"required_if=Provider openai"`
	Token       string   `toml:"token" validate:"required_if=Provider openai"`
	Timeout     string   `toml:"timeout" validate:"required"`
	BatchSize   int      `toml:"batch_size" validate:"min=1,max=1000"`
	Concurrency int      `toml:"concurrency" validate:"min=1,max=64"`
	MaxTokens   int      `toml:"max_tokens" validate:"min=1,max=8000"`
	Temperature *float64 `toml:"temperature" validate:"required,min=0,max=2"`
	TopP        *float64 `toml:"top_p" validate:"required,min=0,max=1"`
	MockReverse bool     `toml:"mock_reverse"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider    string
	Endpoint    string
	BaseURL     string
	Model       string
	Token       string
	Timeout     string
	BatchSize   string
	Concurrency string
	MaxTokens   string
	Temperature string
	TopP        string
	MockReverse string
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
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.BatchSize > 0 {
		c.BatchSize = overlay.BatchSize
	}
	if overlay.Concurrency > 0 {
		c.Concurrency = overlay.Concurrency
	}
	if overlay.MaxTokens > 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Temperature != nil {
		c.Temperature = overlay.Temperature
	}
	if overlay.TopP != nil {
		c.TopP = overlay.TopP
	}
	if overlay.MockReverse {
		c.MockReverse = true
	}
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderMock
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.deepseek.com/v1"
	}
	if c.Model == "" {
		c.Model = "deepseek-chat"
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
	if c.BatchSize == 0 {
		c.BatchSize = 50
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4000
	}
	if c.Temperature == nil {
		c.Temperature = ptr(0.7)
	}
	if c.TopP == nil {
		c.TopP = ptr(0.9)
	}
}

func (c *Config) loadEnv(env *Env) {
	str := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if name == "" {
			return
		}
		if n, err := strconv.Atoi(os.Getenv(name)); err == nil {
			*dst = n
		}
	}
	float := func(name string, dst **float64) {
		if name == "" {
			return
		}
		if f, err := strconv.ParseFloat(os.Getenv(name), 64); err == nil {
			*dst = &f
		}
	}

	str(env.Provider, &c.Provider)
	str(env.Endpoint, &c.Endpoint)
	str(env.BaseURL, &c.BaseURL)
	str(env.Model, &c.Model)
	str(env.Token, &c.Token)
	str(env.Timeout, &c.Timeout)
	num(env.BatchSize, &c.BatchSize)
	num(env.Concurrency, &c.Concurrency)
	num(env.MaxTokens, &c.MaxTokens)
	float(env.Temperature, &c.Temperature)
	float(env.TopP, &c.TopP)

	if env.MockReverse != "" {
		if b, err := strconv.ParseBool(os.Getenv(env.MockReverse)); err == nil {
			c.MockReverse = b
		}
	}
}

func (c *Config) validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
