package cognee

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeoutSeconds   = 30
	DefaultMaxRetryAttempts = 3
)

// Config holds validated connection settings. Values are only obtainable
// through NewConfig, DefaultConfig or Derive, so a Config in hand is valid
// unless it is the zero value.
type Config struct {
	baseURL          string
	apiKey           string
	timeoutSeconds   int
	maxRetryAttempts int
}

// NewConfig validates and builds a Config.
func NewConfig(baseURL, apiKey string, timeoutSeconds, maxRetryAttempts int) (Config, error) {
	cfg := Config{
		baseURL:          baseURL,
		apiKey:           apiKey,
		timeoutSeconds:   timeoutSeconds,
		maxRetryAttempts: maxRetryAttempts,
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig builds a Config with a 30 second timeout and 3 retries.
func DefaultConfig(baseURL, apiKey string) (Config, error) {
	return NewConfig(baseURL, apiKey, DefaultTimeoutSeconds, DefaultMaxRetryAttempts)
}

// ConfigOverrides lists the fields to replace in Derive. Nil fields keep the
// receiver's value.
type ConfigOverrides struct {
	BaseURL          *string
	APIKey           *string
	TimeoutSeconds   *int
	MaxRetryAttempts *int
}

// Derive returns a new Config with the overrides applied. The merged result
// is validated again; the receiver is never modified.
func (c Config) Derive(o ConfigOverrides) (Config, error) {
	next := c
	if o.BaseURL != nil {
		next.baseURL = *o.BaseURL
	}
	if o.APIKey != nil {
		next.apiKey = *o.APIKey
	}
	if o.TimeoutSeconds != nil {
		next.timeoutSeconds = *o.TimeoutSeconds
	}
	if o.MaxRetryAttempts != nil {
		next.maxRetryAttempts = *o.MaxRetryAttempts
	}
	return NewConfig(next.baseURL, next.apiKey, next.timeoutSeconds, next.maxRetryAttempts)
}

func (c Config) BaseURL() string       { return c.baseURL }
func (c Config) APIKey() string        { return c.apiKey }
func (c Config) TimeoutSeconds() int   { return c.timeoutSeconds }
func (c Config) MaxRetryAttempts() int { return c.maxRetryAttempts }

// Timeout is the per-attempt timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.timeoutSeconds) * time.Second
}

// String describes the config with the API key redacted.
func (c Config) String() string {
	return fmt.Sprintf("Config{BaseURL: %q, APIKey: %q, Timeout: %ds, MaxRetryAttempts: %d}",
		c.baseURL, redactKey(c.apiKey), c.timeoutSeconds, c.maxRetryAttempts)
}

func (c Config) validate() error {
	if strings.TrimSpace(c.baseURL) == "" {
		return &InvalidConfigurationError{Field: "base_url", Reason: "base URL cannot be empty"}
	}
	if !isAbsoluteURL(c.baseURL) {
		return &InvalidConfigurationError{Field: "base_url", Reason: "base URL must be a valid URL"}
	}
	if c.apiKey == "" {
		return &InvalidConfigurationError{Field: "api_key", Reason: "API key cannot be empty"}
	}
	if c.timeoutSeconds < 1 {
		return &InvalidConfigurationError{Field: "timeout", Reason: "timeout must be at least 1 second"}
	}
	if c.maxRetryAttempts < 0 {
		return &InvalidConfigurationError{Field: "retry_attempts", Reason: "retry attempts cannot be negative"}
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func redactKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****"
}
