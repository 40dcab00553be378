package backend

import (
	"net/http"
	"net/url"
	"time"
)

// Default configuration values.
const (
	DefaultTimeout           = 90 * time.Second
	DefaultRequestsPerSecond = 5.0
	DefaultBurst             = 10

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the chat API root, e.g. "https://chat.example.com/DBC".
	// Required.
	BaseURL string

	// TokenURL is the BackOffice endpoint resolving a session token to a
	// staff id. If empty, StaffFromToken returns ErrStaffNotFound.
	TokenURL string

	// Timeout bounds each request including reading the body.
	// Defaults to 90 seconds since inference can be slow.
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the outbound rate limiter.
	RequestsPerSecond float64
	Burst             int

	// HTTPClient overrides the transport. Timeout is still applied per request.
	HTTPClient *http.Client

	// Logger for structured logging.
	// If nil, logging is disabled.
	Logger Logger
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// DefaultConfig returns a Config with default values and no BaseURL.
func DefaultConfig() *Config {
	return &Config{
		Timeout:           DefaultTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Burst:             DefaultBurst,
	}
}

// applyDefaults fills in default values for zero-valued fields.
func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.Burst == 0 {
		c.Burst = DefaultBurst
	}
}

// validate checks the configuration for errors.
func (c *Config) validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidConfig
	}
	if c.TokenURL != "" {
		if u, err := url.Parse(c.TokenURL); err != nil || u.Scheme == "" || u.Host == "" {
			return ErrInvalidConfig
		}
	}
	if c.Timeout < 0 || c.RequestsPerSecond < 0 || c.Burst < 0 {
		return ErrInvalidConfig
	}
	return nil
}
