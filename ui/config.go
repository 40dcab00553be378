package ui

import (
	"crypto/rand"

	"github.com/dbknowledge/dbchat/hooks"
	"github.com/dbknowledge/dbchat/ui/service"
)

// Default configuration values.
const (
	DefaultMaxAttachmentBytes = service.DefaultMaxAttachmentBytes
	DefaultCookieName         = "dbchat_staff"

	// minCookieSecretLength is the minimum HMAC key length in bytes.
	minCookieSecretLength = 16
)

// Config holds UI package configuration.
type Config struct {
	// BasePath is the URL prefix where the UI is mounted.
	// For example, if mounted at "/ui/", set BasePath to "/ui".
	// All navigation links will be prefixed with this path.
	// Defaults to empty string (root mount).
	BasePath string

	// DefaultStaffID is used when a request carries neither a BackOffice
	// token nor a staff cookie. If empty, such requests are rejected.
	DefaultStaffID string

	// CookieSecret signs the staff cookie.
	// If empty, a random secret is generated, so cookies do not survive
	// a restart.
	CookieSecret []byte

	// CookieName is the name of the staff cookie.
	// Defaults to "dbchat_staff".
	CookieName string

	// SecureCookie sets the Secure flag on the staff cookie.
	SecureCookie bool

	// MaxAttachmentBytes bounds uploaded files.
	// Defaults to 256 KiB.
	MaxAttachmentBytes int64

	// Hooks run around sends and ratings. Optional.
	Hooks *hooks.Registry

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

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		CookieName:         DefaultCookieName,
		MaxAttachmentBytes: DefaultMaxAttachmentBytes,
	}
}

// applyDefaults fills in default values for zero-valued fields.
func (c *Config) applyDefaults() {
	if c.CookieName == "" {
		c.CookieName = DefaultCookieName
	}
	if c.MaxAttachmentBytes == 0 {
		c.MaxAttachmentBytes = DefaultMaxAttachmentBytes
	}
	if len(c.CookieSecret) == 0 {
		c.CookieSecret = make([]byte, 32)
		_, _ = rand.Read(c.CookieSecret)
	}
}

// validate checks the configuration for errors.
func (c *Config) validate() error {
	if c.MaxAttachmentBytes < 1 {
		return ErrInvalidConfig
	}
	if len(c.CookieSecret) < minCookieSecretLength {
		return ErrInvalidConfig
	}
	if c.BasePath != "" && (c.BasePath[0] != '/' || c.BasePath[len(c.BasePath)-1] == '/') {
		return ErrInvalidConfig
	}
	return nil
}
