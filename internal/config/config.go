// Package config loads dbchat process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalid indicates a configuration value that cannot be used.
var ErrInvalid = errors.New("config: invalid value")

// Cfg holds all runtime configuration loaded from environment variables.
// Every variable is prefixed with DBCHAT_.
type Cfg struct {
	// Server
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	BasePath   string `env:"BASE_PATH"`

	// Chat backend
	BackendURL        string        `env:"BACKEND_URL,required"`
	TokenURL          string        `env:"TOKEN_URL"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"90s"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND" envDefault:"5"`
	Burst             int           `env:"BURST" envDefault:"10"`

	// Staff identity
	DefaultStaffID string `env:"DEFAULT_STAFF_ID"`
	CookieSecret   string `env:"COOKIE_SECRET"`
	SecureCookie   bool   `env:"SECURE_COOKIE"`

	// Outgoing messages matching any of these regexps are refused.
	BlockedPatterns []string `env:"BLOCKED_PATTERNS" envSeparator:";"`

	// Uploads
	MaxAttachmentBytes int64 `env:"MAX_ATTACHMENT_BYTES" envDefault:"262144"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads .env (if present) then environment variables and returns Cfg.
func Load() (*Cfg, error) {
	// Best-effort: load .env from current directory
	_ = godotenv.Load()

	return Parse()
}

// Parse reads the configuration from environment variables only.
func Parse() (*Cfg, error) {
	cfg := &Cfg{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "DBCHAT_"}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.BackendURL = strings.TrimRight(strings.TrimSpace(cfg.BackendURL), "/")
	cfg.BasePath = strings.TrimRight(strings.TrimSpace(cfg.BasePath), "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Cfg) validate() error {
	switch {
	case c.BackendURL == "":
		return fmt.Errorf("%w: DBCHAT_BACKEND_URL is empty", ErrInvalid)
	case c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/"):
		return fmt.Errorf("%w: DBCHAT_BASE_PATH must start with /", ErrInvalid)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: DBCHAT_REQUEST_TIMEOUT must be positive", ErrInvalid)
	case c.RequestsPerSecond <= 0 || c.Burst < 1:
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalid)
	case c.MaxAttachmentBytes < 1:
		return fmt.Errorf("%w: DBCHAT_MAX_ATTACHMENT_BYTES must be positive", ErrInvalid)
	case c.CookieSecret != "" && len(c.CookieSecret) < 16:
		return fmt.Errorf("%w: DBCHAT_COOKIE_SECRET must be at least 16 bytes", ErrInvalid)
	}
	return nil
}
