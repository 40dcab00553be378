package hooks

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/dbknowledge/dbchat/backend"
)

// Logger is the structured logger used by LoggingHooks.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// previewLen caps logged message previews.
const previewLen = 100

// LoggingHooks provides built-in logging hooks for observability
type LoggingHooks struct {
	logger Logger
}

// NewLoggingHooks creates logging hooks with the provided logger
func NewLoggingHooks(logger Logger) *LoggingHooks {
	return &LoggingHooks{logger: logger}
}

// Register adds the logging hooks to r.
func (h *LoggingHooks) Register(r *Registry) {
	r.OnBeforeSend(h.BeforeSend)
	r.OnAfterReply(h.AfterReply)
	r.OnSatisfaction(h.Satisfaction)
}

// BeforeSend logs outgoing messages
func (h *LoggingHooks) BeforeSend(ctx context.Context, sessionID, content string) error {
	h.logger.Debug("sending message",
		"session_id", sessionID,
		"staff_id", staffID(ctx),
		"bytes", len(content),
	)
	return nil
}

// AfterReply logs the assistant's reply or the send failure
func (h *LoggingHooks) AfterReply(ctx context.Context, sessionID, reply string, err error) error {
	if err != nil {
		h.logger.Warn("assistant request failed",
			"session_id", sessionID,
			"staff_id", staffID(ctx),
			"error", err,
		)
		return nil
	}
	h.logger.Debug("assistant replied",
		"session_id", sessionID,
		"bytes", len(reply),
		"preview", preview(reply),
	)
	return nil
}

// Satisfaction logs ratings
func (h *LoggingHooks) Satisfaction(ctx context.Context, messageID string, kind backend.Satisfaction, reason string) error {
	h.logger.Info("message rated",
		"message_id", messageID,
		"staff_id", staffID(ctx),
		"kind", kind,
		"has_reason", reason != "",
	)
	return nil
}

func staffID(ctx context.Context) string {
	id, _ := backend.StaffIDFromContext(ctx)
	return id
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}

// ContentGuard rejects outgoing messages that match any of the patterns.
// It is meant for keeping secrets such as connection strings or passwords
// out of the assistant's context.
type ContentGuard struct {
	patterns []*regexp.Regexp
}

// ErrContentRejected is wrapped by errors returned from ContentGuard.
var ErrContentRejected = errors.New("hooks: message rejected")

// NewContentGuard compiles patterns. An invalid pattern is an error.
func NewContentGuard(patterns ...string) (*ContentGuard, error) {
	g := &ContentGuard{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("hooks: compile %q: %w", p, err)
		}
		g.patterns = append(g.patterns, re)
	}
	return g, nil
}

// BeforeSend implements BeforeSendHook.
func (g *ContentGuard) BeforeSend(_ context.Context, _ string, content string) error {
	for _, re := range g.patterns {
		if re.MatchString(content) {
			return fmt.Errorf("%w: matches %q", ErrContentRejected, re.String())
		}
	}
	return nil
}
