package service

import (
	"context"

	"github.com/dbknowledge/dbchat/backend"
	"github.com/dbknowledge/dbchat/hooks"
)

// Backend is the subset of the chat API the UI uses.
// *backend.Client implements it.
type Backend interface {
	CreateSession(ctx context.Context, name string) (*backend.Session, error)
	ListSessions(ctx context.Context) ([]*backend.Session, error)
	RenameSession(ctx context.Context, sessionID, name string) error
	DeleteSession(ctx context.Context, sessionID string) error
	History(ctx context.Context, sessionID string) ([]*backend.Message, error)
	SendMessage(ctx context.Context, sessionID, content string) (string, error)
	SubmitSatisfaction(ctx context.Context, messageID string, kind backend.Satisfaction, reason string) error
	StaffFromToken(ctx context.Context, token string) (string, error)
}

// Service provides chat UI operations.
type Service struct {
	api   Backend
	hooks *hooks.Registry
}

// Option configures a Service.
type Option func(*Service)

// WithHooks runs the registry's hooks around sends and ratings.
func WithHooks(r *hooks.Registry) Option {
	return func(s *Service) {
		s.hooks = r
	}
}

// New creates a new Service over the given backend.
func New(api Backend, opts ...Option) *Service {
	s := &Service{
		api: api,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveStaff exchanges a BackOffice session token for a staff id.
func (s *Service) ResolveStaff(ctx context.Context, token string) (string, error) {
	return s.api.StaffFromToken(ctx, token)
}
