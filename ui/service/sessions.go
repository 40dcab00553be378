package service

import (
	"context"
	"strings"
	"unicode/utf8"
)

// ListSessions returns the sessions of the staff in ctx, newest first as
// ordered by the API.
func (s *Service) ListSessions(ctx context.Context) ([]*SessionSummary, error) {
	sessions, err := s.api.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, newSessionSummary(session))
	}
	return summaries, nil
}

// GetSession returns one session of the staff in ctx.
func (s *Service) GetSession(ctx context.Context, id string) (*SessionSummary, error) {
	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	for _, session := range sessions {
		if session.ID == id {
			return session, nil
		}
	}
	return nil, ErrNotFound
}

// CreateSession creates a session with the given name.
func (s *Service) CreateSession(ctx context.Context, name string) (*SessionSummary, error) {
	name, err := ValidateSessionName(name)
	if err != nil {
		return nil, err
	}

	session, err := s.api.CreateSession(ctx, name)
	if err != nil {
		return nil, err
	}
	return newSessionSummary(session), nil
}

// RenameSession renames a session of the staff in ctx.
func (s *Service) RenameSession(ctx context.Context, id, name string) error {
	name, err := ValidateSessionName(name)
	if err != nil {
		return err
	}
	if _, err := s.GetSession(ctx, id); err != nil {
		return err
	}
	return s.api.RenameSession(ctx, id, name)
}

// DeleteSession deletes a session of the staff in ctx.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.GetSession(ctx, id); err != nil {
		return err
	}
	return s.api.DeleteSession(ctx, id)
}

// ValidateSessionName trims name and checks it is non-empty and not longer
// than MaxSessionNameLength.
func ValidateSessionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxSessionNameLength {
		return "", ErrInvalidSessionName
	}
	return name, nil
}
