// Package testutil provides test utilities for dbchat
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dbknowledge/dbchat/backend"
)

// Backend is an in-memory chat API for tests.
// It keeps sessions per staff id and answers every message with Reply.
type Backend struct {
	mu sync.Mutex

	sessions map[string][]*backend.Session // by staff id
	history  map[string][]*backend.Message // by session id
	ratings  map[string]Rating             // by message id
	tokens   map[string]string             // token -> staff id
	nextID   int

	// Reply computes the assistant answer. It defaults to echoing content.
	Reply func(content string) string

	// Err, when set, is returned by every call.
	Err error

	// SendErr, when set, is returned by SendMessage only.
	SendErr error

	// Sent records the content of every SendMessage call.
	Sent []string
}

// Rating is a recorded satisfaction submission.
type Rating struct {
	Kind   backend.Satisfaction
	Reason string
}

// NewBackend creates an empty Backend.
func NewBackend() *Backend {
	return &Backend{
		sessions: make(map[string][]*backend.Session),
		history:  make(map[string][]*backend.Message),
		ratings:  make(map[string]Rating),
		tokens:   make(map[string]string),
		Reply:    func(content string) string { return "echo: " + content },
	}
}

// AddToken registers a BackOffice token for staffID.
func (b *Backend) AddToken(token, staffID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = staffID
}

// SeedSession creates a session for staffID and returns its id.
func (b *Backend) SeedSession(staffID, title string, messages ...*backend.Message) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.newID("sess")
	b.sessions[staffID] = append([]*backend.Session{{
		ID:        id,
		Title:     title,
		CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}}, b.sessions[staffID]...)
	b.history[id] = append(b.history[id], messages...)
	return id
}

// RatingFor returns the rating recorded for messageID.
func (b *Backend) RatingFor(messageID string) (Rating, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.ratings[messageID]
	return r, ok
}

// CreateSession implements service.Backend.
func (b *Backend) CreateSession(ctx context.Context, name string) (*backend.Session, error) {
	staffID, err := b.staff(ctx)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &backend.Session{ID: b.newID("sess"), Title: name, CreatedAt: time.Now()}
	b.sessions[staffID] = append([]*backend.Session{s}, b.sessions[staffID]...)
	return s, nil
}

// ListSessions implements service.Backend.
func (b *Backend) ListSessions(ctx context.Context) ([]*backend.Session, error) {
	staffID, err := b.staff(ctx)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*backend.Session, 0, len(b.sessions[staffID]))
	for _, s := range b.sessions[staffID] {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

// RenameSession implements service.Backend.
func (b *Backend) RenameSession(ctx context.Context, sessionID, name string) error {
	if b.Err != nil {
		return b.Err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, list := range b.sessions {
		for _, s := range list {
			if s.ID == sessionID {
				s.Title = name
				return nil
			}
		}
	}
	return &backend.StatusError{StatusCode: 404, Body: "no such session"}
}

// DeleteSession implements service.Backend.
func (b *Backend) DeleteSession(ctx context.Context, sessionID string) error {
	if b.Err != nil {
		return b.Err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for staff, list := range b.sessions {
		for i, s := range list {
			if s.ID == sessionID {
				b.sessions[staff] = append(list[:i:i], list[i+1:]...)
				delete(b.history, sessionID)
				return nil
			}
		}
	}
	return &backend.StatusError{StatusCode: 404, Body: "no such session"}
}

// History implements service.Backend.
func (b *Backend) History(ctx context.Context, sessionID string) ([]*backend.Message, error) {
	if b.Err != nil {
		return nil, b.Err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*backend.Message, 0, len(b.history[sessionID]))
	for _, m := range b.history[sessionID] {
		cp := *m
		if r, ok := b.ratings[m.ID]; ok {
			cp.Satisfaction = r.Kind
		}
		out = append(out, &cp)
	}
	return out, nil
}

// SendMessage implements service.Backend.
func (b *Backend) SendMessage(ctx context.Context, sessionID, content string) (string, error) {
	if _, err := b.staff(ctx); err != nil {
		return "", err
	}
	if b.SendErr != nil {
		return "", b.SendErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Sent = append(b.Sent, content)
	reply := b.Reply(content)
	now := time.Now()
	b.history[sessionID] = append(b.history[sessionID],
		&backend.Message{ID: b.newID("msg"), Role: backend.RoleUser, Content: content, Timestamp: now},
		&backend.Message{ID: b.newID("msg"), Role: backend.RoleAssistant, Content: reply, Timestamp: now},
	)
	return reply, nil
}

// SubmitSatisfaction implements service.Backend.
func (b *Backend) SubmitSatisfaction(ctx context.Context, messageID string, kind backend.Satisfaction, reason string) error {
	if b.Err != nil {
		return b.Err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ratings[messageID] = Rating{Kind: kind, Reason: reason}
	return nil
}

// StaffFromToken implements service.Backend.
func (b *Backend) StaffFromToken(ctx context.Context, token string) (string, error) {
	if b.Err != nil {
		return "", b.Err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	staffID, ok := b.tokens[token]
	if !ok {
		return "", backend.ErrStaffNotFound
	}
	return staffID, nil
}

func (b *Backend) staff(ctx context.Context) (string, error) {
	if b.Err != nil {
		return "", b.Err
	}
	return backend.StaffIDFromContext(ctx)
}

// newID must be called with mu held.
func (b *Backend) newID(prefix string) string {
	b.nextID++
	return fmt.Sprintf("%s-%d", prefix, b.nextID)
}

// StaffContext returns a context carrying staffID.
func StaffContext(staffID string) context.Context {
	return backend.WithStaffID(context.Background(), staffID)
}

// RequireIntegration skips the test unless DBCHAT_BACKEND_URL points at a
// live chat API, and returns that URL.
func RequireIntegration(t *testing.T) string {
	t.Helper()
	url := strings.TrimSpace(os.Getenv("DBCHAT_BACKEND_URL"))
	if url == "" {
		t.Skip("Skipping integration test: DBCHAT_BACKEND_URL not set")
	}
	return url
}
