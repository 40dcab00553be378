// Package hooks lets callers observe and veto chat traffic.
//
// Before-send hooks run before a message reaches the assistant and may
// reject it by returning an error. Reply and satisfaction hooks run after
// the backend call; their errors are reported to the caller of the
// trigger but do not undo anything.
package hooks

import (
	"context"
	"sync"

	"github.com/dbknowledge/dbchat/backend"
)

// BeforeSendHook is called with the composed content before it is sent.
type BeforeSendHook func(ctx context.Context, sessionID, content string) error

// AfterReplyHook is called once the assistant answered or the send failed.
// Parameters: ctx, sessionID, reply, error
type AfterReplyHook func(ctx context.Context, sessionID, reply string, err error) error

// SatisfactionHook is called after a rating was recorded.
type SatisfactionHook func(ctx context.Context, messageID string, kind backend.Satisfaction, reason string) error

// Registry holds all registered hooks
type Registry struct {
	mu           sync.RWMutex
	beforeSend   []BeforeSendHook
	afterReply   []AfterReplyHook
	satisfaction []SatisfactionHook
}

// NewRegistry creates a new hook registry
func NewRegistry() *Registry {
	return &Registry{
		beforeSend:   []BeforeSendHook{},
		afterReply:   []AfterReplyHook{},
		satisfaction: []SatisfactionHook{},
	}
}

// OnBeforeSend registers a hook to be called before a message is sent
func (r *Registry) OnBeforeSend(hook BeforeSendHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeSend = append(r.beforeSend, hook)
}

// OnAfterReply registers a hook to be called after the assistant replied
func (r *Registry) OnAfterReply(hook AfterReplyHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterReply = append(r.afterReply, hook)
}

// OnSatisfaction registers a hook to be called after a rating
func (r *Registry) OnSatisfaction(hook SatisfactionHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.satisfaction = append(r.satisfaction, hook)
}

// TriggerBeforeSend calls before-send hooks in order and stops at the
// first error.
func (r *Registry) TriggerBeforeSend(ctx context.Context, sessionID, content string) error {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	hooks := make([]BeforeSendHook, len(r.beforeSend))
	copy(hooks, r.beforeSend)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, sessionID, content); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterReply calls all registered after-reply hooks
func (r *Registry) TriggerAfterReply(ctx context.Context, sessionID, reply string, err error) error {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	hooks := make([]AfterReplyHook, len(r.afterReply))
	copy(hooks, r.afterReply)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if hookErr := hook(ctx, sessionID, reply, err); hookErr != nil {
			return hookErr
		}
	}
	return nil
}

// TriggerSatisfaction calls all registered satisfaction hooks
func (r *Registry) TriggerSatisfaction(ctx context.Context, messageID string, kind backend.Satisfaction, reason string) error {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	hooks := make([]SatisfactionHook, len(r.satisfaction))
	copy(hooks, r.satisfaction)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, messageID, kind, reason); err != nil {
			return err
		}
	}
	return nil
}
