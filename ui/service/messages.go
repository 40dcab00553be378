package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dbknowledge/dbchat/backend"
	"github.com/dbknowledge/dbchat/render"
)

// Notices shown in place of an assistant reply.
const (
	ReplyFailedText = "Could not reach the assistant. Please try again."
	EmptyReplyText  = "Sorry, no response was received from the assistant."
)

// GetConversation returns a session and its messages.
func (s *Service) GetConversation(ctx context.Context, sessionID string) (*ConversationView, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	messages, err := s.api.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	view := &ConversationView{
		Session:      session,
		Messages:     make([]*MessageView, 0, len(messages)),
		MessageCount: len(messages),
	}
	for _, msg := range messages {
		view.Messages = append(view.Messages, newMessageView(msg))
	}
	return view, nil
}

// SendMessage sends text and an optional attachment to the assistant.
//
// When the API call fails the returned Exchange is still usable: its
// assistant message is an error notice and Failed is set. The error is
// returned alongside so the caller can log it.
func (s *Service) SendMessage(ctx context.Context, sessionID, text string, att *backend.Attachment) (*Exchange, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	content, display, err := ComposeMessage(text, att)
	if err != nil {
		return nil, err
	}
	// The chat API does not scope sessions by staff.
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	if err := s.hooks.TriggerBeforeSend(ctx, sessionID, content); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRejected, err)
	}

	now := time.Now()
	ex := &Exchange{
		User: localMessage(render.RoleUser, display, now),
	}
	ex.User.Attachment = att

	reply, err := s.api.SendMessage(ctx, sessionID, content)
	_ = s.hooks.TriggerAfterReply(ctx, sessionID, reply, err)
	if err != nil {
		ex.Assistant = localMessage(render.RoleAssistant, ReplyFailedText, time.Now())
		ex.Failed = true
		return ex, err
	}
	if strings.TrimSpace(reply) == "" {
		ex.Assistant = localMessage(render.RoleAssistant, EmptyReplyText, time.Now())
		return ex, nil
	}

	ex.Assistant = localMessage(render.RoleAssistant, reply, time.Now())
	if id := s.findReplyID(ctx, sessionID, reply); id != "" {
		ex.Assistant.ID = id
		ex.Assistant.Local = false
	}
	return ex, nil
}

// findReplyID looks up the id the API assigned to reply, so the new
// message can be rated without reloading. It returns "" if not found.
func (s *Service) findReplyID(ctx context.Context, sessionID, reply string) string {
	history, err := s.api.History(ctx, sessionID)
	if err != nil {
		return ""
	}
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg.Role != backend.RoleAssistant {
			continue
		}
		if msg.Content == reply {
			return msg.ID
		}
		return ""
	}
	return ""
}

// Rate records a LIKE or DISLIKE for an assistant message. It requires a
// staff id in ctx.
func (s *Service) Rate(ctx context.Context, messageID, kind, reason string) (backend.Satisfaction, error) {
	if _, err := backend.StaffIDFromContext(ctx); err != nil {
		return backend.SatisfactionNone, err
	}
	sat, err := backend.ParseSatisfaction(kind)
	if err != nil {
		return backend.SatisfactionNone, err
	}
	if err := s.api.SubmitSatisfaction(ctx, messageID, sat, reason); err != nil {
		return backend.SatisfactionNone, err
	}
	_ = s.hooks.TriggerSatisfaction(ctx, messageID, sat, reason)
	return sat, nil
}

// ComposeMessage returns the content sent to the assistant and the text
// shown in the user's bubble.
//
// With text and a file, the file is appended under a separator. With only
// a file, a review request is sent and the bubble names the file.
func ComposeMessage(text string, att *backend.Attachment) (content, display string, err error) {
	hasText := strings.TrimSpace(text) != ""
	switch {
	case att == nil && !hasText:
		return "", "", ErrEmptyMessage
	case att == nil:
		return text, text, nil
	case hasText:
		return fmt.Sprintf("%s\n\n--- Attached File: %s ---\n%s", text, att.Name, att.Content), text, nil
	default:
		return fmt.Sprintf("Please review this file: %s\n\n%s", att.Name, att.Content),
			"Sent file: " + att.Name, nil
	}
}

func localMessage(role render.Role, content string, ts time.Time) *MessageView {
	return &MessageView{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Mode:      render.Classify(role, content),
		HTML:      render.HTML(role, content),
		Timestamp: ts,
		Local:     true,
	}
}
