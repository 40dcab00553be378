package service

import (
	"html/template"
	"time"

	"github.com/dbknowledge/dbchat/backend"
	"github.com/dbknowledge/dbchat/render"
)

// Validation constants
const (
	// MaxSessionNameLength is the maximum length of a session name in runes.
	MaxSessionNameLength = 120

	// DefaultMaxAttachmentBytes is the default attachment size limit.
	DefaultMaxAttachmentBytes = 256 << 10
)

// SessionSummary is a session as shown in the sidebar.
type SessionSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// DisplayDate returns the API-supplied date, or the creation date.
func (s *SessionSummary) DisplayDate() string {
	if s.Date != "" {
		return s.Date
	}
	if s.CreatedAt.IsZero() {
		return ""
	}
	return s.CreatedAt.Format("02/01/2006")
}

// MessageView is a message ready for display.
type MessageView struct {
	ID           string               `json:"id"`
	Role         render.Role          `json:"role"`
	Content      string               `json:"content"`
	Mode         render.Mode          `json:"mode"`
	HTML         template.HTML        `json:"html"`
	Timestamp    time.Time            `json:"timestamp,omitzero"`
	Attachment   *backend.Attachment  `json:"attachment,omitempty"`
	Satisfaction backend.Satisfaction `json:"satisfaction,omitempty"`

	// Local is set on messages that exist only in this response and have
	// no id known to the API. They cannot be rated.
	Local bool `json:"local,omitempty"`
}

// IsAssistant reports whether the assistant wrote the message.
func (m *MessageView) IsAssistant() bool {
	return m.Role == render.RoleAssistant
}

// Rated reports whether the message already has a rating.
func (m *MessageView) Rated() bool {
	return m.Satisfaction != backend.SatisfactionNone
}

// Rateable reports whether rating buttons should be offered.
func (m *MessageView) Rateable() bool {
	return m.IsAssistant() && !m.Local
}

// ConversationView is a session with its messages.
type ConversationView struct {
	Session      *SessionSummary `json:"session"`
	Messages     []*MessageView  `json:"messages"`
	MessageCount int             `json:"message_count"`
}

// Exchange is the result of sending one message.
type Exchange struct {
	User      *MessageView `json:"user"`
	Assistant *MessageView `json:"assistant"`

	// Failed is set when the assistant bubble is an error notice.
	Failed bool `json:"failed,omitempty"`
}

func newSessionSummary(s *backend.Session) *SessionSummary {
	return &SessionSummary{
		ID:        s.ID,
		Title:     s.Title,
		Date:      s.Date,
		CreatedAt: s.CreatedAt,
	}
}

func newMessageView(m *backend.Message) *MessageView {
	role := render.ParseRole(string(m.Role))
	return &MessageView{
		ID:           m.ID,
		Role:         role,
		Content:      m.Content,
		Mode:         render.Classify(role, m.Content),
		HTML:         render.HTML(role, m.Content),
		Timestamp:    m.Timestamp,
		Attachment:   m.Attachment,
		Satisfaction: m.Satisfaction,
	}
}
