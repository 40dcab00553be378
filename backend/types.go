package backend

import (
	"strings"
	"time"
)

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Satisfaction is a rating given to an assistant reply.
type Satisfaction string

const (
	SatisfactionNone    Satisfaction = ""
	SatisfactionLike    Satisfaction = "LIKE"
	SatisfactionDislike Satisfaction = "DISLIKE"
)

// ParseSatisfaction parses a rating, ignoring case.
func ParseSatisfaction(s string) (Satisfaction, error) {
	switch Satisfaction(strings.ToUpper(strings.TrimSpace(s))) {
	case SatisfactionLike:
		return SatisfactionLike, nil
	case SatisfactionDislike:
		return SatisfactionDislike, nil
	default:
		return SatisfactionNone, ErrInvalidSatisfaction
	}
}

// Session is a chat session owned by a staff member.
type Session struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	// Date is the display date supplied by the API, if any.
	Date string `json:"date,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Attachment is a text file sent along with a user message.
type Attachment struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Message is one entry of a session history.
type Message struct {
	ID           string       `json:"id"`
	Role         Role         `json:"role"`
	Content      string       `json:"content"`
	Timestamp    time.Time    `json:"timestamp,omitzero"`
	Attachment   *Attachment  `json:"attachment,omitempty"`
	Satisfaction Satisfaction `json:"satisfaction,omitempty"`
}
