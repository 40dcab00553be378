package render

import (
	"fmt"
	"regexp"
)

// Role identifies who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole maps the role names used by the chat backend to a Role.
// Anything that is not a user role is treated as the assistant.
func ParseRole(s string) Role {
	switch s {
	case "user", "human":
		return RoleUser
	default:
		return RoleAssistant
	}
}

// Mode selects how message content is rendered.
type Mode int

const (
	// ModeStructured renders through Segment and Format.
	ModeStructured Mode = iota
	// ModeMarkup renders the sanitized content as HTML.
	ModeMarkup
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeMarkup {
		return "markup"
	}
	return "structured"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "structured":
		*m = ModeStructured
	case "markup":
		*m = ModeMarkup
	default:
		return fmt.Errorf("render: unknown mode %q", text)
	}
	return nil
}

// tagPattern matches anything shaped like an opening or closing tag.
var tagPattern = regexp.MustCompile(`(?is)</?[a-z].*>`)

// Classify picks the render mode for a message. Only assistant content that
// contains something tag-shaped is rendered as markup.
func Classify(role Role, content string) Mode {
	if role == RoleAssistant && tagPattern.MatchString(content) {
		return ModeMarkup
	}
	return ModeStructured
}
