package backend

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// The chat API has returned several shapes for the same resource over time
// (bare arrays, {"data": [...]}, n8n-style {"message": {...}} wrappers).
// The helpers below accept all of them.

// listOf returns root if it is an array, else the first array found at keys.
func listOf(root gjson.Result, keys ...string) []gjson.Result {
	if root.IsArray() {
		return root.Array()
	}
	for _, key := range keys {
		if v := root.Get(key); v.IsArray() {
			return v.Array()
		}
	}
	return nil
}

// firstString returns the first non-empty value found at paths.
func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := r.Get(p)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if s := v.String(); s != "" {
			return s
		}
	}
	return ""
}

// firstTime returns the first parsable timestamp found in candidates.
func firstTime(candidates ...gjson.Result) time.Time {
	for _, v := range candidates {
		if t := parseTime(v); !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts RFC 3339 and common SQL timestamp strings, or a number
// of milliseconds since the epoch.
func parseTime(v gjson.Result) time.Time {
	switch v.Type {
	case gjson.Number:
		return time.UnixMilli(v.Int()).UTC()
	case gjson.String:
		s := strings.TrimSpace(v.String())
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func parseJSON(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrMalformedResponse
	}
	return gjson.ParseBytes(body), nil
}

// parseSessions reads a session list. Entries without an id are skipped
// because no later call could address them.
func parseSessions(body []byte) ([]*Session, error) {
	root, err := parseJSON(body)
	if err != nil {
		return nil, err
	}

	items := listOf(root, "sessions", "data")
	sessions := make([]*Session, 0, len(items))
	for i, item := range items {
		id := firstString(item, "id", "session_id")
		if id == "" {
			continue
		}
		title := firstString(item, "title", "session_name")
		if title == "" {
			title = fmt.Sprintf("Session %d", i+1)
		}
		sessions = append(sessions, &Session{
			ID:        id,
			Title:     title,
			Date:      firstString(item, "date"),
			CreatedAt: firstTime(item.Get("created_at")),
		})
	}
	return sessions, nil
}

// parseCreatedSessionID reads the id of a newly created session from
// [{"id": ..}], {"id": ..} or {"session_id": ..}.
func parseCreatedSessionID(body []byte) (string, error) {
	root, err := parseJSON(body)
	if err != nil {
		return "", err
	}
	if root.IsArray() {
		arr := root.Array()
		if len(arr) == 0 {
			return "", ErrMalformedResponse
		}
		root = arr[0]
	}
	id := firstString(root, "id", "session_id")
	if id == "" {
		return "", ErrMalformedResponse
	}
	return id, nil
}

// parseHistory reads the messages of a session. Messages without an id get
// "<sessionID>-<index>".
func parseHistory(sessionID string, body []byte) ([]*Message, error) {
	root, err := parseJSON(body)
	if err != nil {
		return nil, err
	}

	items := listOf(root, "messages", "data")
	messages := make([]*Message, 0, len(items))
	for i, item := range items {
		wrapper := item.Get("message")
		if !wrapper.Exists() || wrapper.Type == gjson.Null {
			wrapper = item
		}

		var content string
		if wrapper.Type == gjson.String {
			content = wrapper.String()
		} else {
			content = firstString(wrapper, "content", "text", "output", "answer")
		}

		kind := firstString(wrapper, "type")
		if kind == "" {
			kind = firstString(item, "role", "from")
		}

		id := firstString(item, "id", "message_id")
		if id == "" {
			id = fmt.Sprintf("%s-%d", sessionID, i)
		}

		msg := &Message{
			ID:      id,
			Role:    parseRole(kind),
			Content: content,
			Timestamp: firstTime(
				item.Get("created_at"),
				wrapper.Get("created_at"),
				item.Get("lastupdated_at"),
				wrapper.Get("timestamp"),
			),
		}
		if sat, err := ParseSatisfaction(item.Get("satisfaction").String()); err == nil {
			msg.Satisfaction = sat
		}

		att := item.Get("attachment")
		if !att.IsObject() {
			att = wrapper.Get("attachment")
		}
		if att.IsObject() {
			msg.Attachment = &Attachment{
				Name:    att.Get("name").String(),
				Content: att.Get("content").String(),
			}
		}

		messages = append(messages, msg)
	}
	return messages, nil
}

func parseRole(kind string) Role {
	switch kind {
	case "human", "user":
		return RoleUser
	default:
		return RoleAssistant
	}
}

// parseReply extracts the assistant text from a send-message response.
// Non-JSON bodies are treated as the reply itself. Objects without a known
// text field are returned as raw JSON.
func parseReply(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}

	root := gjson.ParseBytes(body)
	if root.IsArray() {
		arr := root.Array()
		if len(arr) == 0 {
			return ""
		}
		root = arr[0]
	}

	switch {
	case root.Type == gjson.Null:
		return ""
	case root.Type == gjson.String:
		return root.String()
	case root.IsObject():
		if s := firstString(root, "output", "answer", "message", "text"); s != "" {
			return s
		}
	}
	return root.Raw
}

// parseStaffID reads responseObject.staffId from a BackOffice response.
func parseStaffID(body []byte) (string, error) {
	root, err := parseJSON(body)
	if err != nil {
		return "", err
	}
	id := firstString(root, "responseObject.staffId")
	if id == "" {
		return "", ErrStaffNotFound
	}
	return id, nil
}
