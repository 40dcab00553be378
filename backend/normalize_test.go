package backend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessions(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		sessions, err := parseSessions([]byte(`[
			{"id": 8, "session_name": "HR tables", "created_at": "2025-01-02T03:04:05Z"},
			{"session_id": "s-2", "title": "Indexes", "date": "2/1/2568"}
		]`))
		require.NoError(t, err)
		require.Len(t, sessions, 2)

		assert.Equal(t, "8", sessions[0].ID)
		assert.Equal(t, "HR tables", sessions[0].Title)
		assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), sessions[0].CreatedAt)

		assert.Equal(t, "s-2", sessions[1].ID)
		assert.Equal(t, "Indexes", sessions[1].Title)
		assert.Equal(t, "2/1/2568", sessions[1].Date)
	})

	t.Run("wrapped in data", func(t *testing.T) {
		sessions, err := parseSessions([]byte(`{"data": [{"id": 1}, {"id": 2, "title": ""}]}`))
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "Session 1", sessions[0].Title)
		assert.Equal(t, "Session 2", sessions[1].Title)
	})

	t.Run("wrapped in sessions", func(t *testing.T) {
		sessions, err := parseSessions([]byte(`{"sessions": [{"id": "a", "created_at": "2025-03-04 10:11:12"}]}`))
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, time.Date(2025, 3, 4, 10, 11, 12, 0, time.UTC), sessions[0].CreatedAt)
	})

	t.Run("entries without id skipped", func(t *testing.T) {
		sessions, err := parseSessions([]byte(`[{"title": "ghost"}, {"id": 3}]`))
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, "3", sessions[0].ID)
	})

	t.Run("unknown object is empty", func(t *testing.T) {
		sessions, err := parseSessions([]byte(`{"status": "ok"}`))
		require.NoError(t, err)
		assert.Empty(t, sessions)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := parseSessions([]byte(`<html>`))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestParseCreatedSessionID(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"array of objects", `[{"id": 8}]`, "8", false},
		{"object id", `{"id": "abc"}`, "abc", false},
		{"object session_id", `{"session_id": 12}`, "12", false},
		{"empty array", `[]`, "", true},
		{"no id", `{"ok": true}`, "", true},
		{"not json", `created`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCreatedSessionID([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHistory(t *testing.T) {
	body := `[
		{"id": 1, "message": {"type": "human", "content": "what is an index?"}, "created_at": "2025-01-02T03:04:05Z"},
		{"id": 2, "message": {"type": "ai", "content": "<p>A lookup structure</p>"}, "satisfaction": "LIKE"},
		{"message_id": "m3", "role": "user", "text": "thanks",
		 "attachment": {"name": "q.sql", "content": "SELECT 1"}},
		{"message": "plain string reply", "lastupdated_at": 1735787045000},
		{"from": "assistant", "output": "out", "satisfaction": "maybe"}
	]`

	messages, err := parseHistory("s1", []byte(body))
	require.NoError(t, err)
	require.Len(t, messages, 5)

	assert.Equal(t, "1", messages[0].ID)
	assert.Equal(t, RoleUser, messages[0].Role)
	assert.Equal(t, "what is an index?", messages[0].Content)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), messages[0].Timestamp)

	assert.Equal(t, RoleAssistant, messages[1].Role)
	assert.Equal(t, SatisfactionLike, messages[1].Satisfaction)

	assert.Equal(t, "m3", messages[2].ID)
	assert.Equal(t, RoleUser, messages[2].Role)
	assert.Equal(t, "thanks", messages[2].Content)
	require.NotNil(t, messages[2].Attachment)
	assert.Equal(t, "q.sql", messages[2].Attachment.Name)

	assert.Equal(t, "s1-3", messages[3].ID)
	assert.Equal(t, RoleAssistant, messages[3].Role)
	assert.Equal(t, "plain string reply", messages[3].Content)
	assert.Equal(t, time.UnixMilli(1735787045000).UTC(), messages[3].Timestamp)

	assert.Equal(t, "out", messages[4].Content)
	assert.Equal(t, SatisfactionNone, messages[4].Satisfaction)
	assert.True(t, messages[4].Timestamp.IsZero())
}

func TestParseHistoryWrapped(t *testing.T) {
	messages, err := parseHistory("s", []byte(`{"messages": [{"id": 1, "role": "user", "content": "hi"}]}`))
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Content)

	messages, err = parseHistory("s", []byte(`{"data": []}`))
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"plain text body", "Use an index.", "Use an index."},
		{"json string", `"quoted"`, "quoted"},
		{"output field", `{"output": "o", "answer": "a"}`, "o"},
		{"answer field", `{"answer": "a"}`, "a"},
		{"array of objects", `[{"text": "t"}]`, "t"},
		{"array of strings", `["first", "second"]`, "first"},
		{"unknown object", `{"foo": 1}`, `{"foo": 1}`},
		{"empty array", `[]`, ""},
		{"null", `null`, ""},
		{"empty body", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseReply([]byte(tt.body)))
		})
	}
}

func TestParseStaffID(t *testing.T) {
	id, err := parseStaffID([]byte(`{"responseObject": {"staffId": 1001}}`))
	require.NoError(t, err)
	assert.Equal(t, "1001", id)

	_, err = parseStaffID([]byte(`{"responseObject": null}`))
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestParseSatisfaction(t *testing.T) {
	s, err := ParseSatisfaction(" like ")
	require.NoError(t, err)
	assert.Equal(t, SatisfactionLike, s)

	s, err = ParseSatisfaction("DISLIKE")
	require.NoError(t, err)
	assert.Equal(t, SatisfactionDislike, s)

	_, err = ParseSatisfaction("meh")
	assert.ErrorIs(t, err, ErrInvalidSatisfaction)
}
