package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbknowledge/dbchat/backend"
	"github.com/dbknowledge/dbchat/hooks"
	"github.com/dbknowledge/dbchat/internal/testutil"
	"github.com/dbknowledge/dbchat/ui/service"
)

const testStaff = "staff-1"

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *APIError       `json:"error"`
	Meta  *Meta           `json:"meta"`
}

func newTestAPI(t *testing.T) (http.Handler, *testutil.Backend) {
	t.Helper()
	fake := testutil.NewBackend()
	h := NewRouter(service.New(fake), nil)
	return withStaff(h, testStaff), fake
}

func withStaff(next http.Handler, staffID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(backend.WithStaffID(r.Context(), staffID)))
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestSessionEndpoints(t *testing.T) {
	h, fake := newTestAPI(t)
	fake.SeedSession(testStaff, "Existing")

	rec, env := do(t, h, http.MethodPost, "/sessions", `{"name":"  Locks  "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var created service.SessionSummary
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Locks", created.Title)

	rec, env = do(t, h, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.TotalCount)

	rec, _ = do(t, h, http.MethodPost, "/sessions/"+created.ID+"/rename", `{"name":"Deadlocks"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = do(t, h, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.Meta.TotalCount)
}

func TestCreateSessionValidation(t *testing.T) {
	h, _ := newTestAPI(t)

	rec, env := do(t, h, http.MethodPost, "/sessions", `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid_request", env.Error.Code)

	rec, env = do(t, h, http.MethodPost, "/sessions", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_body", env.Error.Code)
}

func TestGetMessages(t *testing.T) {
	h, fake := newTestAPI(t)
	id := fake.SeedSession(testStaff, "Chat",
		&backend.Message{ID: "m1", Role: backend.RoleUser, Content: "hi"},
		&backend.Message{ID: "m2", Role: backend.RoleAssistant, Content: "<p>Hello <script>x</script></p>"},
	)

	rec, env := do(t, h, http.MethodGet, "/sessions/"+id+"/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var conv struct {
		Messages []struct {
			ID   string `json:"id"`
			Mode string `json:"mode"`
			HTML string `json:"html"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &conv))
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "structured", conv.Messages[0].Mode)
	assert.Equal(t, "markup", conv.Messages[1].Mode)
	assert.NotContains(t, conv.Messages[1].HTML, "script")

	rec, env = do(t, h, http.MethodGet, "/sessions/nope/messages", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Error.Code)
}

func TestSendMessage(t *testing.T) {
	h, fake := newTestAPI(t)
	id := fake.SeedSession(testStaff, "Chat")

	rec, env := do(t, h, http.MethodPost, "/sessions/"+id+"/messages",
		`{"message":"explain","attachment":{"name":"q.sql","content":"select 1;"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ex service.Exchange
	require.NoError(t, json.Unmarshal(env.Data, &ex))
	assert.Equal(t, "explain", ex.User.Content)
	assert.Equal(t, "echo: explain\n\n--- Attached File: q.sql ---\nselect 1;", ex.Assistant.Content)

	rec, env = do(t, h, http.MethodPost, "/sessions/"+id+"/messages",
		`{"attachment":{"name":"x.exe","content":"MZ"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", env.Error.Code)
}

func TestSendMessageBackendFailure(t *testing.T) {
	h, fake := newTestAPI(t)
	id := fake.SeedSession(testStaff, "Chat")
	fake.SendErr = backend.ErrBackend

	rec, env := do(t, h, http.MethodPost, "/sessions/"+id+"/messages", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var ex service.Exchange
	require.NoError(t, json.Unmarshal(env.Data, &ex))
	assert.True(t, ex.Failed)
	assert.Equal(t, service.ReplyFailedText, ex.Assistant.Content)
}

func TestSendMessageRejectedByHook(t *testing.T) {
	registry := hooks.NewRegistry()
	guard, err := hooks.NewContentGuard(`password=`)
	require.NoError(t, err)
	registry.OnBeforeSend(guard.BeforeSend)

	fake := testutil.NewBackend()
	id := fake.SeedSession(testStaff, "Chat")
	h := withStaff(NewRouter(service.New(fake, service.WithHooks(registry)), nil), testStaff)

	rec, env := do(t, h, http.MethodPost, "/sessions/"+id+"/messages", `{"message":"use password=abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid_request", env.Error.Code)
	assert.Empty(t, fake.Sent)
}

func TestSatisfaction(t *testing.T) {
	h, fake := newTestAPI(t)

	rec, _ := do(t, h, http.MethodPost, "/messages/m9/satisfaction", `{"satisfaction":"like"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	r, ok := fake.RatingFor("m9")
	require.True(t, ok)
	assert.Equal(t, backend.SatisfactionLike, r.Kind)

	rec, _ = do(t, h, http.MethodPost, "/messages/m9/satisfaction", `{"satisfaction":"love"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRender(t *testing.T) {
	h, _ := newTestAPI(t)

	tests := []struct {
		name      string
		body      string
		wantMode  string
		wantSpans int
		contains  string
	}{
		{"structured assistant", `{"role":"assistant","content":"run ` + "```sql\\nselect 1\\n```" + `"}`, "structured", 2, "<pre"},
		{"markup assistant", `{"role":"assistant","content":"<b onclick=\"x()\">hi</b>"}`, "markup", 0, "<b>hi</b>"},
		{"user never markup", `{"role":"user","content":"<b>hi</b>"}`, "structured", 1, "&lt;b&gt;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPost, "/render", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var got struct {
				Mode  string            `json:"mode"`
				HTML  string            `json:"html"`
				Spans []json.RawMessage `json:"spans"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &got))
			assert.Equal(t, tt.wantMode, got.Mode)
			assert.Len(t, got.Spans, tt.wantSpans)
			assert.Contains(t, got.HTML, tt.contains)
		})
	}
}

func TestCanceledBackendCallIsBadGateway(t *testing.T) {
	h, fake := newTestAPI(t)
	fake.Err = fmt.Errorf("%w: rate limit: %w", backend.ErrBackend, context.Canceled)

	rec, env := do(t, h, http.MethodGet, "/sessions", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "backend_error", env.Error.Code)
	assert.NotContains(t, rec.Body.String(), "context canceled")
}

func TestUnexpectedErrorHidesDetails(t *testing.T) {
	h, fake := newTestAPI(t)
	fake.Err = errors.New("dial tcp 10.1.2.3:5432: secret detail")

	rec, env := do(t, h, http.MethodGet, "/sessions", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "internal_error", env.Error.Code)
	assert.NotContains(t, rec.Body.String(), "secret detail")
}

func TestUnauthorizedWithoutStaff(t *testing.T) {
	h := NewRouter(service.New(testutil.NewBackend()), nil)
	rec, env := do(t, h, http.MethodGet, "/sessions", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", env.Error.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}
