package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Client talks to the chat API. It is safe for concurrent use.
type Client struct {
	baseURL  string
	tokenURL string
	timeout  time.Duration
	http     *http.Client
	limiter  *rate.Limiter
	logger   Logger
}

// New creates a Client. A nil cfg is invalid because BaseURL is required.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	c := *cfg
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Client{
		baseURL:  strings.TrimRight(c.BaseURL, "/"),
		tokenURL: c.TokenURL,
		timeout:  c.Timeout,
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Limit(c.RequestsPerSecond), c.Burst),
		logger:   c.Logger,
	}, nil
}

// CreateSession creates a session named name for the staff in ctx and
// returns it.
func (c *Client) CreateSession(ctx context.Context, name string) (*Session, error) {
	staffID, err := StaffIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/new-chat", map[string]any{
		"staff_id":     staffID,
		"session_name": name,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	id, err := parseCreatedSessionID(body)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &Session{ID: id, Title: name, CreatedAt: time.Now()}, nil
}

// ListSessions returns the sessions of the staff in ctx.
func (c *Client) ListSessions(ctx context.Context) ([]*Session, error) {
	staffID, err := StaffIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/sessions/"+url.PathEscape(staffID), nil)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions, err := parseSessions(body)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// RenameSession changes the title of a session.
func (c *Client) RenameSession(ctx context.Context, sessionID, name string) error {
	_, err := c.do(ctx, http.MethodPost, c.baseURL+"/rename/"+url.PathEscape(sessionID), map[string]any{
		"session_name": name,
	})
	if err != nil {
		return fmt.Errorf("rename session %s: %w", sessionID, err)
	}
	return nil
}

// DeleteSession deletes a session.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := c.do(ctx, http.MethodPost, c.baseURL+"/delete-session/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// History returns the messages of a session in the order the API sent them.
func (c *Client) History(ctx context.Context, sessionID string) ([]*Message, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/chat-history/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, fmt.Errorf("chat history %s: %w", sessionID, err)
	}

	messages, err := parseHistory(sessionID, body)
	if err != nil {
		return nil, fmt.Errorf("chat history %s: %w", sessionID, err)
	}
	return messages, nil
}

// SendMessage sends content to the assistant and returns its reply text.
// The reply may be empty if the API answered without one.
func (c *Client) SendMessage(ctx context.Context, sessionID, content string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/send-message", map[string]any{
		"session_id": sessionID,
		"message":    content,
	})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return parseReply(body), nil
}

// SubmitSatisfaction rates an assistant message. An empty reason is sent
// as null.
func (c *Client) SubmitSatisfaction(ctx context.Context, messageID string, kind Satisfaction, reason string) error {
	if kind != SatisfactionLike && kind != SatisfactionDislike {
		return ErrInvalidSatisfaction
	}

	var reasonVal any
	if r := strings.TrimSpace(reason); r != "" {
		reasonVal = r
	}

	_, err := c.do(ctx, http.MethodPost, c.baseURL+"/satisfaction/"+url.PathEscape(messageID), map[string]any{
		"satisfaction":        kind,
		"satisfaction_reason": reasonVal,
	})
	if err != nil {
		return fmt.Errorf("submit satisfaction %s: %w", messageID, err)
	}
	return nil
}

// StaffFromToken resolves a BackOffice session token to a staff id.
func (c *Client) StaffFromToken(ctx context.Context, token string) (string, error) {
	if c.tokenURL == "" || token == "" {
		return "", ErrStaffNotFound
	}

	body, err := c.do(ctx, http.MethodPost, c.tokenURL, map[string]any{
		"request": map[string]any{"sessionId": token},
	})
	if err != nil {
		return "", fmt.Errorf("resolve staff: %w", err)
	}

	staffID, err := parseStaffID(body)
	if err != nil {
		return "", fmt.Errorf("resolve staff: %w", err)
	}
	return staffID, nil
}

// do performs one JSON request and returns the response body.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit: %w", ErrBackend, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json, text/plain")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logWarn("backend request failed", "method", method, "url", endpoint, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logDebug("backend request",
		"method", method,
		"url", endpoint,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (c *Client) logDebug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Client) logWarn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
