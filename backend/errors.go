package backend

import (
	"errors"
	"fmt"
)

// Backend package errors.
var (
	// ErrBackend is wrapped by every error caused by a non-2xx response.
	ErrBackend = errors.New("backend: request failed")

	// ErrNoStaff indicates the context carries no staff id.
	ErrNoStaff = errors.New("backend: no staff id in context")

	// ErrStaffNotFound indicates a session token did not resolve to a staff id.
	ErrStaffNotFound = errors.New("backend: no staff for session token")

	// ErrMalformedResponse indicates a response body could not be interpreted.
	ErrMalformedResponse = errors.New("backend: malformed response")

	// ErrInvalidConfig indicates invalid client configuration.
	ErrInvalidConfig = errors.New("backend: invalid configuration")

	// ErrInvalidSatisfaction indicates a rating other than LIKE or DISLIKE.
	ErrInvalidSatisfaction = errors.New("backend: invalid satisfaction")
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements error.
func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("backend: status %d: %s", e.StatusCode, body)
}

// Unwrap lets errors.Is match ErrBackend.
func (e *StatusError) Unwrap() error {
	return ErrBackend
}
