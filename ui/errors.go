package ui

import "errors"

// UI package errors.
var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("ui: invalid configuration")

	// ErrBadCookie indicates a staff cookie with a missing or wrong signature.
	ErrBadCookie = errors.New("ui: invalid staff cookie")
)
