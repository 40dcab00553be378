package service

import "errors"

// Service package errors.
var (
	// ErrNotFound indicates a session was not found.
	ErrNotFound = errors.New("service: not found")

	// ErrInvalidSessionName indicates an empty or overly long session name.
	ErrInvalidSessionName = errors.New("service: invalid session name")

	// ErrEmptyMessage indicates neither text nor an attachment was given.
	ErrEmptyMessage = errors.New("service: empty message")

	// ErrMissingSession indicates a message was sent without a session.
	ErrMissingSession = errors.New("service: missing session")

	// ErrUnsupportedAttachment indicates a file that is not plain text or SQL.
	ErrUnsupportedAttachment = errors.New("service: only .txt and .sql files are supported")

	// ErrRejected indicates a before-send hook refused the message.
	ErrRejected = errors.New("service: message rejected")

	// ErrAttachmentTooLarge indicates a file above the size limit.
	ErrAttachmentTooLarge = errors.New("service: attachment too large")
)
