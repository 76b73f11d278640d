package services

import "errors"

// Sentinel errors returned by the service layer. Handlers translate these
// into HTTP status codes; services wrap them with context via fmt.Errorf
// and %w so callers can match with errors.Is.
var (
	// ErrNotFound signals that a referenced user or session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a uniqueness violation, e.g. duplicate email.
	ErrConflict = errors.New("already exists")

	// ErrValidation signals malformed input rejected before persistence.
	ErrValidation = errors.New("invalid input")

	// ErrUpstream signals a failed call to the external chat provider.
	ErrUpstream = errors.New("upstream provider error")

	// ErrChatNotConfigured signals that no chat API key is configured.
	ErrChatNotConfigured = errors.New("chat feature is not configured")
)
