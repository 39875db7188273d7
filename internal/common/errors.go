// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrMissingColumn     = errors.New("missing required column")
	ErrFileRead          = errors.New("file could not be read")
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// Catalog errors.
	ErrInvalidCatalog = errors.New("invalid keyword catalog")
	ErrUnknownPreset  = errors.New("unknown catalog preset")

	// Result errors.
	ErrNoResult = errors.New("no processed result")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable reports whether err is worth another attempt. Errors are
// retried unless marked with Permanent or caused by cancellation; a
// RetryableError decides for whatever it wraps.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return !errors.Is(err, context.Canceled)
}
