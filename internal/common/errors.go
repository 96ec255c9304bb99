// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input validation errors.
	ErrEmptySeed     = errors.New("seed phrase is empty")
	ErrInvalidFilter = errors.New("invalid filter")

	// Cache errors.
	ErrCacheCorrupted = errors.New("cache entry corrupted")

	// Search Console errors.
	ErrMissingToken    = errors.New("missing access token")
	ErrMissingProperty = errors.New("missing property identifier")

	// Configuration errors.
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
