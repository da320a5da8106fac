// Package common defines shared constants and sentinel errors used across
// feedbackhub layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors. Wrap with a human-readable reason:
	// fmt.Errorf("%w: text must be 1-1000 characters", ErrorValidation).
	ErrorValidation = errors.New("validation error")

	// Auth/token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
