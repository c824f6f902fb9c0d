// Package common defines shared constants and sentinel errors used across
// the forum server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Authorization and role lifecycle errors.
	ErrAccessDenied        = errors.New("access denied")
	ErrDuplicateAssignment = errors.New("user is already a manager of this board")
	ErrInvalidState        = errors.New("invalid state transition")

	// Validation errors.
	ErrValidation       = errors.New("validation failed")
	ErrEmailNotVerified = errors.New("email is not verified")
	ErrInvalidCode      = errors.New("invalid verification code")
	ErrRateLimited      = errors.New("too many requests")

	// Credential errors.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
