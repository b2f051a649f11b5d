// Package common defines shared constants and sentinel errors used across
// client and server layers of TaskPulse. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Session authority errors. InvalidCredentials and Unauthorized are kept
	// generic on purpose: callers must not learn which check failed.
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStoreUnavailable   = errors.New("store unavailable")

	// Input validation errors.
	ErrValidation = errors.New("validation error")
)
