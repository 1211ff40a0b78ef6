// Package common defines shared constants and sentinel errors used across
// the server, the admin CLI and the repositories. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrUniqueViolation = errors.New("unique violation")

	// Provisioning errors.
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrProvisioningFailed = errors.New("provisioning failed")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrValidation         = errors.New("validation error")

	// Credential errors.
	ErrSecretTooLong = errors.New("secret too long")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
