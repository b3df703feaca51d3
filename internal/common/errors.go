// Package common defines shared constants and sentinel errors used across
// CodeQuest server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential errors. Login with an unknown email and login with a wrong
	// password both map to this single value so that the two cases stay
	// indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token lifecycle errors. Distinct values so the root cause can be
	// logged, but the HTTP boundary collapses all of them to one 401.
	ErrTokenMalformed        = errors.New("malformed token")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")

	// ErrMalformedAuthHeader is returned when the Authorization header does
	// not carry the "Bearer <token>" scheme. Checked before any token parsing.
	ErrMalformedAuthHeader = errors.New("invalid auth header format")
)
