// Package common defines shared constants and sentinel errors used across
// client and server layers of linkfeed. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("must be logged in")
	ErrForbidden          = errors.New("not allowed to modify this link")

	// Token errors. These never leave the auth layer: an invalid token
	// resolves to an anonymous identity.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
