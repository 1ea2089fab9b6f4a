// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across the credential, gateway, and session layers.
var (
	// ErrMissingCredential indicates a protected call was attempted with no stored token.
	ErrMissingCredential = errors.New("missing credential")

	// ErrMalformedCredential indicates a token could not be decoded into claims.
	ErrMalformedCredential = errors.New("malformed credential")

	// ErrUnauthorized indicates the session is not (or no longer) authenticated.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServerUnavailable indicates a 5xx response or an unreachable server.
	ErrServerUnavailable = errors.New("server unavailable")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
)
