// Package token decodes NoteNest credentials into session claims.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notenest/notenest/internal/errs"
)

// Claims is the decoded payload of an access credential: subject identity
// plus the registered temporal claims.
type Claims struct {
	UserID    string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	jwt.RegisteredClaims
}

// Decode extracts claims from a raw credential without verifying the
// signature; the client holds no signing key and the server stays the
// authority. Malformed input wraps errs.ErrMalformedCredential.
func Decode(raw string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedCredential, err)
	}
	return &claims, nil
}

// IsExpired reports whether the claims expired at or before now (epoch
// seconds, no leeway). Claims without an expiry never expire.
func IsExpired(c *Claims, now time.Time) bool {
	if c == nil {
		return true
	}
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Unix() <= now.Unix()
}
