// Package credstore persists bearer credentials on the client device.
package credstore

// Kind selects which credential a Store operation addresses.
type Kind int

const (
	// Access is the short-lived bearer token authorizing API calls.
	Access Kind = iota
	// Refresh is the longer-lived token used solely to mint a new access token.
	Refresh
)

func (k Kind) String() string {
	if k == Refresh {
		return "refresh"
	}
	return "access"
}

// Store is durable key-value persistence for access/refresh tokens.
// It performs no validation and has no side effects beyond persistence.
//
// Implementations never surface storage errors: a failed read reports the
// credential as absent and a failed write is a no-op, so callers always see
// a consistent "no credential" signal instead of crashing.
type Store interface {
	Get(kind Kind) (string, bool)
	Set(kind Kind, token string)
	Remove(kind Kind)
}
