package core

import "time"

const (
	// TokenTTL is the validity window of a freshly issued attendance token.
	TokenTTL = 60 * time.Second

	// TokenBytes is the number of random bytes backing a token value.
	// The external representation is lowercase hex, so 2*TokenBytes characters.
	TokenBytes = 32
)

// SessionID identifies the session scoping exactly one pending token.
// It is opaque to the core and provided by the surrounding session layer.
type SessionID string

// PendingToken is the state of an issued, not yet consumed token.
type PendingToken struct {
	// Value is the hex-encoded secret. It must never be logged.
	Value string

	// IssuedAt is the time the token was issued.
	IssuedAt time.Time

	// ExpiresAt is the absolute time after which the token is inert.
	ExpiresAt time.Time
}

// ValidAt reports whether the token is still within its validity window at t.
func (p PendingToken) ValidAt(t time.Time) bool {
	return t.Before(p.ExpiresAt)
}

// IssuedToken is the result of a successful issuance, handed to the session that requested it.
type IssuedToken struct {
	// Value is the token as it should be embedded into the scannable payload.
	Value string `json:"token"`

	// ExpiresAt is when the token becomes invalid.
	ExpiresAt time.Time `json:"-"`

	// Fingerprint is a one-way digest of Value, safe for logs and audit entries.
	Fingerprint string `json:"-"`
}
