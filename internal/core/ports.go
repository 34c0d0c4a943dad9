package core

import (
	"context"
	"net/http"
	"time"
)

// TokenStore holds at most one pending token per session.
// Implementations must be safe for concurrent use.
type TokenStore interface {
	// Put stores token for session, replacing (and discarding) any previous pending token.
	Put(ctx context.Context, session SessionID, token PendingToken) error

	// Take atomically removes and returns the pending token for session.
	// The boolean is false if no token was pending.
	Take(ctx context.Context, session SessionID) (PendingToken, bool, error)
}

// AttendanceRecorder is the narrow write interface to durable attendance storage.
type AttendanceRecorder interface {
	RecordAttendance(ctx context.Context, identity string, at time.Time) error
}

// IdentityResolver determines which presenter is checking in for a request.
// Implementations: fixed identity, JWT-backed presenter session.
type IdentityResolver interface {
	// Name returns the identifier of this resolver (as used in config).
	Name() string

	// Resolve returns the presenter identity for the request.
	Resolve(r *http.Request) (string, error)
}

// Directory maps presenter identities to display names.
type Directory interface {
	// DisplayName returns the display name for identity, if known.
	DisplayName(identity string) (string, bool)
}

// Clock returns the current time. Tests swap it for a controllable one.
type Clock func() time.Time

// Observer is notified about token lifecycle events, e.g. to export metrics.
type Observer interface {
	TokenIssued()
	TokenValidated(outcome Outcome)
	RecordFailed()
}
