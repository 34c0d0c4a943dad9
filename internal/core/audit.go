package core

import "time"

type AuditEntry struct {
	// ID is the unique request ID (X-Correlation-ID)
	ID string `json:"id"`

	// Time is the timestamp of the event
	Time time.Time `json:"time"`

	// Action describing what happened (e.g. "token.issue", "token.validate")
	Action string `json:"action"`

	// Session the token was issued to or validated against
	Session SessionID `json:"session,omitempty"`

	// Identity of the presenter (validation only, if resolved)
	Identity string `json:"identity,omitempty"`

	// TokenFingerprint is a one-way digest of the token value, never the value itself.
	TokenFingerprint string `json:"token_fingerprint,omitempty"`

	// Outcome of a validation attempt
	Outcome *Outcome `json:"outcome,omitempty"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type Auditor interface {
	Log(entry AuditEntry) error
	Close() error
}

// AuditReader is implemented by auditors that keep entries around for later inspection.
type AuditReader interface {
	GetRecent(limit int) ([]AuditEntry, error)
	Find(filter func(entry AuditEntry) bool, limit int) ([]AuditEntry, error)
}
