package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/checkin/internal/audit"
	"github.com/darmiel/checkin/internal/core"
	"github.com/darmiel/checkin/internal/correlation"
)

// TokenIssuer creates attendance tokens and parks them in the session's pending slot.
type TokenIssuer struct {
	store   core.TokenStore
	auditor core.Auditor
	opts    options
}

func NewTokenIssuer(store core.TokenStore, auditor core.Auditor, opts ...Option) *TokenIssuer {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}
	return &TokenIssuer{
		store:   store,
		auditor: auditor,
		opts:    applyOptions(opts),
	}
}

// IssueToken generates a fresh token for session, replacing any token still pending for it.
// The previous token is discarded without being validated.
func (i *TokenIssuer) IssueToken(ctx context.Context, session core.SessionID) (*core.IssuedToken, error) {
	logger := log.Ctx(ctx)

	auditEntry := core.AuditEntry{
		ID:      correlation.FromContext(ctx),
		Time:    i.opts.now(),
		Action:  "token.issue",
		Session: session,
	}
	defer func() {
		if err := i.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for token issuance")
		}
	}()

	value, err := GenerateRandomString(i.opts.random, core.TokenBytes)
	if err != nil {
		auditEntry.Error = "entropy source unavailable"
		logger.Error().Err(err).Msg("secure random source failed")
		return nil, httpError(http.StatusInternalServerError, err)
	}

	now := i.opts.now()
	pending := core.PendingToken{
		Value:     value,
		IssuedAt:  now,
		ExpiresAt: now.Add(i.opts.ttl),
	}
	if err := i.store.Put(ctx, session, pending); err != nil {
		auditEntry.Error = "storing pending token failed"
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("storing pending token: %w", err))
	}

	fingerprint := audit.Fingerprint(value)
	auditEntry.TokenFingerprint = fingerprint
	auditEntry.Success = true
	i.opts.observer.TokenIssued()

	logger.Debug().
		Str("session", string(session)).
		Str("fingerprint", fingerprint).
		Time("expires_at", pending.ExpiresAt).
		Msg("token issued")

	return &core.IssuedToken{
		Value:       value,
		ExpiresAt:   pending.ExpiresAt,
		Fingerprint: fingerprint,
	}, nil
}

// GenerateRandomString reads n bytes from r and returns them lowercase hex-encoded.
// Any read failure is reported as ErrEntropySourceUnavailable.
func GenerateRandomString(r io.Reader, n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEntropySourceUnavailable, err)
	}
	return hex.EncodeToString(b), nil
}
