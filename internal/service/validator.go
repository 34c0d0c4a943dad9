package service

import (
	"context"
	"crypto/subtle"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/checkin/internal/audit"
	"github.com/darmiel/checkin/internal/core"
	"github.com/darmiel/checkin/internal/correlation"
)

// UnknownDisplayName is shown for identities missing from the directory.
const UnknownDisplayName = "Unknown"

type ValidateRequest struct {
	// Session whose pending token is checked.
	Session core.SessionID

	// Token is the value submitted from the scanned payload.
	Token string

	// Identity is the presenter checking in, as resolved by the surrounding layer.
	Identity string
}

// TokenValidator consumes pending tokens and records successful check-ins.
type TokenValidator struct {
	store     core.TokenStore
	recorder  core.AttendanceRecorder
	directory core.Directory
	auditor   core.Auditor
	opts      options
}

func NewTokenValidator(
	store core.TokenStore,
	recorder core.AttendanceRecorder,
	directory core.Directory,
	auditor core.Auditor,
	opts ...Option,
) *TokenValidator {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}
	return &TokenValidator{
		store:     store,
		recorder:  recorder,
		directory: directory,
		auditor:   auditor,
		opts:      applyOptions(opts),
	}
}

// ValidateToken checks the submitted value against the session's pending token.
// Whenever a pending token exists it is consumed, regardless of the outcome.
// All failure paths resolve to an Outcome; nothing is returned as an error.
func (v *TokenValidator) ValidateToken(ctx context.Context, req ValidateRequest) core.Result {
	logger := log.Ctx(ctx).With().Str("session", string(req.Session)).Logger()

	result := core.Result{Outcome: core.OutcomeInvalid}
	auditEntry := core.AuditEntry{
		ID:       correlation.FromContext(ctx),
		Time:     v.opts.now(),
		Action:   "token.validate",
		Session:  req.Session,
		Identity: req.Identity,
	}
	defer func() {
		outcome := result.Outcome
		auditEntry.Outcome = &outcome
		auditEntry.Success = result.Accepted()
		v.opts.observer.TokenValidated(outcome)
		if err := v.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for token validation")
		}
	}()

	if req.Token == "" {
		auditEntry.Error = "empty token"
		logger.Debug().Msg("empty token submitted")
		return result
	}

	pending, ok, err := v.store.Take(ctx, req.Session)
	if err != nil {
		auditEntry.Error = "token store unavailable"
		logger.Error().Err(err).Msg("failed to take pending token")
		return result
	}
	if !ok {
		auditEntry.Error = "no pending token"
		logger.Debug().Msg("no pending token for session")
		return result
	}
	auditEntry.TokenFingerprint = audit.Fingerprint(pending.Value)

	// evaluate both conditions before branching so a mismatch and an expiry take the same path
	now := v.opts.now()
	matches := tokensEqual(pending.Value, req.Token)
	live := pending.ValidAt(now)
	if !matches || !live {
		result.Outcome = core.OutcomeExpiredOrReused
		switch {
		case !matches:
			auditEntry.Error = "token mismatch"
		default:
			auditEntry.Error = "token expired"
		}
		logger.Info().
			Str("fingerprint", auditEntry.TokenFingerprint).
			Str("reason", auditEntry.Error).
			Msg("token rejected")
		return result
	}

	name, ok := v.directory.DisplayName(req.Identity)
	if !ok {
		name = UnknownDisplayName
	}
	result = core.Result{
		Outcome:     core.OutcomeAccepted,
		Identity:    req.Identity,
		DisplayName: name,
		CheckedInAt: now,
	}

	if err := v.recorder.RecordAttendance(ctx, req.Identity, now); err != nil {
		// the token is already spent, so the check-in stands; the operator has to reconcile
		auditEntry.Error = "recording attendance failed"
		v.opts.observer.RecordFailed()
		logger.Error().Err(err).Str("identity", req.Identity).Msg("failed to record attendance")
	}

	logger.Info().
		Str("identity", req.Identity).
		Str("fingerprint", auditEntry.TokenFingerprint).
		Msg("attendance accepted")
	return result
}

// tokensEqual compares in constant time for equal-length inputs.
func tokensEqual(stored, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
