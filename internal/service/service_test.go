package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/checkin/internal/audit"
	"github.com/darmiel/checkin/internal/core"
	"github.com/darmiel/checkin/internal/store"
)

const testSession core.SessionID = "kiosk"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type attendanceCall struct {
	Identity string
	At       time.Time
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []attendanceCall
	err   error
}

func (r *fakeRecorder) RecordAttendance(_ context.Context, identity string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, attendanceCall{Identity: identity, At: at})
	return r.err
}

func (r *fakeRecorder) Calls() []attendanceCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]attendanceCall(nil), r.calls...)
}

type mapDirectory map[string]string

func (d mapDirectory) DisplayName(identity string) (string, bool) {
	name, ok := d[identity]
	return name, ok
}

type fixture struct {
	clock     *fakeClock
	store     *store.InMemoryTokenStore
	recorder  *fakeRecorder
	auditor   *audit.InMemoryAuditor
	issuer    *TokenIssuer
	validator *TokenValidator
}

func newFixture() *fixture {
	f := &fixture{
		clock:    newFakeClock(),
		store:    store.NewInMemoryTokenStore(),
		recorder: &fakeRecorder{},
		auditor:  audit.NewInMemoryAuditor(),
	}
	dir := mapDirectory{"user123": "Juan Perez", "user456": "Maria Rodriguez"}
	f.issuer = NewTokenIssuer(f.store, f.auditor, WithClock(f.clock.Now))
	f.validator = NewTokenValidator(f.store, f.recorder, dir, f.auditor, WithClock(f.clock.Now))
	return f
}

func (f *fixture) issue(t *testing.T) string {
	t.Helper()
	tok, err := f.issuer.IssueToken(context.Background(), testSession)
	require.NoError(t, err)
	return tok.Value
}

func (f *fixture) validate(token string) core.Result {
	return f.validator.ValidateToken(context.Background(), ValidateRequest{
		Session:  testSession,
		Token:    token,
		Identity: "user123",
	})
}

func TestIssueToken_Format(t *testing.T) {
	f := newFixture()
	tok, err := f.issuer.IssueToken(context.Background(), testSession)
	require.NoError(t, err)

	assert.Len(t, tok.Value, 2*core.TokenBytes)
	assert.Equal(t, strings.ToLower(tok.Value), tok.Value)
	assert.Regexp(t, `^[0-9a-f]{64}$`, tok.Value)
	assert.Equal(t, f.clock.Now().Add(core.TokenTTL), tok.ExpiresAt)
	assert.Equal(t, audit.Fingerprint(tok.Value), tok.Fingerprint)
	assert.True(t, f.store.Pending(testSession))
}

func TestIssueToken_Uniqueness(t *testing.T) {
	f := newFixture()
	const n = 10_000

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		v := f.issue(t)
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate token after %d issuances", i)
		}
		seen[v] = struct{}{}
	}
	assert.Equal(t, 1, f.store.Len(), "only one token may be pending per session")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("no entropy")
}

func TestIssueToken_EntropyFailure(t *testing.T) {
	st := store.NewInMemoryTokenStore()
	auditor := audit.NewInMemoryAuditor()
	issuer := NewTokenIssuer(st, auditor, WithRandom(failingReader{}))

	tok, err := issuer.IssueToken(context.Background(), testSession)
	require.Error(t, err)
	assert.Nil(t, tok)
	assert.ErrorIs(t, err, ErrEntropySourceUnavailable)
	assert.Equal(t, 500, StatusCode(err, 0))
	assert.False(t, st.Pending(testSession), "no token may be stored when entropy fails")

	entries, _ := auditor.GetRecent(1)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
}

func TestIssueToken_FailureKeepsPreviousToken(t *testing.T) {
	f := newFixture()
	first := f.issue(t)

	broken := NewTokenIssuer(f.store, nil, WithRandom(failingReader{}))
	_, err := broken.IssueToken(context.Background(), testSession)
	require.ErrorIs(t, err, ErrEntropySourceUnavailable)

	assert.Equal(t, core.OutcomeAccepted, f.validate(first).Outcome)
}

func TestValidateToken_SingleUse(t *testing.T) {
	f := newFixture()
	tok := f.issue(t)

	first := f.validate(tok)
	require.Equal(t, core.OutcomeAccepted, first.Outcome)
	assert.Equal(t, "user123", first.Identity)
	assert.Equal(t, "Juan Perez", first.DisplayName)

	second := f.validate(tok)
	assert.NotEqual(t, core.OutcomeAccepted, second.Outcome)
	assert.Len(t, f.recorder.Calls(), 1)
}

func TestValidateToken_ExpiryBoundary(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		want    core.Outcome
	}{
		{name: "One Second Before Expiry", advance: core.TokenTTL - time.Second, want: core.OutcomeAccepted},
		{name: "At Expiry", advance: core.TokenTTL, want: core.OutcomeExpiredOrReused},
		{name: "One Second After Expiry", advance: core.TokenTTL + time.Second, want: core.OutcomeExpiredOrReused},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tok := f.issue(t)
			f.clock.Advance(tt.advance)

			got := f.validate(tok)
			assert.Equal(t, tt.want, got.Outcome)
			assert.False(t, f.store.Pending(testSession), "slot must be empty after any validation")
		})
	}
}

func TestValidateToken_OverwriteWithoutUse(t *testing.T) {
	f := newFixture()
	first := f.issue(t)
	second := f.issue(t)
	require.NotEqual(t, first, second)

	got := f.validate(first)
	assert.NotEqual(t, core.OutcomeAccepted, got.Outcome)

	// the mismatch consumed the second token as well
	assert.Equal(t, core.OutcomeInvalid, f.validate(second).Outcome)
	assert.Empty(t, f.recorder.Calls())
}

func TestValidateToken_InvalidPaths(t *testing.T) {
	t.Run("Empty Token Leaves Slot Untouched", func(t *testing.T) {
		f := newFixture()
		tok := f.issue(t)

		assert.Equal(t, core.OutcomeInvalid, f.validate("").Outcome)
		assert.True(t, f.store.Pending(testSession))
		assert.Equal(t, core.OutcomeAccepted, f.validate(tok).Outcome)
	})

	t.Run("Never Issued", func(t *testing.T) {
		f := newFixture()
		assert.Equal(t, core.OutcomeInvalid, f.validate(strings.Repeat("0", 64)).Outcome)
	})

	t.Run("Other Session", func(t *testing.T) {
		f := newFixture()
		tok := f.issue(t)

		got := f.validator.ValidateToken(context.Background(), ValidateRequest{
			Session: "someone-else", Token: tok, Identity: "user123",
		})
		assert.Equal(t, core.OutcomeInvalid, got.Outcome)
		assert.True(t, f.store.Pending(testSession), "other sessions must not be affected")
	})

	t.Run("Wrong Value Burns Token", func(t *testing.T) {
		f := newFixture()
		tok := f.issue(t)

		assert.Equal(t, core.OutcomeExpiredOrReused, f.validate(strings.Repeat("f", 64)).Outcome)
		assert.Equal(t, core.OutcomeInvalid, f.validate(tok).Outcome)
	})
}

func TestValidateToken_UnknownIdentity(t *testing.T) {
	f := newFixture()
	tok := f.issue(t)

	got := f.validator.ValidateToken(context.Background(), ValidateRequest{
		Session: testSession, Token: tok, Identity: "ghost",
	})
	require.True(t, got.Accepted())
	assert.Equal(t, UnknownDisplayName, got.DisplayName)
}

func TestValidateToken_RecorderFailureStillAccepted(t *testing.T) {
	f := newFixture()
	f.recorder.err = errors.New("db down")
	tok := f.issue(t)

	got := f.validate(tok)
	assert.Equal(t, core.OutcomeAccepted, got.Outcome)

	entries, _ := f.auditor.Find(func(e core.AuditEntry) bool { return e.Action == "token.validate" }, 1)
	require.Len(t, entries, 1)
	assert.Equal(t, "recording attendance failed", entries[0].Error)
}

func TestValidateToken_ScenarioAcceptThenInvalid(t *testing.T) {
	f := newFixture()
	start := f.clock.Now()
	tok := f.issue(t)

	f.clock.Advance(30 * time.Second)
	got := f.validate(tok)
	require.Equal(t, core.OutcomeAccepted, got.Outcome)
	assert.Equal(t, start.Add(30*time.Second), got.CheckedInAt)
	assert.False(t, f.store.Pending(testSession))

	calls := f.recorder.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, attendanceCall{Identity: "user123", At: start.Add(30 * time.Second)}, calls[0])

	f.clock.Advance(time.Second)
	assert.Equal(t, core.OutcomeInvalid, f.validate(tok).Outcome)
}

func TestValidateToken_ScenarioExpired(t *testing.T) {
	f := newFixture()
	tok := f.issue(t)

	f.clock.Advance(65 * time.Second)
	assert.Equal(t, core.OutcomeExpiredOrReused, f.validate(tok).Outcome)
	assert.False(t, f.store.Pending(testSession))
	assert.Empty(t, f.recorder.Calls())
}

func TestValidateToken_ConcurrentSingleAccept(t *testing.T) {
	for round := 0; round < 25; round++ {
		f := newFixture()
		tok := f.issue(t)

		var accepted atomic.Int32
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if f.validate(tok).Accepted() {
					accepted.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		require.Equal(t, int32(1), accepted.Load(), "a token must be accepted exactly once")
		assert.Len(t, f.recorder.Calls(), 1)
	}
}

func TestValidateToken_AuditNeverContainsToken(t *testing.T) {
	f := newFixture()
	tok := f.issue(t)
	f.validate(tok)

	entries, _ := f.auditor.GetRecent(0)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotContains(t, e.TokenFingerprint, tok)
		assert.Equal(t, audit.Fingerprint(tok), e.TokenFingerprint)
	}
	require.NotNil(t, entries[1].Outcome)
	assert.Equal(t, core.OutcomeAccepted, *entries[1].Outcome)
}

func TestTokensEqual(t *testing.T) {
	a := strings.Repeat("a", 64)
	assert.True(t, tokensEqual(a, a))
	assert.False(t, tokensEqual(a, strings.Repeat("a", 63)+"b"))
	assert.False(t, tokensEqual(a, a[:32]))
	assert.False(t, tokensEqual(a, ""))
}

// TestTokensEqual_Timing compares the cost of a mismatch in the first byte with a
// mismatch in the last byte and with a full match. An early-exit comparison would
// make the first-byte case markedly cheaper.
func TestTokensEqual_Timing(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test skipped in short mode")
	}

	stored := strings.Repeat("3", 64)
	correct := stored
	firstWrong := "4" + stored[1:]
	lastWrong := stored[:63] + "4"

	measure := func(candidate string) time.Duration {
		const iterations = 20_000
		best := time.Duration(1<<63 - 1)
		for round := 0; round < 7; round++ {
			start := time.Now()
			for i := 0; i < iterations; i++ {
				tokensEqual(stored, candidate)
			}
			if d := time.Since(start); d < best {
				best = d
			}
		}
		return best
	}

	// warm up
	measure(correct)

	tCorrect := measure(correct)
	tFirst := measure(firstWrong)
	tLast := measure(lastWrong)

	ratio := func(a, b time.Duration) float64 {
		if a > b {
			return float64(a) / float64(b)
		}
		return float64(b) / float64(a)
	}

	assert.Less(t, ratio(tFirst, tCorrect), 3.0, "first-byte mismatch vs correct: %s vs %s", tFirst, tCorrect)
	assert.Less(t, ratio(tFirst, tLast), 3.0, "first-byte vs last-byte mismatch: %s vs %s", tFirst, tLast)
}

type countingObserver struct {
	mu       sync.Mutex
	issued   int
	outcomes map[core.Outcome]int
	failures int
}

func (o *countingObserver) TokenIssued() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.issued++
}

func (o *countingObserver) TokenValidated(outcome core.Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcomes == nil {
		o.outcomes = make(map[core.Outcome]int)
	}
	o.outcomes[outcome]++
}

func (o *countingObserver) RecordFailed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures++
}

func TestObserver(t *testing.T) {
	obs := &countingObserver{}
	st := store.NewInMemoryTokenStore()
	recorder := &fakeRecorder{err: errors.New("disk full")}
	issuer := NewTokenIssuer(st, nil, WithObserver(obs))
	validator := NewTokenValidator(st, recorder, mapDirectory{}, nil, WithObserver(obs))
	ctx := context.Background()

	tok, err := issuer.IssueToken(ctx, testSession)
	require.NoError(t, err)
	validator.ValidateToken(ctx, ValidateRequest{Session: testSession, Token: tok.Value, Identity: "user123"})
	validator.ValidateToken(ctx, ValidateRequest{Session: testSession, Token: tok.Value, Identity: "user123"})

	_, err = NewTokenIssuer(st, nil, WithObserver(obs), WithRandom(failingReader{})).IssueToken(ctx, testSession)
	require.Error(t, err)

	assert.Equal(t, 1, obs.issued, "failed issuance must not be counted")
	assert.Equal(t, 1, obs.outcomes[core.OutcomeAccepted])
	assert.Equal(t, 1, obs.outcomes[core.OutcomeInvalid])
	assert.Equal(t, 1, obs.failures)
}

func TestValidateToken_DoesNotTouchGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	origLogger, origDefault := log.Logger, zerolog.DefaultContextLogger
	t.Cleanup(func() {
		log.Logger = origLogger
		zerolog.DefaultContextLogger = origDefault
	})
	log.Logger = zerolog.New(&buf)
	zerolog.DefaultContextLogger = &log.Logger

	f := newFixture()
	// background context carries no request logger, so log.Ctx falls back to the global one
	for range 3 {
		f.validator.ValidateToken(context.Background(), ValidateRequest{Session: testSession, Token: "x", Identity: "user123"})
	}

	buf.Reset()
	log.Info().Msg("after")
	assert.NotContains(t, buf.String(), `"session"`)
}
