package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestResult_Message(t *testing.T) {
	at := time.Date(2026, 3, 2, 14, 5, 9, 0, time.UTC)

	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{
			name:   "Accepted",
			result: Result{Outcome: OutcomeAccepted, DisplayName: "Juan Perez", CheckedInAt: at},
			want:   "Attendance recorded successfully for Juan Perez at 02:05:09 PM!",
		},
		{
			name:   "Expired",
			result: Result{Outcome: OutcomeExpiredOrReused},
			want:   MessageExpiredOrReused,
		},
		{
			name:   "Invalid",
			result: Result{Outcome: OutcomeInvalid},
			want:   MessageInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Message(time.UTC); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutcome_JSON(t *testing.T) {
	data, err := json.Marshal(Result{Outcome: OutcomeExpiredOrReused})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"outcome":"expired_or_reused"}` {
		t.Errorf("unexpected json: %s", data)
	}

	var r Result
	if err := json.Unmarshal([]byte(`{"outcome":"accepted","identity":"user123"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !r.Accepted() || r.Identity != "user123" {
		t.Errorf("unexpected result: %+v", r)
	}

	if err := json.Unmarshal([]byte(`{"outcome":"maybe"}`), &r); err == nil {
		t.Error("expected error for unknown outcome")
	}
}

func TestPendingToken_ValidAt(t *testing.T) {
	now := time.Now()
	p := PendingToken{IssuedAt: now, ExpiresAt: now.Add(TokenTTL)}

	if !p.ValidAt(p.ExpiresAt.Add(-time.Second)) {
		t.Error("token should be valid one second before expiry")
	}
	if p.ValidAt(p.ExpiresAt) {
		t.Error("token must not be valid at its expiry instant")
	}
}
