package core

import (
	"fmt"
	"time"
)

// Outcome is the terminal result of a validation attempt.
type Outcome int

const (
	// OutcomeInvalid means there was no pending token to check against (or nothing was submitted).
	OutcomeInvalid Outcome = iota

	// OutcomeExpiredOrReused means a pending token existed but the submitted value
	// did not match it or it had already expired.
	OutcomeExpiredOrReused

	// OutcomeAccepted means the submitted value matched a live pending token.
	OutcomeAccepted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeExpiredOrReused:
		return "expired_or_reused"
	case OutcomeInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "accepted":
		*o = OutcomeAccepted
	case "expired_or_reused":
		*o = OutcomeExpiredOrReused
	case "invalid":
		*o = OutcomeInvalid
	default:
		return fmt.Errorf("unknown outcome '%s'", string(text))
	}
	return nil
}

const (
	MessageExpiredOrReused = "Error: The code has expired or was already used. Please generate a new one."
	MessageInvalid         = "Error: Invalid code."
)

// Result is what the validator reports back to the presentation layer.
type Result struct {
	Outcome Outcome `json:"outcome"`

	// Identity and DisplayName are only set for accepted results.
	Identity    string `json:"identity,omitempty"`
	DisplayName string `json:"display_name,omitempty"`

	// CheckedInAt is the time the check-in was recorded (accepted results only).
	CheckedInAt time.Time `json:"checked_in_at,omitzero"`
}

// Accepted reports whether the result represents a successful check-in.
func (r Result) Accepted() bool {
	return r.Outcome == OutcomeAccepted
}

// Message returns the fixed human-readable message for the result.
// Accepted results format the check-in time in loc (local time if nil).
func (r Result) Message(loc *time.Location) string {
	switch r.Outcome {
	case OutcomeAccepted:
		if loc == nil {
			loc = time.Local
		}
		return fmt.Sprintf("Attendance recorded successfully for %s at %s!",
			r.DisplayName, r.CheckedInAt.In(loc).Format("03:04:05 PM"))
	case OutcomeExpiredOrReused:
		return MessageExpiredOrReused
	default:
		return MessageInvalid
	}
}
