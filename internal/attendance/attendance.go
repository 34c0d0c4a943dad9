// Package attendance provides the durable stores confirmed check-ins are written to.
package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is a single confirmed check-in.
type Record struct {
	ID         uuid.UUID `json:"id"`
	Identity   string    `json:"identity"`
	RecordedAt time.Time `json:"recorded_at"`
}

func newRecord(identity string, at time.Time) Record {
	return Record{
		ID:         uuid.New(),
		Identity:   identity,
		RecordedAt: at.UTC(),
	}
}

// Lister is implemented by recorders that can read their records back.
type Lister interface {
	// ListAttendance returns up to limit records of identity, most recent first.
	// An empty identity lists all records.
	ListAttendance(ctx context.Context, identity string, limit int) ([]Record, error)
}
