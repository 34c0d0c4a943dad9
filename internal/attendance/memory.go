package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/darmiel/checkin/internal/core"
)

var (
	_ core.AttendanceRecorder = (*MemoryRecorder)(nil)
	_ Lister                  = (*MemoryRecorder)(nil)
)

// MemoryRecorder keeps records in process memory. Useful for development and tests.
type MemoryRecorder struct {
	mu      sync.Mutex
	records []Record
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		records: make([]Record, 0),
	}
}

func (m *MemoryRecorder) RecordAttendance(_ context.Context, identity string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, newRecord(identity, at))
	return nil
}

// Records returns a copy of all stored records.
func (m *MemoryRecorder) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	cpy := make([]Record, len(m.records))
	copy(cpy, m.records)
	return cpy
}

func (m *MemoryRecorder) ListAttendance(_ context.Context, identity string, limit int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Record
	for i := len(m.records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if identity == "" || m.records[i].Identity == identity {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func (m *MemoryRecorder) Close() error {
	return nil
}
