package attendance

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/checkin/internal/core"
)

var (
	_ core.AttendanceRecorder = (*FileRecorder)(nil)
	_ Lister                  = (*FileRecorder)(nil)
)

// FileRecorder appends records to a file, one JSON object per line.
type FileRecorder struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	encoder *json.Encoder
}

func NewFileRecorder(path string) (*FileRecorder, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening attendance file: %w", err)
	}
	return &FileRecorder{
		path:    path,
		file:    file,
		encoder: json.NewEncoder(file),
	}, nil
}

func (f *FileRecorder) RecordAttendance(_ context.Context, identity string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.encoder.Encode(newRecord(identity, at)); err != nil {
		return fmt.Errorf("writing attendance record: %w", err)
	}
	return f.file.Sync()
}

// ListAttendance scans the whole file. Lines that fail to decode are skipped.
func (f *FileRecorder) ListAttendance(ctx context.Context, identity string, limit int) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	in, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("opening attendance file: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	var matches []Record
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("path", f.path).Msg("skipping malformed attendance line")
			continue
		}
		if identity == "" || rec.Identity == identity {
			matches = append(matches, rec)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading attendance file: %w", err)
	}

	// file order is oldest first
	slices.Reverse(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (f *FileRecorder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}
