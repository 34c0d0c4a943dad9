package attendance

import (
	"context"
	"fmt"
	"io"

	"github.com/darmiel/checkin/internal/config"
	"github.com/darmiel/checkin/internal/core"
)

// Recorder is a core.AttendanceRecorder that owns resources.
type Recorder interface {
	core.AttendanceRecorder
	io.Closer
}

// FromConfig builds the recorder described by cfg.
func FromConfig(ctx context.Context, cfg config.AttendanceConfig) (Recorder, error) {
	switch cfg.Type {
	case config.AttendanceTypeMemory, "":
		return NewMemoryRecorder(), nil
	case config.AttendanceTypeFile:
		rec, err := NewFileRecorder(cfg.Path)
		if err != nil {
			return nil, err
		}
		return rec, nil
	case config.AttendanceTypePostgres:
		rec, err := OpenPostgres(ctx, cfg.DSN, cfg.Migrate)
		if err != nil {
			return nil, err
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("unknown attendance type '%s'", cfg.Type)
	}
}
