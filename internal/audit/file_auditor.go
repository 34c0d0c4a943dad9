package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/darmiel/checkin/internal/core"
)

var (
	_ core.Auditor = (*FileAuditor)(nil)

	ErrAuditorClosed = errors.New("audit log is closed")
)

// FileAuditor appends JSON lines to an audit file. Each entry is written with
// a single write call, so concurrent writers to the same O_APPEND file never interleave.
type FileAuditor struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	closed bool
}

func NewFileAuditor(path string) (*FileAuditor, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening audit log %s: %w", path, err)
	}
	return &FileAuditor{path: path, file: file}, nil
}

func (a *FileAuditor) Log(entry core.AuditEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding audit entry: %w", err)
	}
	line = append(line, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrAuditorClosed
	}
	if _, err := a.file.Write(line); err != nil {
		return fmt.Errorf("appending to %s: %w", a.path, err)
	}
	return nil
}

// Close flushes the file to disk and closes it. Calling Close twice is a no-op.
func (a *FileAuditor) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return errors.Join(a.file.Sync(), a.file.Close())
}
