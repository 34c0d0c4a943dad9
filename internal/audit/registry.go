package audit

import (
	"fmt"

	"github.com/darmiel/checkin/internal/config"
	"github.com/darmiel/checkin/internal/core"
)

// FromConfig builds the auditor described by cfg.
func FromConfig(cfg config.AuditConfig) (core.Auditor, error) {
	if !cfg.Enabled {
		return NewNoopAuditor(), nil
	}
	switch cfg.Type {
	case "memory", "":
		return NewInMemoryAuditor(), nil
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("audit type 'file' requires a path")
		}
		return NewFileAuditor(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown audit type '%s'", cfg.Type)
	}
}
