package identity

import (
	"github.com/darmiel/checkin/internal/config"
	"github.com/darmiel/checkin/internal/core"
)

var _ core.Directory = (*StaticDirectory)(nil)

// StaticDirectory is a presenter directory loaded from configuration.
type StaticDirectory struct {
	names map[string]string
}

func NewStaticDirectory(presenters []config.PresenterConfig) *StaticDirectory {
	names := make(map[string]string, len(presenters))
	for _, p := range presenters {
		name := p.Name
		if name == "" {
			name = p.ID
		}
		names[p.ID] = name
	}
	return &StaticDirectory{names: names}
}

func (d *StaticDirectory) DisplayName(identity string) (string, bool) {
	name, ok := d.names[identity]
	return name, ok
}
