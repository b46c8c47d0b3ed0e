package config

import (
	"context"

	"github.com/grindlemire/graft"

	"go.kiln.dev/kiln/internal/core/ports"
)

// NodeID identifies the settings loader node in the wiring graph.
const NodeID graft.ID = "adapter.settings_loader"

func init() {
	graft.Register(graft.Node[ports.SettingsLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SettingsLoader, error) {
			return NewLoader(), nil
		},
	})
}
