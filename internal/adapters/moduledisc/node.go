package moduledisc

import (
	"context"

	"github.com/grindlemire/graft"

	"go.kiln.dev/kiln/internal/core/ports"
)

// NodeID identifies the module discovery registry node in the wiring graph.
const NodeID graft.ID = "adapter.module_discovery"

func init() {
	graft.Register(graft.Node[ports.ModuleDiscovery]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ModuleDiscovery, error) {
			return NewRegistry(), nil
		},
	})
}
