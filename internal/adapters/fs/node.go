package fs

import (
	"context"

	"github.com/grindlemire/graft"

	"go.kiln.dev/kiln/internal/core/ports"
)

// NodeID identifies the dest manager node in the wiring graph.
const NodeID graft.ID = "adapter.dest_manager"

func init() {
	graft.Register(graft.Node[ports.DestManager]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DestManager, error) {
			return NewDestManager(), nil
		},
	})
}
