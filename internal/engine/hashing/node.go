package hashing

import (
	"context"

	"github.com/grindlemire/graft"

	"go.kiln.dev/kiln/internal/core/ports"
)

// NodeID identifies the hasher node in the wiring graph.
const NodeID graft.ID = "engine.hasher"

func init() {
	graft.Register(graft.Node[ports.Hasher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewXXHasher(), nil
		},
	})
}
