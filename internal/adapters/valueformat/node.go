package valueformat

import (
	"context"

	"github.com/grindlemire/graft"

	"go.kiln.dev/kiln/internal/core/ports"
)

// NodeID identifies the default value format node in the wiring graph.
const NodeID graft.ID = "adapter.value_format"

func init() {
	graft.Register(graft.Node[ports.ValueFormat[any]]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ValueFormat[any], error) {
			return NewJSON(), nil
		},
	})
}
