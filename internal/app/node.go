package app

import (
	"context"

	"github.com/grindlemire/graft"

	"go.kiln.dev/kiln/internal/adapters/cas"
	"go.kiln.dev/kiln/internal/adapters/fs"
	"go.kiln.dev/kiln/internal/adapters/logger"
	"go.kiln.dev/kiln/internal/adapters/moduledisc"
	"go.kiln.dev/kiln/internal/adapters/telemetry"
	"go.kiln.dev/kiln/internal/adapters/valueformat"
	"go.kiln.dev/kiln/internal/core/ports"
	"go.kiln.dev/kiln/internal/engine/hashing"
)

// NodeID identifies the App node in the wiring graph.
const NodeID graft.ID = "app.main"

// ComponentsNodeID identifies the Components node, the bundle cmd/kiln's main
// actually resolves.
const ComponentsNodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cas.NodeID, fs.NodeID, hashing.NodeID, valueformat.NodeID, logger.NodeID, telemetry.TracerNodeID, moduledisc.NodeID},
		Run: func(ctx context.Context) (*App, error) {
			cache, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			dest, err := graft.Dep[ports.DestManager](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			format, err := graft.Dep[ports.ValueFormat[any]](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			discovery, err := graft.Dep[ports.ModuleDiscovery](ctx)
			if err != nil {
				return nil, err
			}
			return New(cache, dest, hasher, format, log, tracer, discovery), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}
