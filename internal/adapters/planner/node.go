package planner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trellis.sh/taskrun/internal/adapters/cache"
	"go.trellis.sh/taskrun/internal/adapters/config"
	"go.trellis.sh/taskrun/internal/core/ports"
)

// NodeID is the unique identifier for the planner Graft node.
const NodeID graft.ID = "adapter.planner"

func init() {
	graft.Register(graft.Node[*Planner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, cache.NodeID},
		Run: func(ctx context.Context) (*Planner, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.ArtifactCache](ctx)
			if err != nil {
				return nil, err
			}

			return New(store, cfg.ShimPath()), nil
		},
	})
}
