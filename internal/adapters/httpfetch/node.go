package httpfetch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trellis.sh/taskrun/internal/adapters/config"
	"go.trellis.sh/taskrun/internal/core/ports"
)

// NodeID is the unique identifier for the fetcher Graft node.
const NodeID graft.ID = "adapter.fetcher"

func init() {
	graft.Register(graft.Node[ports.Fetcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.Fetcher, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.ServerURL, cfg.HTTPTimeout)
		},
	})
}
