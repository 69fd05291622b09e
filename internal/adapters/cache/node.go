package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trellis.sh/taskrun/internal/adapters/config"
	"go.trellis.sh/taskrun/internal/adapters/httpfetch"
	"go.trellis.sh/taskrun/internal/adapters/logger"
	"go.trellis.sh/taskrun/internal/adapters/telemetry"
	"go.trellis.sh/taskrun/internal/core/ports"
)

// NodeID is the unique identifier for the artifact cache Graft node.
const NodeID graft.ID = "adapter.cache"

func init() {
	graft.Register(graft.Node[ports.ArtifactCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, httpfetch.NodeID, logger.NodeID, telemetry.NodeID},
		Run: func(ctx context.Context) (ports.ArtifactCache, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}

			fetcher, err := graft.Dep[ports.Fetcher](ctx)
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

			return New(cfg.CacheDir, fetcher, log, tracer), nil
		},
	})
}
