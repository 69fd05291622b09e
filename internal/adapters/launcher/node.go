package launcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trellis.sh/taskrun/internal/adapters/cache"
	"go.trellis.sh/taskrun/internal/adapters/config"
	"go.trellis.sh/taskrun/internal/adapters/logger"
	"go.trellis.sh/taskrun/internal/adapters/planner"
	"go.trellis.sh/taskrun/internal/adapters/spool"
	"go.trellis.sh/taskrun/internal/adapters/telemetry"
	"go.trellis.sh/taskrun/internal/adapters/watcher"
	"go.trellis.sh/taskrun/internal/core/ports"
)

// NodeID is the unique identifier for the launcher Graft node.
const NodeID graft.ID = "adapter.launcher"

func init() {
	graft.Register(graft.Node[ports.Launcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			planner.NodeID,
			cache.NodeID,
			spool.NodeID,
			watcher.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (ports.Launcher, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}

			plan, err := graft.Dep[*planner.Planner](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.ArtifactCache](ctx)
			if err != nil {
				return nil, err
			}

			spoolStore, err := graft.Dep[*spool.Store](ctx)
			if err != nil {
				return nil, err
			}

			completion, err := graft.Dep[ports.CompletionWatcher](ctx)
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

			return New(cfg.WrapperPath(), plan, store, spoolStore, completion, log, tracer), nil
		},
	})
}
