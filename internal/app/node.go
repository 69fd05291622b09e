package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trellis.sh/taskrun/internal/adapters/cache"
	"go.trellis.sh/taskrun/internal/adapters/launcher"
	"go.trellis.sh/taskrun/internal/adapters/logger"
	"go.trellis.sh/taskrun/internal/adapters/puppet"
	"go.trellis.sh/taskrun/internal/adapters/spool"
	"go.trellis.sh/taskrun/internal/adapters/telemetry"
	"go.trellis.sh/taskrun/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"

	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components. This
// struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			puppet.NodeID,
			cache.NodeID,
			launcher.NodeID,
			spool.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			resolver, err := graft.Dep[ports.TaskResolver](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.ArtifactCache](ctx)
			if err != nil {
				return nil, err
			}

			launch, err := graft.Dep[ports.Launcher](ctx)
			if err != nil {
				return nil, err
			}

			spoolStore, err := graft.Dep[*spool.Store](ctx)
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

			return New(resolver, store, launch, spoolStore, log, tracer), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: application, Logger: log}, nil
		},
	})
}
