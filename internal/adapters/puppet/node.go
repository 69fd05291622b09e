package puppet

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trellis.sh/taskrun/internal/adapters/httpfetch"
	"go.trellis.sh/taskrun/internal/adapters/logger"
	"go.trellis.sh/taskrun/internal/core/ports"
)

// NodeID is the unique identifier for the task resolver Graft node.
const NodeID graft.ID = "adapter.resolver"

func init() {
	graft.Register(graft.Node[ports.TaskResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{httpfetch.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.TaskResolver, error) {
			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewResolver(fetcher, log)
		},
	})
}
