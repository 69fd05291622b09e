package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trellis.sh/taskrun/internal/core/ports"
)

// NodeID is the unique identifier for the completion watcher Graft node.
const NodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[ports.CompletionWatcher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CompletionWatcher, error) {
			return NewWatcher(), nil
		},
	})
}
