package ports

import (
	"context"

	"go.trellis.sh/taskrun/internal/core/domain"
)

// Launcher starts the detached task wrapper for a request and tracks it
// through the spool.
//
//go:generate mockgen -source=launcher.go -destination=mocks/mock_launcher.go -package=mocks
type Launcher interface {
	// Run plans the task command, creates the spool, spawns the wrapper and,
	// when wait is true, blocks until the request completes. It always returns
	// the request's status on success.
	Run(ctx context.Context, requestID string, req *domain.TaskRequest, wait bool) (*domain.TaskStatus, error)
}
