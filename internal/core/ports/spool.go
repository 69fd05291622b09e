package ports

import (
	"time"

	"go.trellis.sh/taskrun/internal/core/domain"
)

// SpoolStore owns the per-request spool directory layout.
//
//go:generate mockgen -source=spool.go -destination=mocks/mock_spool.go -package=mocks
type SpoolStore interface {
	// Path returns the spool directory for a request id, rejecting ids that
	// would escape the spool root.
	Path(requestID string) (string, error)

	// Create makes the spool directory for a request id. It does not create
	// any state files.
	Create(requestID string) (string, error)

	// Exists reports whether the request already has a spool directory.
	Exists(requestID string) bool
}

// StatusObserver answers lifecycle queries for a request by reading its spool
// files. It never writes.
type StatusObserver interface {
	// IsComplete reports whether the request reached a terminal state.
	IsComplete(requestID string) bool

	// Runtime reports how long the task has been running, or ran for.
	Runtime(requestID string) time.Duration

	// Status summarises the request's spool into a status record.
	Status(requestID string) (*domain.TaskStatus, error)
}
