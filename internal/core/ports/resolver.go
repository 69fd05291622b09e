package ports

import (
	"context"

	"go.trellis.sh/taskrun/internal/core/domain"
)

// TaskResolver fetches task descriptors and listings from the upstream server.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type TaskResolver interface {
	// Metadata fetches the descriptor for a qualified task name in the given
	// puppet environment.
	Metadata(ctx context.Context, qname, environment string) (*domain.TaskDescriptor, error)

	// List fetches the tasks known to the given puppet environment, sorted by
	// name ascending.
	List(ctx context.Context, environment string) ([]domain.TaskInfo, error)
}
