package ports

import (
	"context"

	"go.trellis.sh/taskrun/internal/core/domain"
)

// ArtifactCache is the content-addressed local store for task files.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ArtifactCache interface {
	// IsCached reports whether the file is present, has the expected size and
	// hashes to its declared SHA-256. Integrity is verified on every call.
	IsCached(file domain.FileEntry) bool

	// EnsureCached downloads every file that is not already cached. If any
	// single file ultimately fails, the batch fails.
	EnsureCached(ctx context.Context, files []domain.FileEntry) error

	// Path returns the on-disk location a cached file occupies, whether or
	// not it is currently present.
	Path(file domain.FileEntry) string
}
