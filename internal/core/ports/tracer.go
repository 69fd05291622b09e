package ports

import "context"

// Tracer records spans around the slow paths: task runs, wrapper launches
// and file caching. Metadata and list lookups open no span of their own.
//
//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Tracer interface {
	// Span starts a span and returns the derived context together with a
	// finish function. Passing a non-nil error to finish marks the span failed.
	Span(ctx context.Context, name string) (context.Context, func(err error))
}
