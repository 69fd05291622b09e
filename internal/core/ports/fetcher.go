// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Response is the result of a Fetcher request. Body is only valid until
// closed and may stream directly from the network.
type Response struct {
	Code int
	Body io.ReadCloser
}

// Fetcher issues GET requests against the upstream Puppet Server. TLS,
// certificate handling and server discovery are the implementation's concern.
//
//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Get issues a GET for the given server path with the given headers.
	// The caller owns the response body and must close it.
	Get(ctx context.Context, path string, headers map[string]string) (*Response, error)
}
