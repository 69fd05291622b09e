// Package httpfetch implements the upstream server fetcher over net/http.
package httpfetch

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.trai.ch/zerr"
	"go.trellis.sh/taskrun/internal/core/ports"
)

// Client implements ports.Fetcher against a single base URL. Certificate
// handling belongs to the http.Client the host supplies.
type Client struct {
	base   *url.URL
	client *http.Client
}

// New creates a fetcher for the given base URL, e.g. https://puppet:8140.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, zerr.Wrap(err, "invalid server url")
	}

	return &Client{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// NewWithHTTPClient creates a fetcher using a caller-provided http.Client,
// typically one carrying the agent's TLS configuration.
func NewWithHTTPClient(baseURL string, client *http.Client) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, zerr.Wrap(err, "invalid server url")
	}

	return &Client{base: base, client: client}, nil
}

// Get issues a GET for the given server path. The path is taken verbatim,
// query string included. The caller owns the response body.
func (c *Client) Get(ctx context.Context, path string, headers map[string]string) (*ports.Response, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid request path"), "path", path)
	}

	target := c.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build request")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "request failed"), "url", target.String())
	}

	return &ports.Response{Code: resp.StatusCode, Body: resp.Body}, nil
}

var _ ports.Fetcher = (*Client)(nil)
