// Package watcher implements spool completion waits using fsnotify with a
// polling fallback.
package watcher

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trellis.sh/taskrun/internal/core/domain"
	"go.trellis.sh/taskrun/internal/core/ports"
)

// Watcher implements ports.CompletionWatcher. Filesystem events only wake
// the wait early; the condition is re-checked on every poll tick regardless,
// so behaviour is identical to plain polling when notifications are
// unavailable or lossy.
type Watcher struct{}

// NewWatcher creates a new completion watcher.
func NewWatcher() *Watcher {
	return &Watcher{}
}

// Wait blocks until done() reports true or the context is cancelled.
func (w *Watcher) Wait(ctx context.Context, dir string, done func() bool) error {
	if done() {
		return nil
	}

	var events chan fsnotify.Event

	fw, err := fsnotify.NewWatcher()
	if err == nil {
		defer func() { _ = fw.Close() }()
		if addErr := fw.Add(dir); addErr == nil {
			events = fw.Events
		}
	}

	ticker := time.NewTicker(domain.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-events:
			if done() {
				return nil
			}
		case <-ticker.C:
			if done() {
				return nil
			}
		}
	}
}

var _ ports.CompletionWatcher = (*Watcher)(nil)
