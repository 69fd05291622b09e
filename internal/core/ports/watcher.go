package ports

import "context"

// CompletionWatcher blocks until a condition about a spool directory holds.
// Implementations may accelerate wakeups with filesystem notifications but
// must re-check the condition on a fixed interval regardless, so semantics
// stay identical to plain polling.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type CompletionWatcher interface {
	// Wait returns nil once done() reports true, or the context error if the
	// context is cancelled first.
	Wait(ctx context.Context, dir string, done func() bool) error
}
