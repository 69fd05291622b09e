// Package spool owns the per-request spool directory layout and answers
// lifecycle queries from its files. The filesystem is the state machine:
// presence and size of marker files encode the request's transitions, so
// queries keep working after an agent restart.
package spool

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
	"go.trellis.sh/taskrun/internal/core/domain"
	"go.trellis.sh/taskrun/internal/core/ports"
)

// Store implements ports.SpoolStore and ports.StatusObserver rooted at a
// single spool directory.
type Store struct {
	root string
}

// NewStore creates a store rooted at the given directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the spool root directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the spool directory for a request id. Ids that would escape
// the spool root are rejected outright, never rewritten.
func (s *Store) Path(requestID string) (string, error) {
	if err := validateRequestID(requestID); err != nil {
		return "", err
	}

	return filepath.Join(s.root, requestID), nil
}

// Create makes the spool directory for a request. No state files are
// pre-created; those appear as the wrapper makes progress.
func (s *Store) Create(requestID string) (string, error) {
	dir, err := s.Path(requestID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrSpoolCreateFailed.Error()), "requestid", requestID)
	}

	return dir, nil
}

// Exists reports whether the request already has a spool directory. An
// existing directory marks the request as already run; reruns are rejected
// by the launcher.
func (s *Store) Exists(requestID string) bool {
	dir, err := s.Path(requestID)
	if err != nil {
		return false
	}

	info, err := os.Stat(dir)

	return err == nil && info.IsDir()
}

// validateRequestID rejects ids that are empty, relative traversals or that
// contain a path separator. The id is used verbatim as a directory name.
func validateRequestID(requestID string) error {
	switch {
	case requestID == "", requestID == ".", requestID == "..":
		return zerr.With(domain.ErrInvalidRequestID, "requestid", requestID)
	case strings.ContainsAny(requestID, `/\`):
		return zerr.With(domain.ErrInvalidRequestID, "requestid", requestID)
	}

	return nil
}

var (
	_ ports.SpoolStore     = (*Store)(nil)
	_ ports.StatusObserver = (*Store)(nil)
)
