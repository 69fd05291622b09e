package spool

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/zerr"
	"go.trellis.sh/taskrun/internal/core/domain"
)

// IsComplete reports whether the request reached a terminal state: either
// the task recorded an exit status or the wrapper itself failed. Both marker
// files only ever gain content, so this transitions false to true once.
func (s *Store) IsComplete(requestID string) bool {
	dir, err := s.Path(requestID)
	if err != nil {
		return false
	}

	if fileNonEmpty(filepath.Join(dir, domain.SpoolWrapperStderr)) {
		return true
	}

	return fileNonEmpty(filepath.Join(dir, domain.SpoolExitCode))
}

// Runtime reports how long the task ran, or has been running. Completed
// wrapper-level failures report zero since the task never started.
func (s *Store) Runtime(requestID string) time.Duration {
	dir, err := s.Path(requestID)
	if err != nil {
		return 0
	}

	started, ok := mtime(filepath.Join(dir, domain.SpoolWrapperPID))
	if !ok {
		return 0
	}

	if s.IsComplete(requestID) {
		finished, ok := mtime(filepath.Join(dir, domain.SpoolExitCode))
		if !ok {
			return 0
		}
		// The pid file is written after the spawn handshake, so a very fast
		// task can finish before it lands; never report a negative runtime.
		return max(finished.Sub(started), 0)
	}

	return max(time.Since(started), 0)
}

// Status summarises the request's spool into a status record, substituting
// defaults for files the wrapper has not written yet.
func (s *Store) Status(requestID string) (*domain.TaskStatus, error) {
	dir, err := s.Path(requestID)
	if err != nil {
		return nil, err
	}

	if !s.Exists(requestID) {
		return nil, zerr.With(domain.ErrTaskNotRequested, "requestid", requestID)
	}

	status := &domain.TaskStatus{
		RequestID:      requestID,
		Spool:          dir,
		Stdout:         readFile(filepath.Join(dir, domain.SpoolStdout)),
		Stderr:         readFile(filepath.Join(dir, domain.SpoolStderr)),
		ExitCode:       domain.DefaultExitCode,
		StartTime:      time.Unix(0, 0).UTC(),
		WrapperError:   "",
		WrapperSpawned: fileEmpty(filepath.Join(dir, domain.SpoolWrapperStderr)),
		Completed:      s.IsComplete(requestID),
	}

	if code, ok := readInt(filepath.Join(dir, domain.SpoolExitCode)); ok {
		status.ExitCode = code
	}

	if pid, ok := readInt(filepath.Join(dir, domain.SpoolWrapperPID)); ok {
		status.WrapperPID = &pid
	}

	if started, ok := mtime(filepath.Join(dir, domain.SpoolWrapperPID)); ok {
		status.StartTime = started.UTC()
	}

	if wrapperErr := readFile(filepath.Join(dir, domain.SpoolWrapperStderr)); wrapperErr != "" {
		status.WrapperError = wrapperErr
		status.Completed = true
	}

	status.RuntimeSeconds = s.Runtime(requestID).Seconds()

	return status, nil
}

// readFile returns the file contents or "" when it does not exist.
func readFile(path string) string {
	data, err := os.ReadFile(path) //nolint:gosec // path is spool root + validated request id
	if err != nil {
		return ""
	}
	return string(data)
}

// readInt parses a decimal integer from a file, tolerating surrounding
// whitespace.
func readInt(path string) (int, bool) {
	data, err := os.ReadFile(path) //nolint:gosec // path is spool root + validated request id
	if err != nil {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}

	return n, true
}

// fileNonEmpty reports whether the file exists with content.
func fileNonEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// fileEmpty reports whether the file exists and is empty.
func fileEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() == 0
}

// mtime returns a file's modification time.
func mtime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
