package domain

import "go.trai.ch/zerr"

var (
	// ErrWrapperMissing is returned when the task wrapper binary is not installed.
	ErrWrapperMissing = zerr.New("task wrapper is not installed")

	// ErrTaskNotCached is returned when a task's files are not present in the artifact cache.
	ErrTaskNotCached = zerr.New("task is not cached")

	// ErrTaskAlreadyRequested is returned when a request id has an existing spool directory.
	ErrTaskAlreadyRequested = zerr.New("task has already been requested")

	// ErrTaskNotRequested is returned when a request id has no spool directory.
	ErrTaskNotRequested = zerr.New("task has not been requested")

	// ErrInvalidRequestID is returned when a request id would escape the spool root.
	ErrInvalidRequestID = zerr.New("invalid request id")

	// ErrInvalidTaskName is returned when a task name is empty or malformed.
	ErrInvalidTaskName = zerr.New("invalid task name")

	// ErrDownloadFailed is returned when a task file cannot be fetched from the server.
	ErrDownloadFailed = zerr.New("failed to download task file")

	// ErrMetadataFetchFailed is returned when task metadata cannot be fetched.
	ErrMetadataFetchFailed = zerr.New("failed to fetch task metadata")

	// ErrTaskListFailed is returned when the task list cannot be fetched.
	ErrTaskListFailed = zerr.New("failed to fetch task list")

	// ErrInputNotObject is returned when task input must provide environment
	// variables but does not decode to a JSON object of strings.
	ErrInputNotObject = zerr.New("task input is not a JSON object of strings")

	// ErrSpoolCreateFailed is returned when the request spool directory cannot be created.
	ErrSpoolCreateFailed = zerr.New("failed to create spool directory")

	// ErrSpawnFailed is returned when the wrapper process cannot be started.
	ErrSpawnFailed = zerr.New("failed to spawn task wrapper")

	// ErrConfigNotFound is returned when no configuration file can be located.
	ErrConfigNotFound = zerr.New("could not find taskrun.yaml")

	// ErrConfigParseFailed is returned when the configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")
)
