package domain

import "time"

// TaskStatus reports the observed lifecycle of a task request, read entirely
// from the request's spool directory.
type TaskStatus struct {
	RequestID      string    `json:"requestid"`
	Spool          string    `json:"spool"`
	Stdout         string    `json:"stdout"`
	Stderr         string    `json:"stderr"`
	ExitCode       int       `json:"exitcode"`
	RuntimeSeconds float64   `json:"runtime"`
	StartTime      time.Time `json:"start_time"`
	WrapperSpawned bool      `json:"wrapper_spawned"`
	WrapperError   string    `json:"wrapper_error"`
	WrapperPID     *int      `json:"wrapper_pid"`
	Completed      bool      `json:"completed"`
}

// DiscoveryCapabilities is the capability metadata the discovery plugin
// advertises on behalf of this subsystem.
type DiscoveryCapabilities struct {
	Capabilities []string      `json:"capabilities"`
	Timeout      time.Duration `json:"timeout"`
}
