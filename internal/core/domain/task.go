package domain

import "strings"

// InputMethod is the convention by which task parameters reach the task.
type InputMethod string

const (
	// InputMethodStdin delivers the task input on the task's stdin.
	InputMethodStdin InputMethod = "stdin"

	// InputMethodEnvironment delivers the task input as PT_ environment variables.
	InputMethodEnvironment InputMethod = "environment"

	// InputMethodBoth delivers the task input on stdin and as environment variables.
	InputMethodBoth InputMethod = "both"

	// InputMethodPowerShell delivers the task input through the PowerShell shim.
	InputMethodPowerShell InputMethod = "powershell"
)

// FileURI locates a task file on the upstream server.
type FileURI struct {
	Path   string            `json:"path"`
	Params map[string]string `json:"params"`
}

// FileEntry describes a single task file. Identity is the SHA-256 of its
// contents, so two entries with the same hash are interchangeable.
type FileEntry struct {
	Filename  string  `json:"filename"`
	SHA256    string  `json:"sha256"`
	SizeBytes int64   `json:"size_bytes"`
	URI       FileURI `json:"uri"`
}

// TaskRequest is the resolved input to a task run: the descriptor's files
// plus the caller's input and input method.
type TaskRequest struct {
	Task        string      `json:"task"`
	Files       []FileEntry `json:"files"`
	Input       string      `json:"input"`
	InputMethod InputMethod `json:"input_method,omitempty"`
}

// TaskDescriptor is the JSON record the upstream server returns for a task.
type TaskDescriptor struct {
	Name     string       `json:"name"`
	Metadata TaskMetadata `json:"metadata"`
	Files    []FileEntry  `json:"files"`
}

// TaskMetadata is the metadata document embedded in a task descriptor.
type TaskMetadata struct {
	Description       string         `json:"description,omitempty"`
	InputMethod       InputMethod    `json:"input_method,omitempty"`
	Parameters        map[string]any `json:"parameters,omitempty"`
	SupportsNoop      bool           `json:"supports_noop,omitempty"`
	PuppetTaskVersion int            `json:"puppet_task_version,omitempty"`
}

// TaskInfo is a single entry in the upstream task list.
type TaskInfo struct {
	Name        string `json:"name"`
	Environment string `json:"environment,omitempty"`
}

// ParseName splits a qualified task name into its module and task segments.
// A bare module name refers to that module's "init" task. Segments past the
// second are ignored, so "a::b::c" resolves to module "a", task "b".
func ParseName(qname string) (module, task string) {
	parts := strings.Split(qname, "::")

	if len(parts) == 1 {
		return parts[0], "init"
	}

	return parts[0], parts[1]
}
