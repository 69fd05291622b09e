package domain

import "time"

const (
	// DirPerm is the permission for cache and spool directories (rwxr-x---).
	DirPerm = 0o750

	// TaskFilePerm is the permission for cached task files (rwxr-x---).
	TaskFilePerm = 0o750

	// FilePerm is the default permission for spool state files (rw-r--r--).
	FilePerm = 0o644

	// PollInterval is the interval for the spawn handshake and completion waits.
	PollInterval = 100 * time.Millisecond

	// DefaultExitCode is reported when a task has no recorded exit status.
	DefaultExitCode = 127
)

// Spool state files. Presence and size of these files encode the request
// lifecycle, so queries keep working across agent restarts.
const (
	// SpoolWrapperStdin holds the JSON payload passed to the wrapper on stdin.
	SpoolWrapperStdin = "wrapper_stdin"

	// SpoolWrapperStdout receives the wrapper's own stdout; its presence marks
	// the request as spawned.
	SpoolWrapperStdout = "wrapper_stdout"

	// SpoolWrapperStderr receives the wrapper's own stderr; non-empty marks a
	// wrapper level failure.
	SpoolWrapperStderr = "wrapper_stderr"

	// SpoolWrapperPID holds the wrapper process id; its mtime is the start time.
	SpoolWrapperPID = "wrapper_pid"

	// SpoolStdout receives the task's stdout.
	SpoolStdout = "stdout"

	// SpoolStderr receives the task's stderr.
	SpoolStderr = "stderr"

	// SpoolExitCode receives the task's exit status as ASCII decimal; non-empty
	// marks the request as complete.
	SpoolExitCode = "exitcode"
)

const (
	// WindowsBinRoot is where the Puppet AIO bundle installs binaries on Windows.
	WindowsBinRoot = `C:\Program Files\Puppet Labs\Puppet\bin`

	// UnixBinRoot is where the Puppet AIO bundle installs binaries on Unix.
	UnixBinRoot = "/opt/puppetlabs/puppet/bin"

	// WrapperName is the task wrapper binary name on Unix.
	WrapperName = "task_wrapper"

	// WrapperNameWindows is the task wrapper binary name on Windows.
	WrapperNameWindows = "task_wrapper.exe"

	// PowerShellShim is the shim script installed beside the wrapper binary.
	PowerShellShim = "PowershellShim.ps1"
)
