// Package launcher spawns the detached task wrapper and tracks it through
// the request spool.
package launcher

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"go.trai.ch/zerr"
	"go.trellis.sh/taskrun/internal/adapters/planner"
	"go.trellis.sh/taskrun/internal/adapters/spool"
	"go.trellis.sh/taskrun/internal/core/domain"
	"go.trellis.sh/taskrun/internal/core/ports"
)

// wrapperInput is the JSON document the wrapper reads on stdin. The wrapper
// executes Executable with Arguments, feeds Input on its stdin when non-null,
// copies the task's output into Stdout and Stderr, and finally writes the
// exit status as ASCII decimal into ExitCode.
type wrapperInput struct {
	Executable string   `json:"executable"`
	Arguments  []string `json:"arguments"`
	Input      *string  `json:"input"`
	Stdout     string   `json:"stdout"`
	Stderr     string   `json:"stderr"`
	ExitCode   string   `json:"exitcode"`
}

// Launcher implements ports.Launcher.
type Launcher struct {
	wrapperPath string
	planner     *planner.Planner
	cache       ports.ArtifactCache
	spool       *spool.Store
	watcher     ports.CompletionWatcher
	logger      ports.Logger
	tracer      ports.Tracer
}

// New creates a launcher for the given wrapper binary.
func New(
	wrapperPath string,
	plan *planner.Planner,
	cache ports.ArtifactCache,
	store *spool.Store,
	watcher ports.CompletionWatcher,
	logger ports.Logger,
	tracer ports.Tracer,
) *Launcher {
	return &Launcher{
		wrapperPath: wrapperPath,
		planner:     plan,
		cache:       cache,
		spool:       store,
		watcher:     watcher,
		logger:      logger,
		tracer:      tracer,
	}
}

// Run launches the wrapper for a request. The child is fully detached: it
// survives this process, and its progress is observable only through the
// spool files. When wait is true Run blocks until the request completes.
func (l *Launcher) Run(ctx context.Context, requestID string, req *domain.TaskRequest, wait bool) (*domain.TaskStatus, error) {
	ctx, finish := l.tracer.Span(ctx, "launcher.run")

	status, err := l.run(ctx, requestID, req, wait)
	finish(err)

	return status, err
}

func (l *Launcher) run(ctx context.Context, requestID string, req *domain.TaskRequest, wait bool) (*domain.TaskStatus, error) {
	if _, err := os.Stat(l.wrapperPath); err != nil {
		return nil, zerr.With(domain.ErrWrapperMissing, "path", l.wrapperPath)
	}

	for _, file := range req.Files {
		if !l.cache.IsCached(file) {
			return nil, zerr.With(zerr.With(domain.ErrTaskNotCached, "task", req.Task), "file", file.Filename)
		}
	}

	if l.spool.Exists(requestID) {
		return nil, zerr.With(domain.ErrTaskAlreadyRequested, "requestid", requestID)
	}

	plan, err := l.planner.Plan(req)
	if err != nil {
		return nil, err
	}

	dir, err := l.spool.Create(requestID)
	if err != nil {
		return nil, err
	}

	stdinPath := filepath.Join(dir, domain.SpoolWrapperStdin)
	if err := l.writeWrapperInput(stdinPath, dir, plan); err != nil {
		return nil, err
	}

	pid, err := l.spawn(stdinPath, dir, plan)
	if err != nil {
		return nil, err
	}

	// Spawn handshake: wait for the wrapper's stdout log. spawn creates that
	// file itself before starting the child, so its presence here follows
	// from a successful start, not from the wrapper opening it.
	handshake := filepath.Join(dir, domain.SpoolWrapperStdout)
	if err := l.watcher.Wait(ctx, dir, func() bool {
		_, statErr := os.Stat(handshake)
		return statErr == nil
	}); err != nil {
		return nil, err
	}

	pidPath := filepath.Join(dir, domain.SpoolWrapperPID)
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)), domain.FilePerm); err != nil {
		return nil, zerr.Wrap(err, "failed to record wrapper pid")
	}

	if wait {
		if err := l.watcher.Wait(ctx, dir, func() bool {
			return l.spool.IsComplete(requestID)
		}); err != nil {
			return nil, err
		}
	}

	return l.spool.Status(requestID)
}

func (l *Launcher) writeWrapperInput(path, dir string, plan *planner.Plan) error {
	input := wrapperInput{
		Executable: plan.Argv[0],
		Arguments:  plan.Argv[1:],
		Input:      plan.Input,
		Stdout:     filepath.Join(dir, domain.SpoolStdout),
		Stderr:     filepath.Join(dir, domain.SpoolStderr),
		ExitCode:   filepath.Join(dir, domain.SpoolExitCode),
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return zerr.Wrap(err, "failed to encode wrapper input")
	}

	if err := os.WriteFile(path, payload, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write wrapper stdin")
	}

	return nil
}

// spawn starts the wrapper detached from this process. Its stdout and stderr
// are redirected into the spool; its stdin reads the wrapper input document.
// The child is released rather than reaped so it outlives the agent.
func (l *Launcher) spawn(stdinPath, dir string, plan *planner.Plan) (int, error) {
	stdin, err := os.Open(stdinPath) //nolint:gosec // path is inside the request spool
	if err != nil {
		return 0, zerr.Wrap(err, "failed to open wrapper stdin")
	}
	defer func() { _ = stdin.Close() }()

	stdout, err := os.OpenFile(filepath.Join(dir, domain.SpoolWrapperStdout), os.O_CREATE|os.O_WRONLY, domain.FilePerm) //nolint:gosec // spool path
	if err != nil {
		return 0, zerr.Wrap(err, "failed to open wrapper stdout")
	}
	defer func() { _ = stdout.Close() }()

	stderr, err := os.OpenFile(filepath.Join(dir, domain.SpoolWrapperStderr), os.O_CREATE|os.O_WRONLY, domain.FilePerm) //nolint:gosec // spool path
	if err != nil {
		return 0, zerr.Wrap(err, "failed to open wrapper stderr")
	}
	defer func() { _ = stderr.Close() }()

	//nolint:gosec // the wrapper path comes from configuration, not the request
	cmd := exec.Command(l.wrapperPath)
	cmd.Dir = workingDir()
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = mergedEnvironment(plan.Environment)
	cmd.SysProcAttr = sysProcAttr()

	if err := cmd.Start(); err != nil {
		return 0, zerr.Wrap(err, domain.ErrSpawnFailed.Error())
	}

	pid := cmd.Process.Pid

	if err := cmd.Process.Release(); err != nil {
		l.logger.Warn("failed to release wrapper process handle")
	}

	return pid, nil
}

// mergedEnvironment layers the task's PT_ variables over the agent's own
// environment so the wrapper keeps PATH and friends.
func mergedEnvironment(taskEnv map[string]string) []string {
	env := os.Environ()

	keys := make([]string, 0, len(taskEnv))
	for k := range taskEnv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = append(env, k+"="+taskEnv[k])
	}

	return env
}

var _ ports.Launcher = (*Launcher)(nil)
