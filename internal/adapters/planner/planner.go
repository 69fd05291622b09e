// Package planner translates a task request into the executable, argument
// vector, environment and stdin payload for the platform wrapper.
package planner

import (
	"encoding/json"
	"path/filepath"
	"runtime"
	"strings"

	"go.trai.ch/zerr"
	"go.trellis.sh/taskrun/internal/core/domain"
	"go.trellis.sh/taskrun/internal/core/ports"
)

// Plan is the full launch recipe for one task request.
type Plan struct {
	// Argv is the command to hand to the wrapper: executable first.
	Argv []string

	// Environment holds the PT_ variables derived from the task input.
	Environment map[string]string

	// Input is the payload delivered on the task's stdin, nil when the input
	// method does not use stdin.
	Input *string

	// InputMethod is the resolved input method.
	InputMethod domain.InputMethod
}

// Planner plans task commands for one platform. The platform and binary
// locations are injectable so Windows planning is testable anywhere.
type Planner struct {
	goos     string
	shimPath string
	cache    ports.ArtifactCache
}

// New creates a planner for the host platform.
func New(cache ports.ArtifactCache, shimPath string) *Planner {
	return NewForPlatform(runtime.GOOS, cache, shimPath)
}

// NewForPlatform creates a planner for an explicit GOOS value.
func NewForPlatform(goos string, cache ports.ArtifactCache, shimPath string) *Planner {
	return &Planner{
		goos:     goos,
		shimPath: shimPath,
		cache:    cache,
	}
}

// Plan resolves the input method, argument vector, environment and stdin
// payload for the request. The first file entry is the task executable.
func (p *Planner) Plan(req *domain.TaskRequest) (*Plan, error) {
	if len(req.Files) == 0 {
		return nil, zerr.With(domain.ErrInvalidTaskName, "task", req.Task)
	}

	method := p.resolveInputMethod(req)
	path := p.cache.Path(req.Files[0])

	argv := p.platformArgv(path)
	if method == domain.InputMethodPowerShell {
		argv = append([]string{p.shimPath}, argv...)
	}

	env, err := p.taskEnvironment(req, method)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Argv:        argv,
		Environment: env,
		InputMethod: method,
	}

	if method == domain.InputMethodBoth || method == domain.InputMethodStdin || method == domain.InputMethodPowerShell {
		input := req.Input
		plan.Input = &input
	}

	return plan, nil
}

// resolveInputMethod picks the explicit method when set, else powershell for
// .ps1 tasks, else both.
func (p *Planner) resolveInputMethod(req *domain.TaskRequest) domain.InputMethod {
	if req.InputMethod != "" {
		return req.InputMethod
	}

	if strings.EqualFold(filepath.Ext(req.Files[0].Filename), ".ps1") {
		return domain.InputMethodPowerShell
	}

	return domain.InputMethodBoth
}

// platformArgv applies the Windows interpreter dispatch. On Unix every task
// is executed directly.
func (p *Planner) platformArgv(path string) []string {
	if p.goos != "windows" {
		return []string{path}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".rb":
		return []string{"ruby", path}
	case ".pp":
		return []string{"puppet", "apply", path}
	case ".ps1":
		return []string{"powershell", "-NoProfile", "-NonInteractive", "-NoLogo", "-ExecutionPolicy", "Bypass", "-File", path}
	default:
		return []string{path}
	}
}

// taskEnvironment derives PT_ variables from the task input. The both and
// environment methods feed the environment, as does powershell since the
// shim reads PT_ variables; the input must then decode to a JSON object of
// strings.
func (p *Planner) taskEnvironment(req *domain.TaskRequest, method domain.InputMethod) (map[string]string, error) {
	env := map[string]string{}

	if method == domain.InputMethodStdin {
		return env, nil
	}

	if req.Input == "" {
		return env, nil
	}

	var params map[string]string
	if err := json.Unmarshal([]byte(req.Input), &params); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInputNotObject.Error()), "task", req.Task)
	}

	for k, v := range params {
		env["PT_"+k] = v
	}

	return env, nil
}
