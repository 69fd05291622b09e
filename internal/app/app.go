// Package app implements the application layer for taskrun.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.trellis.sh/taskrun/internal/core/domain"
	"go.trellis.sh/taskrun/internal/core/ports"
	"go.trellis.sh/taskrun/internal/filter"
)

// App orchestrates the task execution flow: resolve, cache, launch, observe.
type App struct {
	resolver ports.TaskResolver
	cache    ports.ArtifactCache
	launcher ports.Launcher
	observer ports.StatusObserver
	logger   ports.Logger
	tracer   ports.Tracer
}

// New creates a new App instance.
func New(
	resolver ports.TaskResolver,
	cache ports.ArtifactCache,
	launcher ports.Launcher,
	observer ports.StatusObserver,
	logger ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		resolver: resolver,
		cache:    cache,
		launcher: launcher,
		observer: observer,
		logger:   logger,
		tracer:   tracer,
	}
}

// RunOptions configures a task run.
type RunOptions struct {
	// RequestID identifies the run; a fresh UUID is generated when empty.
	RequestID string

	// Environment is the puppet environment to resolve the task in.
	Environment string

	// Input is the task input, typically a JSON document.
	Input string

	// InputMethod overrides the method from the task metadata.
	InputMethod domain.InputMethod

	// Wait blocks until the task completes.
	Wait bool
}

// RunTask resolves a task, ensures its files are cached and launches it. The
// returned status reflects the request at return time: final when waiting,
// a snapshot otherwise.
func (a *App) RunTask(ctx context.Context, qname string, opts RunOptions) (*domain.TaskStatus, error) {
	ctx, finish := a.tracer.Span(ctx, "app.run_task")

	status, err := a.runTask(ctx, qname, opts)
	finish(err)

	return status, err
}

func (a *App) runTask(ctx context.Context, qname string, opts RunOptions) (*domain.TaskStatus, error) {
	requestID := opts.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	desc, err := a.resolver.Metadata(ctx, qname, opts.Environment)
	if err != nil {
		return nil, err
	}

	req := &domain.TaskRequest{
		Task:        qname,
		Files:       desc.Files,
		Input:       opts.Input,
		InputMethod: opts.InputMethod,
	}
	if req.InputMethod == "" {
		req.InputMethod = desc.Metadata.InputMethod
	}

	if err := a.cache.EnsureCached(ctx, req.Files); err != nil {
		return nil, err
	}

	a.logger.Info("running task " + qname + " as request " + requestID)

	return a.launcher.Run(ctx, requestID, req, opts.Wait)
}

// TaskStatus reports the current status of a previously requested task.
func (a *App) TaskStatus(_ context.Context, requestID string) (*domain.TaskStatus, error) {
	return a.observer.Status(requestID)
}

// ListTasks lists the tasks available in an environment.
func (a *App) ListTasks(ctx context.Context, environment string) ([]domain.TaskInfo, error) {
	return a.resolver.List(ctx, environment)
}

// TaskMetadata fetches the descriptor for a task.
func (a *App) TaskMetadata(ctx context.Context, qname, environment string) (*domain.TaskDescriptor, error) {
	return a.resolver.Metadata(ctx, qname, environment)
}

// DownloadFiles resolves a task and ensures all of its files are cached
// without running it.
func (a *App) DownloadFiles(ctx context.Context, qname, environment string) (*domain.TaskDescriptor, error) {
	ctx, finish := a.tracer.Span(ctx, "app.download_files")

	desc, err := a.resolver.Metadata(ctx, qname, environment)
	if err == nil {
		err = a.cache.EnsureCached(ctx, desc.Files)
	}

	finish(err)
	if err != nil {
		return nil, err
	}

	return desc, nil
}

// ValidateFilter tokenizes and validates a discovery filter expression.
func (a *App) ValidateFilter(args []string) ([]filter.Token, error) {
	return filter.Parse(args)
}

// Capabilities returns the discovery capability metadata this subsystem
// advertises.
func (a *App) Capabilities() domain.DiscoveryCapabilities {
	return domain.DiscoveryCapabilities{
		Capabilities: []string{"classes", "facts", "identity", "agents", "compound"},
		Timeout:      2 * time.Second,
	}
}
