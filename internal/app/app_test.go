package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trellis.sh/taskrun/internal/app"
	"go.trellis.sh/taskrun/internal/core/domain"
)

type fakeResolver struct {
	desc  *domain.TaskDescriptor
	tasks []domain.TaskInfo
	err   error
}

func (f *fakeResolver) Metadata(context.Context, string, string) (*domain.TaskDescriptor, error) {
	return f.desc, f.err
}

func (f *fakeResolver) List(context.Context, string) ([]domain.TaskInfo, error) {
	return f.tasks, f.err
}

type fakeCache struct {
	ensured [][]domain.FileEntry
	err     error
}

func (f *fakeCache) IsCached(domain.FileEntry) bool { return true }

func (f *fakeCache) EnsureCached(_ context.Context, files []domain.FileEntry) error {
	f.ensured = append(f.ensured, files)
	return f.err
}

func (f *fakeCache) Path(domain.FileEntry) string { return "" }

type fakeLauncher struct {
	requestID string
	req       *domain.TaskRequest
	wait      bool
	status    *domain.TaskStatus
	err       error
}

func (f *fakeLauncher) Run(_ context.Context, requestID string, req *domain.TaskRequest, wait bool) (*domain.TaskStatus, error) {
	f.requestID = requestID
	f.req = req
	f.wait = wait
	return f.status, f.err
}

type fakeObserver struct {
	status *domain.TaskStatus
	err    error
}

func (f *fakeObserver) IsComplete(string) bool { return false }

func (f *fakeObserver) Runtime(string) time.Duration { return 0 }

func (f *fakeObserver) Status(string) (*domain.TaskStatus, error) {
	return f.status, f.err
}

type nopLogger struct{}

func (nopLogger) Debug(string) {}
func (nopLogger) Info(string)  {}
func (nopLogger) Warn(string)  {}
func (nopLogger) Error(error)  {}

type nopTracer struct{}

func (nopTracer) Span(ctx context.Context, _ string) (context.Context, func(error)) {
	return ctx, func(error) {}
}

func testDescriptor() *domain.TaskDescriptor {
	return &domain.TaskDescriptor{
		Name: "test::hello",
		Metadata: domain.TaskMetadata{
			InputMethod: domain.InputMethodStdin,
		},
		Files: []domain.FileEntry{{
			Filename:  "hello.sh",
			SHA256:    "abc123",
			SizeBytes: 10,
		}},
	}
}

func TestApp_RunTask(t *testing.T) {
	t.Run("resolves, caches and launches", func(t *testing.T) {
		cache := &fakeCache{}
		launch := &fakeLauncher{status: &domain.TaskStatus{Completed: true}}
		a := app.New(&fakeResolver{desc: testDescriptor()}, cache, launch, &fakeObserver{}, nopLogger{}, nopTracer{})

		status, err := a.RunTask(context.Background(), "test::hello", app.RunOptions{
			RequestID: "req-1",
			Input:     `{"name":"x"}`,
			Wait:      true,
		})
		require.NoError(t, err)
		assert.True(t, status.Completed)

		require.Len(t, cache.ensured, 1)
		assert.Equal(t, "hello.sh", cache.ensured[0][0].Filename)

		assert.Equal(t, "req-1", launch.requestID)
		assert.True(t, launch.wait)
		assert.Equal(t, `{"name":"x"}`, launch.req.Input)

		// The input method falls back to the task metadata.
		assert.Equal(t, domain.InputMethodStdin, launch.req.InputMethod)
	})

	t.Run("generates a request id when the caller omits one", func(t *testing.T) {
		launch := &fakeLauncher{status: &domain.TaskStatus{}}
		a := app.New(&fakeResolver{desc: testDescriptor()}, &fakeCache{}, launch, &fakeObserver{}, nopLogger{}, nopTracer{})

		_, err := a.RunTask(context.Background(), "test::hello", app.RunOptions{})
		require.NoError(t, err)

		assert.NotEmpty(t, launch.requestID)
	})

	t.Run("the caller's input method wins", func(t *testing.T) {
		launch := &fakeLauncher{status: &domain.TaskStatus{}}
		a := app.New(&fakeResolver{desc: testDescriptor()}, &fakeCache{}, launch, &fakeObserver{}, nopLogger{}, nopTracer{})

		_, err := a.RunTask(context.Background(), "test::hello", app.RunOptions{
			InputMethod: domain.InputMethodEnvironment,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.InputMethodEnvironment, launch.req.InputMethod)
	})

	t.Run("resolver errors stop the run", func(t *testing.T) {
		wantErr := errors.New("metadata fetch failed")
		cache := &fakeCache{}
		a := app.New(&fakeResolver{err: wantErr}, cache, &fakeLauncher{}, &fakeObserver{}, nopLogger{}, nopTracer{})

		_, err := a.RunTask(context.Background(), "test::hello", app.RunOptions{})
		require.ErrorIs(t, err, wantErr)
		assert.Empty(t, cache.ensured)
	})

	t.Run("cache errors stop the run", func(t *testing.T) {
		wantErr := errors.New("download failed")
		launch := &fakeLauncher{}
		a := app.New(&fakeResolver{desc: testDescriptor()}, &fakeCache{err: wantErr}, launch, &fakeObserver{}, nopLogger{}, nopTracer{})

		_, err := a.RunTask(context.Background(), "test::hello", app.RunOptions{})
		require.ErrorIs(t, err, wantErr)
		assert.Nil(t, launch.req)
	})
}

func TestApp_DownloadFiles(t *testing.T) {
	cache := &fakeCache{}
	a := app.New(&fakeResolver{desc: testDescriptor()}, cache, &fakeLauncher{}, &fakeObserver{}, nopLogger{}, nopTracer{})

	desc, err := a.DownloadFiles(context.Background(), "test::hello", "production")
	require.NoError(t, err)

	assert.Equal(t, "test::hello", desc.Name)
	require.Len(t, cache.ensured, 1)
}

func TestApp_TaskStatus(t *testing.T) {
	observer := &fakeObserver{status: &domain.TaskStatus{RequestID: "req-1"}}
	a := app.New(&fakeResolver{}, &fakeCache{}, &fakeLauncher{}, observer, nopLogger{}, nopTracer{})

	status, err := a.TaskStatus(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, "req-1", status.RequestID)
}

func TestApp_ValidateFilter(t *testing.T) {
	a := app.New(&fakeResolver{}, &fakeCache{}, &fakeLauncher{}, &fakeObserver{}, nopLogger{}, nopTracer{})

	tokens, err := a.ValidateFilter([]string{"country=de", "and", "class"})
	require.NoError(t, err)
	assert.Len(t, tokens, 3)

	_, err = a.ValidateFilter([]string{"and"})
	require.Error(t, err)
}

func TestApp_Capabilities(t *testing.T) {
	a := app.New(&fakeResolver{}, &fakeCache{}, &fakeLauncher{}, &fakeObserver{}, nopLogger{}, nopTracer{})

	caps := a.Capabilities()
	assert.Equal(t, []string{"classes", "facts", "identity", "agents", "compound"}, caps.Capabilities)
	assert.Equal(t, 2*time.Second, caps.Timeout)
}
