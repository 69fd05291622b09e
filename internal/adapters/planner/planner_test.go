package planner_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trellis.sh/taskrun/internal/adapters/planner"
	"go.trellis.sh/taskrun/internal/core/domain"
)

// pathOnlyCache satisfies the planner's need to locate cached files without
// any real cache behind it.
type pathOnlyCache struct {
	root string
}

func (c pathOnlyCache) IsCached(domain.FileEntry) bool { return true }

func (c pathOnlyCache) EnsureCached(context.Context, []domain.FileEntry) error { return nil }

func (c pathOnlyCache) Path(file domain.FileEntry) string {
	return filepath.Join(c.root, file.SHA256, file.Filename)
}

const shimPath = "/opt/puppetlabs/puppet/bin/PowershellShim.ps1"

func fileEntry(name string) domain.FileEntry {
	return domain.FileEntry{
		Filename:  name,
		SHA256:    "abc123",
		SizeBytes: 10,
	}
}

func TestPlanner_Unix(t *testing.T) {
	p := planner.NewForPlatform("linux", pathOnlyCache{root: "/cache"}, shimPath)

	t.Run("shell task with stdin input", func(t *testing.T) {
		plan, err := p.Plan(&domain.TaskRequest{
			Task:        "test::hello",
			Files:       []domain.FileEntry{fileEntry("hello.sh")},
			Input:       `{"name":"x"}`,
			InputMethod: domain.InputMethodStdin,
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"/cache/abc123/hello.sh"}, plan.Argv)
		assert.Empty(t, plan.Environment)
		require.NotNil(t, plan.Input)
		assert.Equal(t, `{"name":"x"}`, *plan.Input)
	})

	t.Run("extension does not change the argv on unix", func(t *testing.T) {
		plan, err := p.Plan(&domain.TaskRequest{
			Task:        "test::ruby",
			Files:       []domain.FileEntry{fileEntry("task.rb")},
			InputMethod: domain.InputMethodStdin,
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"/cache/abc123/task.rb"}, plan.Argv)
	})

	t.Run("both feeds stdin and the environment", func(t *testing.T) {
		plan, err := p.Plan(&domain.TaskRequest{
			Task:        "test::hello",
			Files:       []domain.FileEntry{fileEntry("hello.sh")},
			Input:       `{"foo":"bar"}`,
			InputMethod: domain.InputMethodBoth,
		})
		require.NoError(t, err)

		assert.Equal(t, map[string]string{"PT_foo": "bar"}, plan.Environment)
		require.NotNil(t, plan.Input)
		assert.Equal(t, `{"foo":"bar"}`, *plan.Input)
	})

	t.Run("stdin leaves the environment empty", func(t *testing.T) {
		plan, err := p.Plan(&domain.TaskRequest{
			Task:        "test::hello",
			Files:       []domain.FileEntry{fileEntry("hello.sh")},
			Input:       `{"foo":"bar"}`,
			InputMethod: domain.InputMethodStdin,
		})
		require.NoError(t, err)

		assert.Empty(t, plan.Environment)
	})

	t.Run("environment only has no stdin payload", func(t *testing.T) {
		plan, err := p.Plan(&domain.TaskRequest{
			Task:        "test::hello",
			Files:       []domain.FileEntry{fileEntry("hello.sh")},
			Input:       `{"foo":"bar"}`,
			InputMethod: domain.InputMethodEnvironment,
		})
		require.NoError(t, err)

		assert.Nil(t, plan.Input)
		assert.Equal(t, map[string]string{"PT_foo": "bar"}, plan.Environment)
	})

	t.Run("input method defaults to both", func(t *testing.T) {
		plan, err := p.Plan(&domain.TaskRequest{
			Task:  "test::hello",
			Files: []domain.FileEntry{fileEntry("hello.sh")},
		})
		require.NoError(t, err)

		assert.Equal(t, domain.InputMethodBoth, plan.InputMethod)
	})

	t.Run("non object input fails when the environment is fed", func(t *testing.T) {
		_, err := p.Plan(&domain.TaskRequest{
			Task:        "test::hello",
			Files:       []domain.FileEntry{fileEntry("hello.sh")},
			Input:       `["not","an","object"]`,
			InputMethod: domain.InputMethodBoth,
		})
		require.Error(t, err)
		assert.ErrorContains(t, err, "not a JSON object")
	})

	t.Run("a task without files is rejected", func(t *testing.T) {
		_, err := p.Plan(&domain.TaskRequest{Task: "test::hello"})
		require.Error(t, err)
	})
}

func TestPlanner_Windows(t *testing.T) {
	p := planner.NewForPlatform("windows", pathOnlyCache{root: "/cache"}, shimPath)

	taskPath := filepath.Join("/cache", "abc123", "task.rb")

	t.Run("ruby tasks run through ruby", func(t *testing.T) {
		plan, err := p.Plan(&domain.TaskRequest{
			Task:        "test::ruby",
			Files:       []domain.FileEntry{fileEntry("task.rb")},
			InputMethod: domain.InputMethodStdin,
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"ruby", taskPath}, plan.Argv)
	})

	t.Run("puppet manifests run through puppet apply", func(t *testing.T) {
		plan, err := p.Plan(&domain.TaskRequest{
			Task:        "test::manifest",
			Files:       []domain.FileEntry{fileEntry("site.pp")},
			InputMethod: domain.InputMethodStdin,
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"puppet", "apply", filepath.Join("/cache", "abc123", "site.pp")}, plan.Argv)
	})

	t.Run("other extensions run directly", func(t *testing.T) {
		plan, err := p.Plan(&domain.TaskRequest{
			Task:        "test::exe",
			Files:       []domain.FileEntry{fileEntry("task.exe")},
			InputMethod: domain.InputMethodStdin,
		})
		require.NoError(t, err)

		assert.Equal(t, []string{filepath.Join("/cache", "abc123", "task.exe")}, plan.Argv)
	})

	t.Run("powershell tasks resolve to the shim", func(t *testing.T) {
		plan, err := p.Plan(&domain.TaskRequest{
			Task:  "test::ps",
			Files: []domain.FileEntry{fileEntry("t.ps1")},
			Input: `{"foo":"bar"}`,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.InputMethodPowerShell, plan.InputMethod)

		psPath := filepath.Join("/cache", "abc123", "t.ps1")
		assert.Equal(t, []string{
			shimPath,
			"powershell", "-NoProfile", "-NonInteractive", "-NoLogo", "-ExecutionPolicy", "Bypass", "-File", psPath,
		}, plan.Argv)

		// The shim reads PT_ variables and still receives the input on stdin.
		assert.Equal(t, map[string]string{"PT_foo": "bar"}, plan.Environment)
		require.NotNil(t, plan.Input)
		assert.Equal(t, `{"foo":"bar"}`, *plan.Input)
	})
}
