package spool_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trellis.sh/taskrun/internal/adapters/spool"
	"go.trellis.sh/taskrun/internal/core/domain"
)

func TestStore_Path(t *testing.T) {
	store := spool.NewStore("/spool")

	t.Run("joins the root and request id", func(t *testing.T) {
		path, err := store.Path("abc123")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/spool", "abc123"), path)
	})

	t.Run("rejects ids that escape the root", func(t *testing.T) {
		for _, id := range []string{"", ".", "..", "../other", "a/b", `a\b`} {
			_, err := store.Path(id)
			require.ErrorContains(t, err, "invalid request id", "id %q", id)
		}
	})
}

func TestStore_CreateAndExists(t *testing.T) {
	store := spool.NewStore(t.TempDir())

	assert.False(t, store.Exists("req-1"))

	dir, err := store.Create("req-1")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())

	assert.True(t, store.Exists("req-1"))

	// No state files are pre-created.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_IsComplete(t *testing.T) {
	store := spool.NewStore(t.TempDir())
	dir, err := store.Create("req-1")
	require.NoError(t, err)

	assert.False(t, store.IsComplete("req-1"))

	t.Run("empty marker files do not complete the request", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SpoolWrapperStderr), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SpoolExitCode), nil, 0o644))
		assert.False(t, store.IsComplete("req-1"))
	})

	t.Run("a non empty exitcode completes the request", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SpoolExitCode), []byte("0"), 0o644))
		assert.True(t, store.IsComplete("req-1"))
	})

	t.Run("a wrapper failure completes the request", func(t *testing.T) {
		other, err := store.Create("req-2")
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(other, domain.SpoolWrapperStderr), []byte("boom"), 0o644))
		assert.True(t, store.IsComplete("req-2"))
	})
}

func TestStore_Runtime(t *testing.T) {
	t.Run("zero without a pid file", func(t *testing.T) {
		store := spool.NewStore(t.TempDir())
		_, err := store.Create("req-1")
		require.NoError(t, err)

		assert.Zero(t, store.Runtime("req-1"))
	})

	t.Run("grows while the task runs", func(t *testing.T) {
		store := spool.NewStore(t.TempDir())
		dir, err := store.Create("req-1")
		require.NoError(t, err)

		pidPath := filepath.Join(dir, domain.SpoolWrapperPID)
		require.NoError(t, os.WriteFile(pidPath, []byte("1234"), 0o644))

		first := store.Runtime("req-1")
		assert.GreaterOrEqual(t, first, time.Duration(0))

		time.Sleep(10 * time.Millisecond)

		second := store.Runtime("req-1")
		assert.Greater(t, second, first)
	})

	t.Run("is the exitcode mtime minus the pid mtime when complete", func(t *testing.T) {
		store := spool.NewStore(t.TempDir())
		dir, err := store.Create("req-1")
		require.NoError(t, err)

		pidPath := filepath.Join(dir, domain.SpoolWrapperPID)
		exitPath := filepath.Join(dir, domain.SpoolExitCode)

		require.NoError(t, os.WriteFile(pidPath, []byte("1234"), 0o644))
		require.NoError(t, os.WriteFile(exitPath, []byte("0"), 0o644))

		started := time.Now().Add(-10 * time.Second)
		finished := started.Add(3 * time.Second)
		require.NoError(t, os.Chtimes(pidPath, started, started))
		require.NoError(t, os.Chtimes(exitPath, finished, finished))

		assert.Equal(t, 3*time.Second, store.Runtime("req-1").Round(time.Second))
	})

	t.Run("zero for wrapper level failures", func(t *testing.T) {
		store := spool.NewStore(t.TempDir())
		dir, err := store.Create("req-1")
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SpoolWrapperPID), []byte("1234"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SpoolWrapperStderr), []byte("boom"), 0o644))

		assert.Zero(t, store.Runtime("req-1"))
	})
}

func TestStore_Status(t *testing.T) {
	t.Run("errors for unknown requests", func(t *testing.T) {
		store := spool.NewStore(t.TempDir())

		_, err := store.Status("req-1")
		require.ErrorContains(t, err, "task has not been requested")
	})

	t.Run("substitutes defaults for missing files", func(t *testing.T) {
		store := spool.NewStore(t.TempDir())
		dir, err := store.Create("req-1")
		require.NoError(t, err)

		status, err := store.Status("req-1")
		require.NoError(t, err)

		assert.Equal(t, "req-1", status.RequestID)
		assert.Equal(t, dir, status.Spool)
		assert.Empty(t, status.Stdout)
		assert.Empty(t, status.Stderr)
		assert.Equal(t, domain.DefaultExitCode, status.ExitCode)
		assert.Equal(t, time.Unix(0, 0).UTC(), status.StartTime)
		assert.False(t, status.WrapperSpawned)
		assert.Empty(t, status.WrapperError)
		assert.Nil(t, status.WrapperPID)
		assert.False(t, status.Completed)
	})

	t.Run("reports a completed task", func(t *testing.T) {
		store := spool.NewStore(t.TempDir())
		dir, err := store.Create("req-1")
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SpoolWrapperStdout), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SpoolWrapperStderr), nil, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SpoolWrapperPID), []byte("4321"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SpoolStdout), []byte("hello\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SpoolStderr), []byte(""), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SpoolExitCode), []byte("0\n"), 0o644))

		status, err := store.Status("req-1")
		require.NoError(t, err)

		assert.Equal(t, "hello\n", status.Stdout)
		assert.Zero(t, status.ExitCode)
		assert.True(t, status.WrapperSpawned)
		assert.True(t, status.Completed)
		require.NotNil(t, status.WrapperPID)
		assert.Equal(t, 4321, *status.WrapperPID)
		assert.False(t, status.StartTime.IsZero())
		assert.GreaterOrEqual(t, status.RuntimeSeconds, 0.0)
	})

	t.Run("a wrapper failure forces completion", func(t *testing.T) {
		store := spool.NewStore(t.TempDir())
		dir, err := store.Create("req-1")
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SpoolWrapperStderr), []byte("exec failed"), 0o644))

		status, err := store.Status("req-1")
		require.NoError(t, err)

		assert.Equal(t, "exec failed", status.WrapperError)
		assert.False(t, status.WrapperSpawned)
		assert.True(t, status.Completed)
		assert.Equal(t, domain.DefaultExitCode, status.ExitCode)
	})
}
