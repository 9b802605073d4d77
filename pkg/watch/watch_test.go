package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-spatial/tilestyle/pkg/watch"
)

func TestWatcher_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	watched := filepath.Join(dir, "features.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(watched, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(other, []byte("a"), 0o600))

	w, err := watch.New(watched)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, w.Close())
	})

	var (
		mu      sync.Mutex
		changed []string
	)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)

	go func() {
		done <- w.Run(ctx, func(_ context.Context, path string) error {
			mu.Lock()
			defer mu.Unlock()

			changed = append(changed, path)

			return nil
		})
	}()

	require.NoError(t, os.WriteFile(other, []byte("b"), 0o600))
	require.NoError(t, os.WriteFile(watched, []byte("b"), 0o600))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(changed) > 0
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()

	for _, p := range changed {
		assert.Equal(t, watched, p)
	}
}

func TestWatcher_RunHandlerError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "features.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	w, err := watch.New(path)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, w.Close())
	})

	errStop := errors.New("stop")
	done := make(chan error, 1)

	go func() {
		done <- w.Run(t.Context(), func(context.Context, string) error {
			return errStop
		})
	}()

	require.NoError(t, os.WriteFile(path, []byte("b"), 0o600))

	select {
	case err := <-done:
		require.ErrorIs(t, err, errStop)
	case <-time.After(5 * time.Second):
		t.Fatal("handler error did not stop the watcher")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := watch.New(filepath.Join(t.TempDir(), "missing", "features.yaml"))
	require.Error(t, err)
}
