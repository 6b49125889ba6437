package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatchAndRebuild_RebuildsOnChange(t *testing.T) {
	logger = zap.NewNop()
	path := filepath.Join(t.TempDir(), "measurement.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detector: V07302A\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rebuilt := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- watchAndRebuild(ctx, path, func() error {
			select {
			case rebuilt <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// Keep touching the file until the watcher picks it up.
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(10 * time.Second)
	for fired := false; !fired; {
		select {
		case <-rebuilt:
			fired = true
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("detector: V07302A\nrun: 1\n"), 0o644))
		case <-deadline:
			t.Fatal("no rebuild observed after file changes")
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatchAndRebuild_StopsOnCancel(t *testing.T) {
	logger = zap.NewNop()
	path := filepath.Join(t.TempDir(), "measurement.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detector: B00000B\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchAndRebuild(ctx, path, func() error { return nil })
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}
