package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// settleDelay batches the bursts of events editors emit on save.
const settleDelay = 250 * time.Millisecond

// watchAndRebuild blocks watching the configuration file and calls rebuild
// every time a change settles. A failed rebuild is logged and watching
// continues, so a half-saved configuration does not end the session. The
// loop returns when ctx is cancelled.
func watchAndRebuild(ctx context.Context, path string, rebuild func() error) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the parent directory: editors that save via rename replace the
	// inode, which silently drops a watch on the file itself.
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	changed := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watchEvents(gctx, w, target, changed) })
	g.Go(func() error { return rebuildLoop(gctx, changed, rebuild) })
	return g.Wait()
}

// watchEvents filters the watcher stream down to changes of target and
// signals changed once a burst of events has settled.
func watchEvents(ctx context.Context, w *fsnotify.Watcher, target string, changed chan<- struct{}) error {
	debounce := time.NewTimer(settleDelay)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			// Ignore chmod etc.
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(settleDelay)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-debounce.C:
			select {
			case changed <- struct{}{}:
			default:
			}
		}
	}
}

// rebuildLoop serializes rebuilds triggered by watchEvents.
func rebuildLoop(ctx context.Context, changed <-chan struct{}, rebuild func() error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			if err := rebuild(); err != nil {
				logger.Warn("rebuild failed", zap.Error(err))
			}
		}
	}
}
