package ingest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/raido/internal/dataset"
	"github.com/starford/raido/internal/graph"
)

// EventCallback is called after a watcher-driven reload, once per loaded
// dataset file.
type EventCallback func(path string)

// Watch starts an fsnotify watcher on the data root and re-syncs the
// graph when .csv files change, until ctx is cancelled. Bursts of events
// (editors and bulk copies fire several per file) are debounced into a
// single sync pass. It calls cb (if non-nil) for each file a pass loads.
func Watch(ctx context.Context, db *graph.DB, store dataset.Provider, dataRoot string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dataRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", dataRoot))

	var syncTimer *time.Timer
	var syncCh <-chan time.Time

	scheduleSync := func() {
		if syncTimer == nil {
			syncTimer = time.NewTimer(500 * time.Millisecond)
			syncCh = syncTimer.C
		} else {
			syncTimer.Reset(500 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if syncTimer != nil {
				syncTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-syncCh:
			loaded, err := Sync(db, store, logger)
			if err != nil {
				logger.Error("watcher: sync failed", slog.String("error", err.Error()))
				continue
			}
			for _, path := range loaded {
				logger.Info("watcher: reloaded", slog.String("path", path))
				if cb != nil {
					cb(path)
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".csv") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleSync()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
