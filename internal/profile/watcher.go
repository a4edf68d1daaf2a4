package profile

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces the burst of fs events an editor's save produces.
const debounce = 200 * time.Millisecond

// Watch reloads the store whenever its profile file changes on disk, until
// ctx is cancelled. External editors rewrite the file via temp+rename, so the
// watch is on the containing directory, filtered to the profile name.
func Watch(ctx context.Context, store *Store, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(store.Path())
	if err := watcher.Add(dir); err != nil {
		return err
	}

	name := filepath.Base(store.Path())
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			if err := store.Reload(); err != nil {
				logger.Warn("profile reload failed, keeping previous profile", "err", err)
				continue
			}
			logger.Info("profile reloaded", "path", store.Path())

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("profile watcher error", "err", err)
		}
	}
}
