package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Editors often write a file in several steps.
const debounceDelay = 100 * time.Millisecond

// fileWatcher reruns a reload function whenever one of the watched files changes.
// reload returns the files to watch next, since a bundle may point at other CSV
// files after an edit.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	log     logrus.FieldLogger
	reload  func(ctx context.Context) ([]string, error)

	mu    sync.Mutex
	files map[string]bool
}

func newFileWatcher(log logrus.FieldLogger, reload func(ctx context.Context) ([]string, error)) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &fileWatcher{
		watcher: watcher,
		log:     log,
		reload:  reload,
		files:   make(map[string]bool),
	}, nil
}

// watch replaces the watch list. Files are re-added even when already watched so
// that files recreated by an atomic save are picked up again.
func (w *fileWatcher) watch(files []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := make(map[string]bool, len(files))
	for _, f := range files {
		next[f] = true
	}
	for f := range w.files {
		if !next[f] {
			_ = w.watcher.Remove(f)
		}
	}
	for f := range next {
		if err := w.watcher.Add(f); err != nil {
			w.log.WithError(err).WithField("file", f).Warn("Failed to watch file")
		}
	}
	w.files = next
}

// run processes file system events until ctx is done.
func (w *fileWatcher) run(ctx context.Context) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = w.watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Remove and Rename are common in atomic saves.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				w.handleChange(ctx)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("File watcher error")
		}
	}
}

func (w *fileWatcher) handleChange(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	files, err := w.reload(ctx)
	if err != nil {
		w.log.WithError(err).Debug("Reload failed")
	}
	if len(files) > 0 {
		w.watch(files)
	}
}
