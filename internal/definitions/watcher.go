package definitions

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads a Registry when its source document changes on
// disk. Reload failures are logged and leave the previous snapshot
// active; a bad edit never takes resolution down.
type Watcher struct {
	registry *Registry
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
}

// NewWatcher starts watching the registry's source file. The parent
// directory is watched rather than the file itself so editors that
// replace via rename keep triggering events.
func NewWatcher(registry *Registry, logger *slog.Logger) (*Watcher, error) {
	if registry.path == "" {
		return nil, fmt.Errorf("definitions watcher: registry has no file source")
	}
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("definitions watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(registry.path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("definitions watcher: %w", err)
	}
	return &Watcher{registry: registry, watcher: fw, logger: logger}, nil
}

// Run processes file events until ctx is cancelled or the watcher is
// closed. It blocks; run it on its own goroutine.
func (w *Watcher) Run(ctx context.Context) {
	target := filepath.Clean(w.registry.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := w.registry.Reload(); err != nil {
				w.logger.Error("definitions hot reload failed, previous set stays active", "error", err)
				continue
			}
			w.logger.Info("definitions hot reloaded", "version", w.registry.Snapshot().Version())
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("definitions watcher error", "error", err)
		}
	}
}

// Close stops the watcher. Run returns once the event channel drains.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
