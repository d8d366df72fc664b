package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/ooqd/internal/ports"
)

// QueueWatcher signals when a producer creates the queue file, so the
// supervisor can end its idle wait early. It only watches; it never touches
// the filesystem.
type QueueWatcher struct {
	path   string
	logger ports.Logger
	wake   chan struct{}
}

// NewQueueWatcher creates a watcher for queuePath.
func NewQueueWatcher(queuePath string, logger ports.Logger) *QueueWatcher {
	return &QueueWatcher{
		path:   filepath.Clean(queuePath),
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// Wake returns the channel that receives a value when the queue appears.
// Signals coalesce: at most one is pending at a time.
func (w *QueueWatcher) Wake() <-chan struct{} {
	return w.wake
}

// Run watches the queue's directory until ctx is canceled.
func (w *QueueWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("watching queue directory", ports.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Our own rename of the queue shows up as Rename; ignore it.
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.notify()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("queue watcher error", ports.Err(err))
		}
	}
}

func (w *QueueWatcher) notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}
