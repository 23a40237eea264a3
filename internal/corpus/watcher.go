package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/llmspace/whatsapp-assistant/internal/extractors"
	"github.com/llmspace/whatsapp-assistant/internal/logger"
)

// Watcher reports changes to supported files under the corpus
// directory, so callers can decide when a reindex is worthwhile.
type Watcher struct {
	root     string
	registry *extractors.Registry

	mu     sync.Mutex
	closed bool
}

// NewWatcher creates a corpus watcher rooted at the given directory.
func NewWatcher(root string, registry *extractors.Registry) *Watcher {
	return &Watcher{
		root:     root,
		registry: registry,
	}
}

// Watch emits the path of every supported file that is created,
// modified, or removed under the corpus root. Subdirectories created
// while watching are picked up. The channel closes when the context is
// cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, fmt.Errorf("watcher is closed")
	}
	w.mu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := addRecursive(fsw, w.root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("root path error: %w", err)
	}

	changes := make(chan string)

	go func() {
		defer close(changes)
		defer fsw.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				w.handleEvent(ctx, fsw, event, changes)

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("Corpus watch error: %v", err)
			}
		}
	}()

	return changes, nil
}

// handleEvent forwards changes to supported files and tracks new
// directories.
func (w *Watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, event fsnotify.Event, changes chan<- string) {
	if isHidden(filepath.Base(event.Name)) {
		return
	}

	if event.Op.Has(fsnotify.Create) {
		// New directories need their own watch
		if err := addRecursive(fsw, event.Name); err == nil {
			logger.Debug("Watching new directory %s", event.Name)
		}
	}

	if !w.registry.Has(filepath.Ext(event.Name)) {
		return
	}

	if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
		select {
		case changes <- event.Name:
		case <-ctx.Done():
		}
	}
}

// Close stops accepting new Watch calls.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// addRecursive watches path and, when it is a directory, every
// non-hidden directory beneath it.
func addRecursive(fsw *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if isHidden(d.Name()) && p != path {
			return filepath.SkipDir
		}
		return fsw.Add(p)
	})
}
