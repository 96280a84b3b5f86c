package file

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// PromptWatcher reloads a PromptStore when files in its directory change.
type PromptWatcher struct {
	dir   string
	store driven.PromptStore
}

// NewPromptWatcher creates a watcher for the prompt files in dir.
func NewPromptWatcher(dir string, store driven.PromptStore) *PromptWatcher {
	return &PromptWatcher{dir: dir, store: store}
}

// Watch starts watching the prompt directory. Each relevant change reloads
// the store and sends the prompt name on the returned channel. The channel
// is closed when ctx is cancelled.
func (w *PromptWatcher) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(w.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}

	changes := make(chan string, 8)

	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				name, changed := w.handleEvent(event)
				if !changed {
					continue
				}
				w.store.Reload()
				logger.Debug("prompt %q changed on disk, reloaded", name)
				select {
				case changes <- name:
				default:
					// Reload already happened; a dropped notification is harmless.
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("prompt watcher: %v", err)
			}
		}
	}()

	return changes, nil
}

// handleEvent maps a filesystem event to the prompt it affects.
// Only .txt files count, and chmod-only events are ignored.
func (w *PromptWatcher) handleEvent(event fsnotify.Event) (string, bool) {
	base := filepath.Base(event.Name)
	if filepath.Ext(base) != ".txt" || strings.HasPrefix(base, ".") {
		return "", false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	return strings.TrimSuffix(base, ".txt"), true
}
