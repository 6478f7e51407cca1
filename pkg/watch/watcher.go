// Package watch monitors a directory and reports PDF files as they appear
// or change, so they can be ingested without going through the HTTP API.
package watch

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher emits paths of PDFs written into a watched directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *zap.Logger
}

// NewWatcher creates a directory watcher.
func NewWatcher(logger *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: w,
		logger:  logger,
	}, nil
}

// Watch starts monitoring the directory. The returned channel carries the
// path of each created or modified PDF and closes when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	paths := make(chan string, 100)

	go func() {
		defer close(paths)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !isPDF(event.Name) {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}

				select {
				case paths <- event.Name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", zap.Error(err))
			}
		}
	}()

	return paths, nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
