package slots

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates templates as their files change under the engine
// directory, so the next render reads them again. It blocks until ctx is done.
// Only engines created with NewEngine can be watched.
func (e *Engine) Watch(ctx context.Context) error {
	if e.root == "" {
		return errors.New("watch requires an engine created with NewEngine")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer w.Close()

	err = filepath.WalkDir(e.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watching directory %s: %w", e.root, err)
	}
	e.logger.Debug("watching templates", "dir", e.root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			e.handleEvent(w, event)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("template watcher error", "error", err)
		}
	}
}

func (e *Engine) handleEvent(w *fsnotify.Watcher, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if err := w.Add(event.Name); err != nil {
				e.logger.Warn("watching new directory", "dir", event.Name, "error", err)
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !e.validExt(event.Name) {
		return
	}
	rel, err := filepath.Rel(e.root, event.Name)
	if err != nil {
		return
	}
	e.Invalidate(e.nameFromPath(rel))
}
