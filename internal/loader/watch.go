package loader

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/koustreak/schemareg/internal/errs"
	"github.com/koustreak/schemareg/internal/logger"
	"github.com/koustreak/schemareg/internal/schema"
)

// Watch rebuilds filename each time it is written or created and passes
// every database that builds to onLoad. Documents that fail to load are
// logged and skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, filename string, onLoad func(*schema.Database)) error {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "invalid schema document path", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(errs.ErrKindConnectionFailed, "failed to create file watcher", err)
	}
	defer watcher.Close()

	// Editors often replace the file rather than write it, so watch the
	// directory and filter by name.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errs.Wrap(errs.ErrKindConnectionFailed, "failed to watch "+filepath.Dir(abs), err)
	}

	log := logger.With().Str("file", abs).Logger()
	log.Info("watching schema document")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			db, err := LoadFile(abs)
			if err != nil {
				log.ErrorWith("schema document reload failed", err, nil)
				continue
			}
			log.Info("schema document reloaded")
			onLoad(db)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.ErrorWith("file watcher error", err, nil)
		}
	}
}
