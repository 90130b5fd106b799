package content

import (
	"context"
	"path/filepath"

	"studyapp/internal/observability"
	contextutils "studyapp/internal/utils"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates cached documents when their files under dir change and
// calls onChange with the document name. It blocks until ctx is done.
func Watch(ctx context.Context, dir string, repo *Repository, logger *observability.Logger, onChange func(name string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return contextutils.WrapError(err, "failed to create content watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return contextutils.WrapErrorf(err, "failed to watch %s", dir)
	}

	known := make(map[string]bool)
	for _, name := range Documents() {
		known[name] = true
	}

	logger.Info(ctx, "Watching content directory", map[string]interface{}{"dir": dir})
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !known[name] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			repo.Invalidate(name)
			logger.Info(ctx, "Content document changed", map[string]interface{}{
				"document": name,
				"op":       ev.Op.String(),
			})
			if onChange != nil {
				onChange(name)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn(ctx, "Content watcher error", map[string]interface{}{"error": werr.Error()})
		}
	}
}
