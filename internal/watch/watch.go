// Package watch re-runs a callback whenever a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce absorbs the burst of events editors emit for one save.
const DefaultDebounce = 200 * time.Millisecond

// Run calls onChange once immediately and then again each time writes to
// path settle for debounce. Callback errors are logged, not returned. The
// parent directory is watched so that editors which replace the file are
// still seen. Run returns nil when ctx is done.
func Run(ctx context.Context, path string, debounce time.Duration, log *zap.Logger, onChange func() error) error {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: new watcher: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(target), err)
	}

	fire := func() {
		if err := onChange(); err != nil {
			log.Warn("rerun failed", zap.String("path", target), zap.Error(err))
		}
	}
	fire()

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			log.Debug("file changed", zap.String("path", name), zap.Stringer("op", ev.Op))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerC = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))

		case <-timerC:
			timerC = nil
			fire()
		}
	}
}
