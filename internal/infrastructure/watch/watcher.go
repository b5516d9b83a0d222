// Package watch observes the source directory and triggers a pipeline run
// once every expected file is present and quiet. Exports land in the same
// directory tree, atomically renamed, so they never re-trigger a run.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher debounces filesystem events on the source directory. A burst of
// writes (an rsync or scp of the three CSVs) collapses into one trigger,
// fired only after the files have been quiet for the debounce window.
type Watcher struct {
	dir      string
	files    []string
	debounce time.Duration
	trigger  func(ctx context.Context)
	log      zerolog.Logger
}

// New builds a Watcher over dir. files are the absolute paths that must all
// exist before trigger fires.
func New(dir string, files []string, debounce time.Duration, trigger func(ctx context.Context), log zerolog.Logger) *Watcher {
	return &Watcher{dir: dir, files: files, debounce: debounce, trigger: trigger, log: log}
}

// Run blocks watching the directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log.Info().Str("dir", w.dir).Dur("debounce", w.debounce).Msg("watching source directory")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("source changed")
			timer.Stop()
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")

		case <-timer.C:
			if missing := w.missing(); len(missing) > 0 {
				w.log.Info().Strs("missing", missing).Msg("source incomplete, waiting")
				continue
			}
			w.trigger(ctx)
		}
	}
}

// relevant keeps events that create or modify one of the expected files.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	for _, f := range w.files {
		if filepath.Base(f) == name {
			return true
		}
	}
	return false
}

func (w *Watcher) missing() []string {
	var missing []string
	for _, f := range w.files {
		if _, err := os.Stat(f); err != nil {
			missing = append(missing, filepath.Base(f))
		}
	}
	return missing
}
