package journalcrop

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/fsnotify.v1"
)

// Handler processes one settled PDF file.
type Handler func(ctx context.Context, path string)

// Watcher runs a handler for every PDF created or rewritten in a directory
// once its writes have settled.
type Watcher struct {
	dir      string
	debounce time.Duration
	handle   Handler
	log      logrus.FieldLogger

	pending map[string]time.Time
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string, debounce time.Duration, handle Handler, log logrus.FieldLogger) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handle:   handle,
		log:      log,
		pending:  make(map[string]time.Time),
	}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", w.dir)
	}
	w.log.WithField("dir", w.dir).Info("watching for PDF files")

	tick := w.debounce / 2
	if tick < 50*time.Millisecond {
		tick = 50 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isPDF(event.Name) {
				continue
			}
			switch {
			case event.Op&fsnotify.Create == fsnotify.Create,
				event.Op&fsnotify.Write == fsnotify.Write:
				w.note(event.Name, time.Now())
			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				delete(w.pending, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("watch error")

		case now := <-ticker.C:
			for _, path := range w.due(now) {
				if ctx.Err() != nil {
					return nil
				}
				w.log.WithField("path", path).Info("processing settled file")
				w.handle(ctx, path)
			}
		}
	}
}

// note records a write to path at t.
func (w *Watcher) note(path string, t time.Time) {
	w.pending[path] = t
}

// due returns and forgets the files untouched for the debounce period, sorted.
func (w *Watcher) due(now time.Time) []string {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
	}
	sort.Strings(ready)
	return ready
}
