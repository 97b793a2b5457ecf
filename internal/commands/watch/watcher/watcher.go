// Package watcher calls back whenever a single file changes on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/artuross/sexpc/internal/log/semconv"
	"github.com/artuross/sexpc/internal/util/timeutil"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultInterval = 200 * time.Millisecond

type Callback func(ctx context.Context) error

// Watcher runs a callback once on start and then after every batch of changes to a file.
// Changes are collected between ticks, so a burst of writes triggers a single callback.
type Watcher struct {
	file      string
	callback  Callback
	interval  time.Duration
	newTicker timeutil.NewTickerFunc
}

func New(file string, callback Callback, options ...func(*Watcher)) *Watcher {
	watcher := Watcher{
		file:      file,
		callback:  callback,
		interval:  defaultInterval,
		newTicker: timeutil.NewTicker,
	}

	for _, apply := range options {
		apply(&watcher)
	}

	return &watcher
}

// Run blocks until ctx is cancelled. Callback errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	absPath, err := filepath.Abs(w.file)
	if err != nil {
		return fmt.Errorf("get absolute path: %w", err)
	}

	w.file = absPath

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsWatcher.Close()

	// editors replace files on save, the directory watch survives that
	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}

	w.runCallback(ctx)

	return w.loop(ctx, fsWatcher.Events, fsWatcher.Errors)
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	logger := zerolog.Ctx(ctx)

	ticker := w.newTicker(w.interval)
	defer ticker.Stop()

	changed := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}

			if w.isRelevant(event) {
				changed = true
			}

		case err, ok := <-errs:
			if !ok {
				return nil
			}

			logger.Warn().Err(err).Msg("watch error")

		case <-ticker.Chan():
			if !changed {
				continue
			}

			changed = false

			w.runCallback(ctx)
		}
	}
}

func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	eventPath, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	return eventPath == w.file
}

func (w *Watcher) runCallback(ctx context.Context) {
	if err := w.callback(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str(semconv.SourcePath, w.file).Msg("watch callback")
	}
}

func WithInterval(d time.Duration) func(*Watcher) {
	return func(w *Watcher) {
		w.interval = d
	}
}

func WithTicker(newTicker timeutil.NewTickerFunc) func(*Watcher) {
	return func(w *Watcher) {
		w.newTicker = newTicker
	}
}
