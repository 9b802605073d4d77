// Package watch reports content changes to a set of files.
//
// Parent directories are watched rather than the files themselves, so that
// editors which replace a file on save are still observed.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-spatial/tilestyle/pkg/log"
)

// HandlerFunc is called with the absolute path of a changed file. Returning
// an error stops [Watcher.Run].
type HandlerFunc func(ctx context.Context, path string) error

// Watcher watches files for writes, creates and renames.
type Watcher struct {
	tracer  trace.Tracer
	watcher *fsnotify.Watcher
	files   map[string]struct{}
}

// New creates a [Watcher] for the given file paths.
func New(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		tracer:  otel.Tracer("watch"),
		watcher: fw,
		files:   make(map[string]struct{}, len(paths)),
	}

	dirs := map[string]struct{}{}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("resolve %q: %w", p, err), fw.Close())
		}

		w.files[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}

		err = fw.Add(dir)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("add path to watcher: %w", err), fw.Close())
		}

		dirs[dir] = struct{}{}
	}

	slog.Debug("added file watchers",
		slog.Int("files", len(w.files)),
		slog.Int("dirs", len(dirs)),
	)

	return w, nil
}

// Run calls fn for every change to a watched file until ctx is done, fn
// returns an error, or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, fn HandlerFunc) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if !w.relevant(evt) {
				continue
			}

			err := w.handle(ctx, evt, fn)
			if err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			log.WithContext(ctx).WarnContext(ctx, "file watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, evt fsnotify.Event, fn HandlerFunc) error {
	ctx, span := w.tracer.Start(ctx, "change", trace.WithAttributes(
		attribute.String("path", evt.Name),
		attribute.String("op", evt.Op.String()),
	))
	defer span.End()

	log.WithContext(ctx).DebugContext(ctx, "file changed", slog.String("event", evt.String()))

	return fn(ctx, evt.Name)
}

func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if _, ok := w.files[filepath.Clean(evt.Name)]; !ok {
		return false
	}

	return evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) || evt.Has(fsnotify.Rename)
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}
