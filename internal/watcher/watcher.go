// Package watcher monitors a directory and feeds accepted documents to the
// conversation controller.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/diogo/ragchat/internal/models"
)

// DefaultDebounce is how long a path must stay quiet before its event is emitted.
// Editors and copies produce bursts of writes for a single file.
const DefaultDebounce = 500 * time.Millisecond

// Operation is the kind of change observed on a file
type Operation int

const (
	FileCreated Operation = iota
	FileModified
)

func (o Operation) String() string {
	if o == FileCreated {
		return "created"
	}
	return "modified"
}

// Event reports a settled change to a watched document
type Event struct {
	Path      string
	Operation Operation
}

// Option configures a Watcher
type Option func(*Watcher)

// WithExtensions restricts events to the given extensions
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		if len(exts) > 0 {
			w.extensions = exts
		}
	}
}

// WithDebounce sets the quiet period. Zero emits every event immediately.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger used for watcher errors
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// Watcher wraps fsnotify with extension filtering and debouncing
type Watcher struct {
	fs         *fsnotify.Watcher
	extensions []string
	debounce   time.Duration
	logger     zerolog.Logger
}

// New creates a watcher for the document types the server accepts
func New(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:         fw,
		extensions: models.SupportedExtensions(),
		debounce:   DefaultDebounce,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch starts monitoring dir. The returned channel is closed when ctx is
// done or the watcher is stopped.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan Event, error) {
	if err := w.fs.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan Event, 100)
	go w.loop(ctx, events)
	return events, nil
}

func (w *Watcher) loop(ctx context.Context, events chan<- Event) {
	defer close(events)

	pending := make(map[string]pendingEvent)

	var tick <-chan time.Time
	if w.debounce > 0 {
		ticker := time.NewTicker(w.debounce / 2)
		defer ticker.Stop()
		tick = ticker.C
	}

	emit := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.isWatchedExtension(event.Name) {
				continue
			}

			var op Operation
			switch {
			case event.Has(fsnotify.Create):
				op = FileCreated
			case event.Has(fsnotify.Write):
				op = FileModified
			default:
				continue
			}

			if w.debounce == 0 {
				if !emit(Event{Path: event.Name, Operation: op}) {
					return
				}
				continue
			}

			// a create followed by writes is still a create
			if prev, seen := pending[event.Name]; seen && prev.event.Operation == FileCreated {
				op = FileCreated
			}
			pending[event.Name] = pendingEvent{
				event: Event{Path: event.Name, Operation: op},
				last:  time.Now(),
			}

		case now := <-tick:
			for path, p := range pending {
				if now.Sub(p.last) < w.debounce {
					continue
				}
				delete(pending, path)
				if !emit(p.event) {
					return
				}
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

type pendingEvent struct {
	event Event
	last  time.Time
}

// Stop releases the underlying fsnotify watcher
func (w *Watcher) Stop() error {
	return w.fs.Close()
}

func (w *Watcher) isWatchedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
