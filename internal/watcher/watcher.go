package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

const eventBuffer = 64

// Event represents a change to the watched file.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher reports OS-level change notifications for a single file. It watches
// the parent directory so that the file being created, replaced, or removed
// is observed as well as writes to it.
type Watcher struct {
	fsw    *fsnotify.Watcher
	Events chan Event
	path   string
}

// New creates a Watcher for path. The directory containing path must exist.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		fsw:    fsw,
		Events: make(chan Event, eventBuffer),
		path:   abs,
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start forwards events for the watched file. It blocks until the context is
// cancelled, then releases the OS watch and closes Events.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			// Readers pull everything available on each event, so a full
			// buffer means a wakeup is already pending.
			select {
			case w.Events <- Event{Path: ev.Name, Op: ev.Op}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "path", w.path, "err", err)
		}
	}
}
