// Package watch implements ferret's change notifier: a recursive fsnotify
// watcher under the base directory feeding a bounded FIFO ring of recent
// change records.
//
// The watcher runs on its own goroutine and never surfaces errors to tool
// callers; failures are logged and the affected event is dropped. The ring
// decouples the watcher goroutine from the query path, so get_recent_changes
// reads a consistent snapshot without racing the event loop.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ferretfs/ferret/internal/log"
	"github.com/ferretfs/ferret/internal/security"
)

// Event kinds recorded in the ring.
const (
	KindCreated  = "created"
	KindModified = "modified"
	KindDeleted  = "deleted"
	KindMoved    = "moved"
)

// Watcher subscribes recursively under the base directory and records file
// events. Directory events are excluded: directories are only tracked so
// files created inside them are picked up.
type Watcher struct {
	pathVal *security.Path
	fsw     *fsnotify.Watcher
	ring    *Ring
	logger  log.Logger

	// dirs is the set of watched directories. Populated during construction
	// and then touched only by the event loop goroutine, so no lock.
	dirs map[string]struct{}

	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New creates a watcher over the validator's base directory with a change
// ring of the given capacity. Call Start to begin receiving events and
// Close to release the underlying OS watch handles.
func New(pathVal *security.Path, capacity int, logger log.Logger) (*Watcher, error) {
	if pathVal == nil {
		return nil, fmt.Errorf("path validator is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	ring, err := NewRing(capacity)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		pathVal: pathVal,
		fsw:     fsw,
		ring:    ring,
		logger:  logger,
		dirs:    make(map[string]struct{}),
	}

	if err := w.addTree(pathVal.Base()); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", pathVal.Base(), err)
	}

	return w, nil
}

// Start launches the event loop goroutine.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Close stops the event loop and releases the fsnotify handle. Safe to call
// more than once.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		// Closing the fsnotify watcher closes its channels, which ends the
		// event loop.
		w.closeErr = w.fsw.Close()
		w.wg.Wait()
	})
	return w.closeErr
}

// Recent returns the current ring contents, oldest first.
func (w *Watcher) Recent() []Record {
	return w.ring.Recent()
}

// addTree adds a watch for root and every directory below it. Unreadable
// subtrees are logged and skipped rather than failing the whole watcher.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("skipping unwatchable path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			if path == root {
				return addErr
			}
			w.logger.Warn("unable to watch directory", "path", path, "error", addErr)
			return fs.SkipDir
		}
		w.dirs[path] = struct{}{}
		return nil
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// handle records one filesystem event, extending the watch when a directory
// appears and dropping events on directories themselves.
func (w *Watcher) handle(ev fsnotify.Event) {
	name := filepath.Clean(ev.Name)

	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Lstat(name); err == nil && info.IsDir() {
			if err := w.fsw.Add(name); err != nil {
				w.logger.Warn("unable to watch new directory", "path", name, "error", err)
			} else {
				w.dirs[name] = struct{}{}
				w.logger.Debug("watching new directory", "path", name)
			}
			return
		}
	}

	// The tracked set identifies directory events even after the path is
	// gone (remove/rename leave nothing to stat).
	if _, isDir := w.dirs[name]; isDir {
		if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
			delete(w.dirs, name)
		}
		return
	}
	if info, err := os.Lstat(name); err == nil && info.IsDir() {
		return
	}

	rec := Record{
		Path: w.pathVal.Rel(name),
		Type: eventKind(ev.Op),
	}
	if info, err := os.Stat(name); err == nil {
		ts := float64(info.ModTime().UnixNano()) / float64(time.Second)
		rec.Time = &ts
	}

	w.ring.Append(rec)
	w.logger.Debug("recorded change", "path", rec.Path, "type", rec.Type)
}

// eventKind maps an fsnotify op to a record type. Chmod reports attribute
// changes, which count as modifications.
func eventKind(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return KindCreated
	case op.Has(fsnotify.Remove):
		return KindDeleted
	case op.Has(fsnotify.Rename):
		return KindMoved
	case op.Has(fsnotify.Write):
		return KindModified
	default:
		return KindModified
	}
}
