package storage

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch invokes fn whenever another process writes the database file. It is
// the out-of-process counterpart to Subscribe: a watcher cannot tell which
// key changed, so observers reload everything they display.
//
// The returned cancel func stops the watcher.
func Watch(dbPath string, fn func()) (cancel func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory, not the file: SQLite writes via the -wal/-journal
	// siblings and some editors replace files atomically.
	dir := filepath.Dir(dbPath)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	base := filepath.Base(dbPath)
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				name := filepath.Base(ev.Name)
				if name == base || name == base+"-wal" || name == base+"-journal" {
					fn()
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() { _ = w.Close() }, nil
}
