package fileio

import (
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events produced by one save.
const watchDebounce = 100 * time.Millisecond

// Change reports that the watched file was modified, replaced or removed.
type Change struct {
	Path    string
	Removed bool
}

// WatchFile watches path for changes made by any process. The parent
// directory is watched so that atomic replacements are seen. The channel is
// closed when the returned closer is closed.
func WatchFile(path string) (<-chan Change, io.Closer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, nil, err
	}

	changes := make(chan Change, 8)

	go func() {
		var (
			debounceTimer *time.Timer
			closed        bool
			removed       bool
			mu            sync.Mutex
		)

		defer func() {
			mu.Lock()
			closed = true
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			mu.Unlock()
			close(changes)
		}()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}

				mu.Lock()
				// a replacement shows up as remove/rename followed by create
				removed = !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create)
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(watchDebounce, func() {
					mu.Lock()
					defer mu.Unlock()

					if closed {
						return
					}

					select {
					case changes <- Change{Path: abs, Removed: removed}:
					default:
					}
				})
				mu.Unlock()

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return changes, watcher, nil
}
