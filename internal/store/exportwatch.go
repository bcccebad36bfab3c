package store

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// ExportWatcher detects export filename collisions: a file appearing in
// the export directory between ExportSession computing its timestamped
// name and the write completing. It does not prevent the collision, only
// reports it so the calling screen can warn before overwriting.
type ExportWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
}

// WatchExportDir opens a watch on dir, creating it if necessary.
func WatchExportDir(dir string) (*ExportWatcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create export dir %s: %w", dir, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create export watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("store: watch export dir %s: %w", dir, err)
	}
	return &ExportWatcher{watcher: w, dir: dir}, nil
}

// Collisions reports filenames created in the export directory after the
// watch started, filtered to Create events (the only kind a write-time
// collision check cares about).
func (w *ExportWatcher) Collisions() <-chan string {
	out := make(chan string, 8)
	go func() {
		defer close(out)
		for ev := range w.watcher.Events {
			if ev.Op&fsnotify.Create == 0 {
				continue
			}
			select {
			case out <- ev.Name:
			default:
			}
		}
	}()
	return out
}

// Close stops the watch.
func (w *ExportWatcher) Close() error {
	return w.watcher.Close()
}
