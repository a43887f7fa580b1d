// ABOUTME: Polling-based file watcher for config hot-reload
// ABOUTME: Compares file mtimes on each tick and runs until its context is done

package config

import (
	"context"
	"os"
	"sync"
	"time"
)

// DefaultWatchInterval is the polling interval used by NewWatcher.
const DefaultWatchInterval = 2 * time.Second

// Watcher reports changes to a set of files by polling their mtime.
type Watcher struct {
	paths    []string
	onChange func()

	mu       sync.Mutex
	interval time.Duration
	mtimes   map[string]time.Time
}

// NewWatcher creates a watcher that calls onChange when any monitored file
// is created, modified or removed. Empty paths are ignored.
func NewWatcher(paths []string, onChange func()) *Watcher {
	w := &Watcher{
		onChange: onChange,
		interval: DefaultWatchInterval,
		mtimes:   make(map[string]time.Time),
	}
	for _, p := range paths {
		if p != "" {
			w.paths = append(w.paths, p)
		}
	}
	w.snapshotLocked()
	return w
}

// SetInterval overrides the polling interval. It takes effect on the next Run.
func (w *Watcher) SetInterval(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.interval = d
}

// Run polls until ctx is done and returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	interval := w.interval
	w.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.ForceCheck()
		}
	}
}

// ForceCheck checks the files now and calls onChange if any changed.
func (w *Watcher) ForceCheck() {
	w.mu.Lock()
	changed := w.checkLocked()
	if changed {
		w.snapshotLocked()
	}
	w.mu.Unlock()

	if changed {
		w.onChange()
	}
}

// checkLocked compares current mtimes with stored snapshots. Must hold mu.
func (w *Watcher) checkLocked() bool {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			if _, existed := w.mtimes[path]; existed {
				return true
			}
			continue
		}
		prev, ok := w.mtimes[path]
		if !ok || !info.ModTime().Equal(prev) {
			return true
		}
	}
	return false
}

// snapshotLocked records current mtimes. Must hold mu.
func (w *Watcher) snapshotLocked() {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			delete(w.mtimes, path)
			continue
		}
		w.mtimes[path] = info.ModTime()
	}
}
