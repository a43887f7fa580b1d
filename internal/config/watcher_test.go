// ABOUTME: Tests for polling-based file watcher
// ABOUTME: Validates mtime change detection, removal, creation and context stop

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	writeFile(t, path, "prompt: {}\n")
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestWatcher_ForceCheck(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	base := time.Now().Add(-time.Hour)
	touch(t, path, base)

	var called atomic.Int32
	w := NewWatcher([]string{path, ""}, func() { called.Add(1) })

	steps := []struct {
		name   string
		change func()
		want   int32
	}{
		{name: "unchanged file", change: func() {}, want: 0},
		{name: "mtime changed", change: func() { touch(t, path, base.Add(time.Minute)) }, want: 1},
		{name: "snapshot updated", change: func() {}, want: 1},
		{name: "removal is a change", change: func() {
			if err := os.Remove(path); err != nil {
				t.Fatal(err)
			}
		}, want: 2},
	}
	for _, st := range steps {
		st.change()
		w.ForceCheck()
		if got := called.Load(); got != st.want {
			t.Errorf("%s: onChange called %d times, want %d", st.name, got, st.want)
		}
	}
}

func TestWatcher_DetectsCreation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	var called atomic.Int32
	w := NewWatcher([]string{path}, func() { called.Add(1) })

	w.ForceCheck()
	if got := called.Load(); got != 0 {
		t.Fatalf("onChange called %d times before creation", got)
	}

	touch(t, path, time.Now())
	w.ForceCheck()
	if got := called.Load(); got != 1 {
		t.Errorf("onChange called %d times after creation, want 1", got)
	}
}

func TestWatcher_RunPollsUntilCancel(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	base := time.Now().Add(-time.Hour)
	touch(t, path, base)

	var called atomic.Int32
	w := NewWatcher([]string{path}, func() { called.Add(1) })
	w.SetInterval(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	touch(t, path, base.Add(time.Minute))
	deadline := time.Now().Add(2 * time.Second)
	for called.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Run did not report the change")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
