// ABOUTME: Line history with up/down navigation and file persistence
// ABOUTME: Shared between editors so a reinitialized session keeps earlier entries

package readline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultHistorySize is the number of entries kept by NewHistory.
const DefaultHistorySize = 500

// History stores submitted lines, oldest first. It is safe for
// concurrent use so one History can outlive the editors using it.
type History struct {
	mu      sync.Mutex
	entries []string
	max     int
	pos     int    // -1 means editing the draft line
	draft   string // line being edited before navigation started
}

// NewHistory creates an empty History keeping DefaultHistorySize entries.
func NewHistory() *History {
	return &History{max: DefaultHistorySize, pos: -1}
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a copy of the entries, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Add appends entry, moving an existing duplicate to the end. Blank
// entries are ignored.
func (h *History) Add(entry string) {
	if strings.TrimSpace(entry) == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range h.entries {
		if e == entry {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, entry)
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = h.entries[over:]
	}
	h.pos = -1
	h.draft = ""
}

// Prev moves to the next older entry. current is the line being edited,
// saved as the draft when navigation starts. ok is false at the oldest
// entry.
func (h *History) Prev(current string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pos >= len(h.entries)-1 {
		return "", false
	}
	if h.pos == -1 {
		h.draft = current
	}
	h.pos++
	return h.entries[len(h.entries)-1-h.pos], true
}

// Next moves to the next newer entry, returning the draft after the
// newest one. ok is false when not navigating.
func (h *History) Next() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pos < 0 {
		return "", false
	}
	h.pos--
	if h.pos == -1 {
		return h.draft, true
	}
	return h.entries[len(h.entries)-1-h.pos], true
}

// Reset ends navigation.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pos = -1
	h.draft = ""
}

// SaveToFile writes the entries to path, one per line.
func (h *History) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}
	entries := h.Entries()
	content := strings.Join(entries, "\n")
	if len(entries) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("writing history file: %w", err)
	}
	return nil
}

// LoadFromFile replaces the entries with those stored at path. A missing
// file is not an error.
func (h *History) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading history file: %w", err)
	}

	h.mu.Lock()
	h.entries = h.entries[:0]
	h.pos = -1
	h.draft = ""
	h.mu.Unlock()

	for _, line := range strings.Split(string(data), "\n") {
		h.Add(line)
	}
	return nil
}
