// ABOUTME: Kill ring holding text cut by Ctrl+K, Ctrl+U and Ctrl+W for Ctrl+Y
// ABOUTME: Bounded; the oldest entry is overwritten once full; yank-pop walks back in time

package killring

// DefaultSize is the capacity used by New.
const DefaultSize = 32

// Ring is a bounded buffer of killed text.
type Ring struct {
	entries []string
	next    int // slot the next Push writes
	yank    int // entry returned by the last Yank/YankPop
}

// New creates a Ring with DefaultSize capacity.
func New() *Ring {
	return NewSize(DefaultSize)
}

// NewSize creates a Ring holding at most size entries (minimum 1).
func NewSize(size int) *Ring {
	if size < 1 {
		size = 1
	}
	return &Ring{entries: make([]string, 0, size)}
}

// Push records killed text. Empty text is ignored.
func (r *Ring) Push(text string) {
	if text == "" {
		return
	}
	if len(r.entries) < cap(r.entries) {
		r.entries = append(r.entries, text)
	} else {
		r.entries[r.next] = text
	}
	r.next = (r.next + 1) % cap(r.entries)
	r.yank = r.latest()
}

// Yank returns the most recent entry, or "" when empty.
func (r *Ring) Yank() string {
	if len(r.entries) == 0 {
		return ""
	}
	r.yank = r.latest()
	return r.entries[r.yank]
}

// YankPop returns the entry before the one last yanked, wrapping around.
func (r *Ring) YankPop() string {
	if len(r.entries) == 0 {
		return ""
	}
	r.yank = (r.yank - 1 + len(r.entries)) % len(r.entries)
	return r.entries[r.yank]
}

// Len returns the number of entries.
func (r *Ring) Len() int {
	return len(r.entries)
}

func (r *Ring) latest() int {
	return (r.next - 1 + len(r.entries)) % len(r.entries)
}
