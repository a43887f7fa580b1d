// ABOUTME: Editable line buffer with rune cursor and kill ring
// ABOUTME: Emacs-style operations: kill to end/start, delete word, yank and yank-pop

package readline

import (
	"unicode"

	"github.com/Arnesfield/ternimal/pkg/ternimal/internal/killring"
)

// buffer is the line being edited. It is not safe for concurrent use;
// the Editor guards it.
type buffer struct {
	text   []rune
	cursor int
	ring   *killring.Ring

	// yankLen is the length of the text inserted by the last yank, so a
	// following yank-pop can replace it. Zero when the last action was
	// not a yank.
	yankLen int
}

func newBuffer() *buffer {
	return &buffer{text: make([]rune, 0, 64), ring: killring.New()}
}

func (b *buffer) String() string { return string(b.text) }

// set replaces the text and moves the cursor to the end.
func (b *buffer) set(s string) {
	b.text = []rune(s)
	b.cursor = len(b.text)
	b.yankLen = 0
}

func (b *buffer) beforeCursor() string { return string(b.text[:b.cursor]) }

func (b *buffer) insert(s string) {
	rs := []rune(s)
	if len(rs) == 0 {
		return
	}
	text := make([]rune, 0, len(b.text)+len(rs))
	text = append(text, b.text[:b.cursor]...)
	text = append(text, rs...)
	text = append(text, b.text[b.cursor:]...)
	b.text = text
	b.cursor += len(rs)
	b.yankLen = 0
}

func (b *buffer) backspace() bool {
	b.yankLen = 0
	if b.cursor == 0 {
		return false
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	return true
}

func (b *buffer) delete() bool {
	b.yankLen = 0
	if b.cursor >= len(b.text) {
		return false
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
	return true
}

func (b *buffer) move(delta int) bool {
	b.yankLen = 0
	c := min(max(b.cursor+delta, 0), len(b.text))
	if c == b.cursor {
		return false
	}
	b.cursor = c
	return true
}

func (b *buffer) home() bool { return b.move(-b.cursor) }
func (b *buffer) end() bool  { return b.move(len(b.text) - b.cursor) }

func (b *buffer) wordStart() int {
	pos := b.cursor
	for pos > 0 && unicode.IsSpace(b.text[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(b.text[pos-1]) {
		pos--
	}
	return pos
}

func (b *buffer) wordEnd() int {
	pos := b.cursor
	for pos < len(b.text) && unicode.IsSpace(b.text[pos]) {
		pos++
	}
	for pos < len(b.text) && !unicode.IsSpace(b.text[pos]) {
		pos++
	}
	return pos
}

func (b *buffer) wordLeft() bool  { return b.move(b.wordStart() - b.cursor) }
func (b *buffer) wordRight() bool { return b.move(b.wordEnd() - b.cursor) }

// killToEnd cuts from the cursor to the end of the line.
func (b *buffer) killToEnd() bool {
	b.yankLen = 0
	if b.cursor >= len(b.text) {
		return false
	}
	b.ring.Push(string(b.text[b.cursor:]))
	b.text = b.text[:b.cursor]
	return true
}

// killToStart cuts from the start of the line to the cursor.
func (b *buffer) killToStart() bool {
	b.yankLen = 0
	if b.cursor == 0 {
		return false
	}
	b.ring.Push(string(b.text[:b.cursor]))
	b.text = append(b.text[:0:0], b.text[b.cursor:]...)
	b.cursor = 0
	return true
}

// killWordBackward cuts the word before the cursor.
func (b *buffer) killWordBackward() bool {
	b.yankLen = 0
	if b.cursor == 0 {
		return false
	}
	pos := b.wordStart()
	b.ring.Push(string(b.text[pos:b.cursor]))
	b.text = append(b.text[:pos], b.text[b.cursor:]...)
	b.cursor = pos
	return true
}

func (b *buffer) yank() bool {
	s := b.ring.Yank()
	if s == "" {
		return false
	}
	b.insert(s)
	b.yankLen = len([]rune(s))
	return true
}

// yankPop replaces the text inserted by the previous yank with the next
// older kill.
func (b *buffer) yankPop() bool {
	if b.yankLen == 0 {
		return false
	}
	start := b.cursor - b.yankLen
	b.text = append(b.text[:start], b.text[b.cursor:]...)
	b.cursor = start
	s := b.ring.YankPop()
	b.insert(s)
	b.yankLen = len([]rune(s))
	return true
}
