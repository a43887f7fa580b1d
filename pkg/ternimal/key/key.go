// ABOUTME: Defines the Key type and ParseKey for line editor keystrokes
// ABOUTME: Handles printable runes, control bytes, Alt combos, and delegates CSI/SS3 to the legacy table

package key

import (
	"fmt"
	"unicode/utf8"
)

// Key is a parsed keystroke.
type Key struct {
	Type  Type
	Rune  rune // For printable characters
	Alt   bool
	Ctrl  bool
	Shift bool
}

// Type enumerates the keys the line editor distinguishes.
type Type int

const (
	Rune      Type = iota // Printable character
	Enter                 // Enter / Return
	Tab                   // Tab
	BackTab               // Shift+Tab
	Backspace             // Backspace / DEL (0x7F)
	Delete                // Delete key
	Up                    // Arrow up
	Down                  // Arrow down
	Left                  // Arrow left
	Right                 // Arrow right
	Home                  // Home / Ctrl+A
	End                   // End / Ctrl+E
	WordLeft              // Ctrl+Left / Alt+B
	WordRight             // Ctrl+Right / Alt+F
	Escape                // Escape
	CtrlC                 // Ctrl+C
	CtrlD                 // Ctrl+D
	CtrlK                 // Ctrl+K
	CtrlL                 // Ctrl+L
	CtrlU                 // Ctrl+U
	CtrlW                 // Ctrl+W / Alt+Backspace
	CtrlY                 // Ctrl+Y
	Unknown               // Unrecognized input
)

// ctrlKeys maps control bytes to keys. Ctrl+B/F/N/P alias the arrows.
var ctrlKeys = map[byte]Key{
	0x01: {Type: Home, Ctrl: true},
	0x02: {Type: Left, Ctrl: true},
	0x03: {Type: CtrlC, Ctrl: true},
	0x04: {Type: CtrlD, Ctrl: true},
	0x05: {Type: End, Ctrl: true},
	0x06: {Type: Right, Ctrl: true},
	0x08: {Type: Backspace, Ctrl: true},
	0x0b: {Type: CtrlK, Ctrl: true},
	0x0c: {Type: CtrlL, Ctrl: true},
	0x0e: {Type: Down, Ctrl: true},
	0x10: {Type: Up, Ctrl: true},
	0x15: {Type: CtrlU, Ctrl: true},
	0x17: {Type: CtrlW, Ctrl: true},
	0x19: {Type: CtrlY, Ctrl: true},
}

// Parse parses one keystroke worth of raw terminal input.
func Parse(data string) Key {
	if len(data) == 0 {
		return Key{Type: Unknown}
	}

	if len(data) == 1 {
		return parseSingleByte(data[0])
	}

	if data[0] == 0x1b {
		return parseEscapeSequence(data)
	}

	r, size := utf8.DecodeRuneInString(data)
	if r == utf8.RuneError || size != len(data) {
		return Key{Type: Unknown}
	}
	return Key{Type: Rune, Rune: r}
}

func parseSingleByte(b byte) Key {
	switch {
	case b == 0x0d || b == 0x0a:
		return Key{Type: Enter}
	case b == 0x09:
		return Key{Type: Tab}
	case b == 0x7f:
		return Key{Type: Backspace}
	case b == 0x1b:
		return Key{Type: Escape}
	case b >= 0x20 && b <= 0x7e:
		return Key{Type: Rune, Rune: rune(b)}
	}

	if k, ok := ctrlKeys[b]; ok {
		return k
	}
	return Key{Type: Unknown}
}

func parseEscapeSequence(data string) Key {
	if k, ok := legacySequences[data]; ok {
		return k
	}

	if len(data) == 2 {
		switch data[1] {
		case 'b', 'B':
			return Key{Type: WordLeft, Alt: true}
		case 'f', 'F':
			return Key{Type: WordRight, Alt: true}
		case 0x7f, 0x08:
			return Key{Type: CtrlW, Alt: true}
		}
		// Alt+letter: ESC followed by a single printable byte
		if data[1] >= 0x20 && data[1] <= 0x7e {
			return Key{Type: Rune, Rune: rune(data[1]), Alt: true}
		}
	}

	return Key{Type: Unknown}
}

var typeNames = map[Type]string{
	Enter:     "Enter",
	Tab:       "Tab",
	BackTab:   "BackTab",
	Backspace: "Backspace",
	Delete:    "Delete",
	Up:        "Up",
	Down:      "Down",
	Left:      "Left",
	Right:     "Right",
	Home:      "Home",
	End:       "End",
	WordLeft:  "WordLeft",
	WordRight: "WordRight",
	Escape:    "Escape",
	CtrlC:     "Ctrl+C",
	CtrlD:     "Ctrl+D",
	CtrlK:     "Ctrl+K",
	CtrlL:     "Ctrl+L",
	CtrlU:     "Ctrl+U",
	CtrlW:     "Ctrl+W",
	CtrlY:     "Ctrl+Y",
	Unknown:   "Unknown",
}

// String returns a readable name for debug output.
func (k Key) String() string {
	if k.Type == Rune {
		s := string(k.Rune)
		if k.Alt {
			s = fmt.Sprintf("Alt+%s", s)
		}
		return s
	}
	if name, ok := typeNames[k.Type]; ok {
		return name
	}
	return "Unknown"
}
