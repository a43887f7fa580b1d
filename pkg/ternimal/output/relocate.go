// ABOUTME: Cursor relocation fragments that move injected output above the prompt line
// ABOUTME: Row count comes from width.CursorRows over the prompt plus the current input

package output

import (
	"strconv"
	"strings"

	"github.com/Arnesfield/ternimal/pkg/ternimal/width"
)

// LineState is the read-only view of a line editor the multiplexer needs
// to know how much screen space the prompt occupies.
type LineState interface {
	IsTerminal() bool
	Prompt() string
	Line() string
}

// CursorRower is implemented by editors that track which row of a wrapped
// prompt the cursor is on. Without it the cursor is assumed to be on the
// last row.
type CursorRower interface {
	CursorRow() int
}

// Relocation holds the fragments written around a payload. Before erases
// the prompt rows and parks the cursor at the prompt's first row; After
// moves down as many rows as the cursor sat below the first one, which is
// where the editor expects it for the next redraw.
type Relocation struct {
	Rows   int
	Before string
	After  string
}

// Wrap returns before+p+after as a single buffer.
func (r Relocation) Wrap(p []byte) []byte {
	buf := make([]byte, 0, len(r.Before)+len(p)+len(r.After))
	buf = append(buf, r.Before...)
	buf = append(buf, p...)
	return append(buf, r.After...)
}

// Relocate computes the fragments for the current prompt. It reports false
// when no relocation applies: the editor is not a terminal, the width is
// unknown, or no prompt is on screen.
func Relocate(ls LineState, columns int, active bool) (Relocation, bool) {
	if ls == nil || !active || columns <= 0 || !ls.IsTerminal() {
		return Relocation{}, false
	}
	rows := width.CursorRows(ls.Prompt()+ls.Line(), columns)
	if rows <= 0 {
		return Relocation{}, false
	}
	cursor := rows - 1
	if cr, ok := ls.(CursorRower); ok {
		if r := cr.CursorRow(); r >= 0 && r < rows {
			cursor = r
		}
	}
	return Relocation{
		Rows:   rows,
		Before: "\n\r" + "\x1b[" + strconv.Itoa(cursor+1) + "A" + "\x1b[0J",
		After:  strings.Repeat("\n", cursor),
	}, true
}
