// ABOUTME: Prompt rendering for the line editor, aware of wrapped and multi-line prompts
// ABOUTME: Tracks the cursor row so the next redraw can return to the prompt's first row

package readline

import (
	"strconv"
	"strings"

	"github.com/Arnesfield/ternimal/pkg/ternimal/width"
)

// noWrap stands in for the width of an output whose size is unknown.
const noWrap = 1 << 20

func csi(b *strings.Builder, n int, final byte) {
	b.WriteString("\x1b[")
	b.WriteString(strconv.Itoa(n))
	b.WriteByte(final)
}

func (e *Editor) columns() int {
	if c := e.out.Columns(); c > 0 {
		return c
	}
	return noWrap
}

// renderLocked redraws the prompt and line in place. The cursor is assumed
// to sit on row e.cursorRow of the previous render. Callers hold e.mu.
func (e *Editor) renderLocked() {
	if !e.out.IsTerminal() {
		return
	}
	cols := e.columns()
	prompt := e.promptLocked()
	full := prompt + e.buf.String()

	var b strings.Builder
	b.WriteByte('\r')
	if e.cursorRow > 0 {
		csi(&b, e.cursorRow, 'A')
	}
	b.WriteString("\x1b[0J")
	b.WriteString(full)

	endRow, endCol := width.CursorPosition(full, cols)
	if endCol == 0 {
		// Leave the terminal's pending-wrap state so the cursor really is
		// on the next row.
		b.WriteByte(' ')
	}
	row, col := width.CursorPosition(prompt+e.buf.beforeCursor(), cols)
	csi(&b, col+1, 'G')
	if diff := endRow - row; diff > 0 {
		csi(&b, diff, 'A')
	}
	e.cursorRow = row

	_, _ = e.out.Write([]byte(b.String()))
}

// finishLocked moves below the rendered line and starts a fresh one, as on
// Enter. Callers hold e.mu.
func (e *Editor) finishLocked() {
	if !e.out.IsTerminal() {
		e.cursorRow = 0
		return
	}
	full := e.promptLocked() + e.buf.String()
	endRow, _ := width.CursorPosition(full, e.columns())

	var b strings.Builder
	if diff := endRow - e.cursorRow; diff > 0 {
		csi(&b, diff, 'B')
	}
	b.WriteString("\r\n")
	e.cursorRow = 0
	_, _ = e.out.Write([]byte(b.String()))
}
