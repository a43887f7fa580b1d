// ABOUTME: Row counting for text wrapped at a terminal column boundary
// ABOUTME: Rows for injected content, CursorRows/CursorPosition for the live prompt line

package width

import "strings"

// Rows returns how many terminal rows s occupies when written on a
// terminal that is columns wide. Every newline-separated segment takes at
// least one row, so Rows("", c) is 1. A non-positive column count yields 0.
func Rows(s string, columns int) int {
	return rows(s, columns, 0)
}

// CursorRows is Rows with one extra column added to the last segment. The
// cursor sits after the final glyph, so a prompt line that exactly fills
// the last column pushes the cursor onto a new row.
func CursorRows(s string, columns int) int {
	return rows(s, columns, 1)
}

func rows(s string, columns, lastExtra int) int {
	if columns <= 0 {
		return 0
	}
	segments := strings.Split(s, "\n")
	total := 0
	for i, seg := range segments {
		w := VisibleWidth(seg)
		if i == len(segments)-1 {
			w += lastExtra
		}
		total += ceilDiv(max(w, 1), columns)
	}
	return total
}

// CursorPosition returns the zero-based row and column the cursor lands on
// after writing s from column zero. Rows are counted from the row where
// writing started.
func CursorPosition(s string, columns int) (row, col int) {
	if columns <= 0 {
		return 0, 0
	}
	segments := strings.Split(s, "\n")
	for i, seg := range segments {
		w := VisibleWidth(seg)
		if i < len(segments)-1 {
			row += max(ceilDiv(w, columns), 1)
			continue
		}
		row += w / columns
		col = w % columns
	}
	return row, col
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
