// ABOUTME: Line-editing interface contract consumed by the terminal controller
// ABOUTME: Optional LineRefresher exposes a native redraw; otherwise a tagged resize event is emitted

package ternimal

// Interface is the line editor a Terminal drives. The bundled
// readline.Editor implements it.
type Interface interface {
	// Pause and Resume stop and restart reading input.
	Pause()
	Resume()

	SetPrompt(prompt string)
	Prompt() string
	Line() string
	SetLine(line string)

	// IsTerminal reports whether the editor renders to an interactive
	// terminal.
	IsTerminal() bool

	// ShowPrompt draws the prompt and the current line. When
	// preserveCursor is false the cursor is moved to the start of the line.
	ShowPrompt(preserveCursor bool)

	Close() error

	// OnLine registers fn for submitted lines, called in registration
	// order, and returns a function that removes it.
	OnLine(fn func(line string)) (remove func())
}

// LineRefresher is implemented by editors that can redraw the prompt and
// current line in place.
type LineRefresher interface {
	RefreshLine()
}

// Serialized is implemented by editors that also draw on their own, for
// example while echoing keystrokes. The Terminal passes them a function
// that runs draw while multiplexed output is held back. draw must not
// write to a Terminal channel.
type Serialized interface {
	SetExclusive(exclusive func(draw func()))
}
