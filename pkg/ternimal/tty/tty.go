// ABOUTME: Raw channel contracts: pausable input, readable input, and sized output sinks
// ABOUTME: Implemented by process-backed channels (os.Stdin/os.Stdout) and virtual test doubles

package tty

import (
	"context"
	"io"

	"github.com/muesli/termenv"
)

// ReasonRefreshLine tags resize events emitted to force a prompt redraw,
// distinguishing them from real terminal resizes (which carry no reason).
const ReasonRefreshLine = "refreshLine"

// ResizeEvent is published when an output's dimensions change, or
// synthetically when a redraw is requested without a native capability.
type ResizeEvent struct {
	Columns int
	Reason  string
}

// Synthetic reports whether the event was emitted to force a redraw
// rather than by an actual resize.
func (e ResizeEvent) Synthetic() bool {
	return e.Reason != ""
}

// Input is the raw input channel as seen by the terminal controller.
type Input interface {
	Pause()
	Resume()
	IsPaused() bool
}

// Reader is an Input that line editors read keystrokes from.
// ReadContext blocks while the input is paused and returns ctx.Err()
// once ctx is done without consuming any data.
type Reader interface {
	Input
	io.Reader
	ReadContext(ctx context.Context, p []byte) (int, error)
}

// Output is a raw output channel.
type Output interface {
	io.Writer
	// Columns returns the width in cells, or 0 when the sink is not a
	// terminal or its size is unknown.
	Columns() int
	IsTerminal() bool
	// Profile returns the color profile downstream writers should use.
	Profile() termenv.Profile
	// OnResize registers fn for resize events and returns a function that
	// removes it.
	OnResize(fn func(ResizeEvent)) (remove func())
	EmitResize(ev ResizeEvent)
}

// RawModer switches the controlling terminal in and out of raw mode.
type RawModer interface {
	EnterRawMode() error
	ExitRawMode() error
}
