// ABOUTME: VirtualOutput and VirtualInput implement the raw channels for tests without a real TTY
// ABOUTME: Output captures writes and can inject failures; Input is fed keystrokes through a pipe

package tty

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/muesli/termenv"

	"github.com/Arnesfield/ternimal/internal/eventbus"
)

// ErrClosedSink is returned by VirtualOutput writes after Close.
var ErrClosedSink = errors.New("write after close")

// VirtualOutput is a fake Output for unit tests.
type VirtualOutput struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	writes   []string
	columns  int
	terminal bool
	profile  termenv.Profile
	writeErr error
	closed   bool
	resize   *eventbus.Bus[ResizeEvent]
}

// NewVirtualOutput returns a terminal-like VirtualOutput with the given
// width and a 256 color profile. A zero width behaves like a pipe.
func NewVirtualOutput(columns int) *VirtualOutput {
	v := &VirtualOutput{
		columns:  columns,
		terminal: columns > 0,
		profile:  termenv.ANSI256,
		resize:   eventbus.New[ResizeEvent](),
	}
	if !v.terminal {
		v.profile = termenv.Ascii
	}
	return v
}

// Write appends p to the buffer, or fails when closed or an error was injected.
func (v *VirtualOutput) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return 0, ErrClosedSink
	}
	if v.writeErr != nil {
		return 0, v.writeErr
	}
	v.writes = append(v.writes, string(p))
	return v.buf.Write(p)
}

// Columns returns the configured width.
func (v *VirtualOutput) Columns() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.columns
}

// IsTerminal reports whether the output pretends to be a terminal.
func (v *VirtualOutput) IsTerminal() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.terminal
}

// Profile returns the configured color profile.
func (v *VirtualOutput) Profile() termenv.Profile {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.profile
}

// OnResize registers a resize listener.
func (v *VirtualOutput) OnResize(fn func(ResizeEvent)) func() {
	return v.resize.Subscribe(fn)
}

// EmitResize publishes ev to every resize listener.
func (v *VirtualOutput) EmitResize(ev ResizeEvent) {
	v.resize.Publish(ev)
}

// --- Test helpers (not part of Output) ---

// Output returns everything written so far.
func (v *VirtualOutput) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buf.String()
}

// Writes returns each Write call's payload in order.
func (v *VirtualOutput) Writes() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.writes...)
}

// Reset clears the captured output.
func (v *VirtualOutput) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.buf.Reset()
	v.writes = nil
}

// SetColumns changes the width and publishes a resize event.
func (v *VirtualOutput) SetColumns(columns int) {
	v.mu.Lock()
	v.columns = columns
	v.mu.Unlock()
	v.resize.Publish(ResizeEvent{Columns: columns})
}

// SetProfile changes the color profile.
func (v *VirtualOutput) SetProfile(p termenv.Profile) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.profile = p
}

// SetTerminal changes whether the output reports being a terminal.
func (v *VirtualOutput) SetTerminal(terminal bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.terminal = terminal
}

// SetWriteError makes every following Write fail with err (nil clears it).
func (v *VirtualOutput) SetWriteError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.writeErr = err
}

// Close makes every following Write fail with ErrClosedSink.
func (v *VirtualOutput) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return nil
}

// ResizeListeners returns the number of registered resize listeners.
func (v *VirtualOutput) ResizeListeners() int {
	return v.resize.Count()
}

// VirtualInput is a fake Reader fed through Feed. It also records raw
// mode transitions like a real Stdin would.
type VirtualInput struct {
	*pausable

	w *io.PipeWriter

	mu         sync.Mutex
	rawMode    bool
	enterCount int
	exitCount  int
}

// NewVirtualInput returns an empty, resumed VirtualInput.
func NewVirtualInput() *VirtualInput {
	r, w := io.Pipe()
	return &VirtualInput{
		pausable: newPausable(r),
		w:        w,
	}
}

// Feed delivers s to readers. It blocks until a reader consumes it.
func (v *VirtualInput) Feed(s string) error {
	_, err := v.w.Write([]byte(s))
	return err
}

// Close ends the input; readers then get io.EOF.
func (v *VirtualInput) Close() error {
	return v.w.Close()
}

// EnterRawMode records a raw-mode entry.
func (v *VirtualInput) EnterRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rawMode = true
	v.enterCount++
	return nil
}

// ExitRawMode records a raw-mode exit.
func (v *VirtualInput) ExitRawMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rawMode = false
	v.exitCount++
	return nil
}

// IsRawMode reports whether raw mode is active.
func (v *VirtualInput) IsRawMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rawMode
}

// EnterCount returns how many times EnterRawMode was called.
func (v *VirtualInput) EnterCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enterCount
}

// ExitCount returns how many times ExitRawMode was called.
func (v *VirtualInput) ExitCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.exitCount
}
