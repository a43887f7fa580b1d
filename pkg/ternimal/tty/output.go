// ABOUTME: FileOutput implements Output over an *os.File using x/term and termenv
// ABOUTME: Column count from term.GetSize, color profile from the environment, SIGWINCH resize events

package tty

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Arnesfield/ternimal/internal/eventbus"
)

// FileOutput is an Output backed by a file descriptor such as os.Stdout.
type FileOutput struct {
	f        *os.File
	terminal bool
	profile  termenv.Profile
	resize   *eventbus.Bus[ResizeEvent]

	listenOnce sync.Once
	crlf       atomic.Bool
}

// NewOutput wraps f. TTY detection and color profile are resolved once.
func NewOutput(f *os.File) *FileOutput {
	o := &FileOutput{
		f:        f,
		terminal: term.IsTerminal(int(f.Fd())),
		resize:   eventbus.New[ResizeEvent](),
	}
	o.profile = termenv.Ascii
	if o.terminal {
		o.profile = termenv.NewOutput(f).EnvColorProfile()
	}
	return o
}

// SetCRLF turns newline translation on or off. Raw mode disables the
// terminal's own output processing, so a bare "\n" no longer returns the
// carriage.
func (o *FileOutput) SetCRLF(on bool) {
	o.crlf.Store(on)
}

// Write sends p to the underlying file.
func (o *FileOutput) Write(p []byte) (int, error) {
	data := p
	if o.crlf.Load() {
		data = bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))
	}
	if _, err := o.f.Write(data); err != nil {
		return 0, fmt.Errorf("writing to %s: %w", o.f.Name(), err)
	}
	return len(p), nil
}

// Columns returns the current terminal width, or 0 when not a terminal.
func (o *FileOutput) Columns() int {
	if !o.terminal {
		return 0
	}
	w, _, err := term.GetSize(int(o.f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// IsTerminal reports whether the file is a terminal.
func (o *FileOutput) IsTerminal() bool {
	return o.terminal
}

// Profile returns the detected color profile; Ascii when not a terminal.
func (o *FileOutput) Profile() termenv.Profile {
	return o.profile
}

// OnResize registers fn and starts listening for window size changes.
func (o *FileOutput) OnResize(fn func(ResizeEvent)) func() {
	remove := o.resize.Subscribe(fn)
	if o.terminal {
		o.listenOnce.Do(o.startResizeListener)
	}
	return remove
}

// EmitResize publishes ev to every resize listener.
func (o *FileOutput) EmitResize(ev ResizeEvent) {
	o.resize.Publish(ev)
}
