// ABOUTME: Stdin implements Reader over an *os.File with x/term raw mode control
// ABOUTME: Saves and restores the previous terminal state around raw mode

package tty

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// Stdin is a pausable Reader backed by a file such as os.Stdin.
type Stdin struct {
	*pausable

	fd       int
	terminal bool

	rawMu    sync.Mutex
	oldState *term.State
}

// NewStdin wraps f.
func NewStdin(f *os.File) *Stdin {
	fd := int(f.Fd())
	return &Stdin{
		pausable: newPausable(f),
		fd:       fd,
		terminal: term.IsTerminal(fd),
	}
}

// IsTerminal reports whether the file is a terminal.
func (s *Stdin) IsTerminal() bool {
	return s.terminal
}

// EnterRawMode switches the terminal to raw mode, saving the previous
// state. It is a no-op when the input is not a terminal or already raw.
func (s *Stdin) EnterRawMode() error {
	s.rawMu.Lock()
	defer s.rawMu.Unlock()

	if !s.terminal || s.oldState != nil {
		return nil
	}
	state, err := term.MakeRaw(s.fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	s.oldState = state
	return nil
}

// ExitRawMode restores the terminal to its previous state.
func (s *Stdin) ExitRawMode() error {
	s.rawMu.Lock()
	defer s.rawMu.Unlock()

	if s.oldState == nil {
		return nil
	}
	if err := term.Restore(s.fd, s.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	s.oldState = nil
	return nil
}
