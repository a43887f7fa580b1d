// ABOUTME: Terminal session controller: owns the interface, raw channels and output multiplexer
// ABOUTME: Tracks whether a prompt is on screen and redraws it after multiplexed writes

package ternimal

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Arnesfield/ternimal/internal/log"
	"github.com/Arnesfield/ternimal/pkg/ternimal/output"
	"github.com/Arnesfield/ternimal/pkg/ternimal/tty"
)

// Raw holds the channels returned by the last InitFunc call.
type Raw struct {
	Stdin  tty.Input
	Stdout tty.Output
	Stderr tty.Output
}

// Terminal is one interactive session. All methods are safe for
// concurrent use.
type Terminal struct {
	mu         sync.RWMutex
	init       InitFunc
	iface      Interface
	raw        Raw
	removeLine func()
	closed     bool

	// active is read on every multiplexed write, so it is kept outside mu.
	active atomic.Bool

	mux    *output.Mux
	logger *slog.Logger

	setupMu  sync.Mutex
	setups   []SetupFunc
	cleanups []CleanupFunc
}

// New calls init once with a nil previous session and builds a Terminal
// around the returned resources.
func New(init InitFunc, opts ...Option) (*Terminal, error) {
	if init == nil {
		return nil, fmt.Errorf("%w: missing init function", ErrInvalidOptions)
	}
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	o, err := init(nil, Context{})
	if err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	t := &Terminal{
		init:  init,
		iface: o.Interface,
		raw:   Raw{Stdin: o.Stdin, Stdout: o.Stdout, Stderr: o.Stderr},
	}
	t.mux, err = output.New(output.Config{
		Line:     o.Interface,
		Stdout:   o.Stdout,
		Stderr:   o.Stderr,
		Active:   t.active.Load,
		Redraw:   t.redraw,
		Observer: cfg.observer,
	})
	if err != nil {
		return nil, fmt.Errorf("creating output multiplexer: %w", err)
	}
	t.attach(o.Interface)
	t.logger = log.New(t.mux.Stdout(), t.mux.Stderr(), cfg.level)
	return t, nil
}

// attach hooks the controller into a new editor. Its line listener is
// registered before any setup runs, so it sees every line first.
func (t *Terminal) attach(iface Interface) {
	t.removeLine = iface.OnLine(t.onLine)
	if s, ok := iface.(Serialized); ok {
		s.SetExclusive(t.mux.Exclusive)
	}
}

// Exclusive runs fn while no multiplexed write can be emitted. fn must
// not write to Stdout or Stderr.
func (t *Terminal) Exclusive(fn func()) {
	t.mux.Exclusive(fn)
}

// Interface returns the current line editor.
func (t *Terminal) Interface() Interface {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.iface
}

// Raw returns the current raw channels.
func (t *Terminal) Raw() Raw {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.raw
}

// Stdout returns the multiplexed stdout channel. It stays valid across
// Reinit.
func (t *Terminal) Stdout() *output.Channel { return t.mux.Stdout() }

// Stderr returns the multiplexed stderr channel. It stays valid across
// Reinit.
func (t *Terminal) Stderr() *output.Channel { return t.mux.Stderr() }

// Logger returns a logger writing Debug and Info records to Stdout and
// Warn and Error records to Stderr.
func (t *Terminal) Logger() *slog.Logger { return t.logger }

// onLine marks the prompt inactive once a line has been submitted.
func (t *Terminal) onLine(string) {
	t.active.Store(false)
}

// Active reports whether a prompt is on screen.
func (t *Terminal) Active() bool {
	return t.active.Load()
}

// SetActive overrides the prompt state, for callers that draw or hide the
// prompt without going through Prompt.
func (t *Terminal) SetActive(active bool) {
	t.active.Store(active)
}

// Prompt draws the prompt and marks it active.
func (t *Terminal) Prompt(preserveCursor bool) {
	iface := t.Interface()
	t.mux.Exclusive(func() {
		iface.ShowPrompt(preserveCursor)
		t.active.Store(true)
	})
}

// SetPrompt changes the prompt text and redraws it.
func (t *Terminal) SetPrompt(prompt string) {
	t.Interface().SetPrompt(prompt)
	t.RefreshLine()
}

// SetLine replaces the current input line, redrawing when refresh is set.
func (t *Terminal) SetLine(line string, refresh bool) {
	t.Interface().SetLine(line)
	if refresh {
		t.RefreshLine()
	}
}

// RefreshLine redraws the prompt and current line. It does nothing while
// the prompt is inactive.
func (t *Terminal) RefreshLine() {
	if !t.active.Load() {
		return
	}
	t.mux.Redraw()
}

// redraw is the multiplexer's redraw hook. Editors without a native
// redraw are made to refresh through a tagged resize event.
func (t *Terminal) redraw(line output.LineState, stdout tty.Output) {
	if !t.active.Load() || line == nil || !line.IsTerminal() {
		return
	}
	if r, ok := line.(LineRefresher); ok {
		r.RefreshLine()
		return
	}
	stdout.EmitResize(tty.ResizeEvent{Columns: stdout.Columns(), Reason: tty.ReasonRefreshLine})
}
