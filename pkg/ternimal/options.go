// ABOUTME: Initializer, setup and functional options for Terminal construction
// ABOUTME: InitFunc yields the interface and raw channels for each (re)initialization

package ternimal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Arnesfield/ternimal/pkg/ternimal/output"
	"github.com/Arnesfield/ternimal/pkg/ternimal/tty"
)

// Context describes why an InitFunc or SetupFunc is being called.
type Context struct {
	// Reinit is true when called from Terminal.Reinit.
	Reinit bool
}

// Options are the session resources returned by an InitFunc.
type Options struct {
	Interface Interface
	Stdin     tty.Input
	Stdout    tty.Output
	// Stderr is optional; the stderr channel writes to Stdout when nil.
	Stderr tty.Output
}

func (o Options) validate() error {
	switch {
	case o.Interface == nil:
		return fmt.Errorf("%w: missing interface", ErrInvalidOptions)
	case o.Stdin == nil:
		return fmt.Errorf("%w: missing stdin", ErrInvalidOptions)
	case o.Stdout == nil:
		return fmt.Errorf("%w: missing stdout", ErrInvalidOptions)
	}
	return nil
}

// InitFunc creates the session resources. prev is nil on the first call
// and the Terminal being reinitialized afterwards.
type InitFunc func(prev *Terminal, c Context) (Options, error)

// CleanupFunc undoes a setup.
type CleanupFunc func(ctx context.Context) error

// SetupFunc configures a session, typically by registering listeners on
// the Interface. It runs once on Use and again after every Reinit. A
// non-nil CleanupFunc is queued for the next Cleanup.
type SetupFunc func(ctx context.Context, t *Terminal, c Context) (CleanupFunc, error)

// Option configures a Terminal.
type Option func(*config)

type config struct {
	observer output.Observer
	level    slog.Leveler
}

// WithObserver reports multiplexer write events to o.
func WithObserver(o output.Observer) Option {
	return func(c *config) { c.observer = o }
}

// WithLogLevel sets the minimum level of Terminal.Logger. The global
// level from internal/log is used otherwise.
func WithLogLevel(l slog.Leveler) Option {
	return func(c *config) { c.level = l }
}
