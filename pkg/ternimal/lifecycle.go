// ABOUTME: Setup registry and session lifecycle: Use, Reinit and Cleanup
// ABOUTME: Setups replay in registration order after Reinit; cleanups run once each

package ternimal

import (
	"context"
	"fmt"
)

// Use registers setup and runs it once with Context.Reinit false. The
// registration is kept even when setup fails, so it runs again on the
// next Reinit.
func (t *Terminal) Use(ctx context.Context, setup SetupFunc) error {
	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	t.setupMu.Lock()
	t.setups = append(t.setups, setup)
	index := len(t.setups) - 1
	t.setupMu.Unlock()

	return t.runSetup(ctx, index, setup, Context{})
}

// Reinit swaps the session for the resources returned by init, or by the
// current InitFunc when init is nil. The output channels are rebound to
// the new raw channels without emitting anything mid-swap, the prompt is
// marked inactive, and every registered setup runs again in order with
// Context.Reinit true. Cleanups queued before the call are left as is.
//
// A replaced interface is closed, so it stops reading input and reacting
// to resizes; its close listeners still fire if it was open. An error from
// that Close is returned after the setups have run.
func (t *Terminal) Reinit(ctx context.Context, init InitFunc) error {
	t.mu.Lock()
	if init != nil {
		t.init = init
	}
	fn := t.init
	t.mu.Unlock()

	o, err := fn(t, Context{Reinit: true})
	if err != nil {
		return fmt.Errorf("reinitializing terminal: %w", err)
	}
	if err := o.validate(); err != nil {
		return err
	}

	t.mu.Lock()
	if err := t.mux.Rebind(o.Interface, o.Stdout, o.Stderr); err != nil {
		t.mu.Unlock()
		return fmt.Errorf("rebinding output: %w", err)
	}
	t.removeLine()
	old := t.iface
	t.iface = o.Interface
	t.raw = Raw{Stdin: o.Stdin, Stdout: o.Stdout, Stderr: o.Stderr}
	t.attach(o.Interface)
	t.closed = false
	t.active.Store(false)
	t.mu.Unlock()

	var closeErr error
	if old != o.Interface {
		if err := old.Close(); err != nil {
			closeErr = fmt.Errorf("closing previous interface: %w", err)
		}
	}

	t.setupMu.Lock()
	setups := append([]SetupFunc(nil), t.setups...)
	t.setupMu.Unlock()

	for i, setup := range setups {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.runSetup(ctx, i, setup, Context{Reinit: true}); err != nil {
			return err
		}
	}
	return closeErr
}

// Cleanup runs the queued cleanups in registration order. Each one is
// removed before it runs, so it runs at most once. On the first error
// Cleanup returns it, leaving later cleanups queued and the interface
// open. Otherwise the interface is closed when closeInterface is set.
func (t *Terminal) Cleanup(ctx context.Context, closeInterface bool) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.setupMu.Lock()
		if len(t.cleanups) == 0 {
			t.setupMu.Unlock()
			break
		}
		fn := t.cleanups[0]
		t.cleanups = t.cleanups[1:]
		t.setupMu.Unlock()

		if err := fn(ctx); err != nil {
			return fmt.Errorf("running cleanup: %w", err)
		}
	}

	if !closeInterface {
		return nil
	}
	t.mu.Lock()
	iface := t.iface
	t.closed = true
	t.mu.Unlock()

	t.active.Store(false)
	if err := iface.Close(); err != nil {
		return fmt.Errorf("closing interface: %w", err)
	}
	return nil
}

// Cleanups returns the number of queued cleanups.
func (t *Terminal) Cleanups() int {
	t.setupMu.Lock()
	defer t.setupMu.Unlock()
	return len(t.cleanups)
}

func (t *Terminal) runSetup(ctx context.Context, index int, setup SetupFunc, c Context) error {
	cleanup, err := setup(ctx, t, c)
	if err != nil {
		return fmt.Errorf("running setup %d: %w", index, err)
	}
	if cleanup != nil {
		t.setupMu.Lock()
		t.cleanups = append(t.cleanups, cleanup)
		t.setupMu.Unlock()
	}
	return nil
}
