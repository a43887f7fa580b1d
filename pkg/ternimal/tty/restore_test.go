// ABOUTME: Tests for RecoverGoroutine panic recovery without os.Exit
// ABOUTME: Verifies goroutine panics are caught and raw mode is left

package tty

import "testing"

func TestRecoverGoroutine_CatchesPanic(t *testing.T) {
	t.Parallel()

	in := NewVirtualInput()
	_ = in.EnterRawMode()
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer RecoverGoroutine(in)
		panic("test goroutine panic")
	}()

	<-done
	if in.IsRawMode() {
		t.Error("expected raw mode to be exited on goroutine panic")
	}
	if got := in.ExitCount(); got != 1 {
		t.Errorf("ExitCount() = %d, want 1", got)
	}
}

func TestRecoverGoroutine_NoPanic(t *testing.T) {
	t.Parallel()

	in := NewVirtualInput()
	_ = in.EnterRawMode()
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer RecoverGoroutine(in)
	}()

	<-done
	if !in.IsRawMode() {
		t.Error("raw mode left without a panic")
	}
	if got := in.ExitCount(); got != 0 {
		t.Errorf("ExitCount() = %d, want 0", got)
	}
}
