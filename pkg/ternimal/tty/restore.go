// ABOUTME: RestoreOnPanic recovers from panics, restores the terminal, and prints the stack trace
// ABOUTME: Intended for use as a deferred call in main and in goroutines that log through the terminal

package tty

import (
	"fmt"
	"os"
	"runtime/debug"
)

// RestoreOnPanic should be deferred at the top of main. On panic it shows
// the cursor, exits raw mode, prints the panic value and stack trace, then
// exits with code 1.
func RestoreOnPanic(r RawModer) {
	v := recover()
	if v == nil {
		return
	}

	_, _ = os.Stdout.Write([]byte("\x1b[?25h"))
	_ = r.ExitRawMode()

	fmt.Fprintf(os.Stderr, "\npanic: %v\n\n%s\n", v, debug.Stack())
	os.Exit(1)
}

// RecoverGoroutine should be deferred at the top of background goroutines
// that run while the terminal is in raw mode. Unlike RestoreOnPanic it
// does not exit, leaving shutdown to the main goroutine.
func RecoverGoroutine(r RawModer) {
	v := recover()
	if v == nil {
		return
	}

	_, _ = os.Stdout.Write([]byte("\x1b[?25h"))
	_ = r.ExitRawMode()

	fmt.Fprintf(os.Stderr, "\ngoroutine panic: %v\n\n%s\n", v, debug.Stack())
}
