// ABOUTME: Entry point for the ternimal demo: an interactive prompt with async log output
// ABOUTME: termfix is imported first so lipgloss never queries the terminal background

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/Arnesfield/ternimal/internal/termfix"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	code := Execute(ctx)
	stop()
	os.Exit(code)
}
