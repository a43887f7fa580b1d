// ABOUTME: Unix-specific SIGWINCH handling for FileOutput resize events
// ABOUTME: Spawns a goroutine that listens for SIGWINCH and publishes the new column count

//go:build unix

package tty

import (
	"os"
	"os/signal"
	"syscall"
)

// startResizeListener publishes a ResizeEvent for every SIGWINCH.
func (o *FileOutput) startResizeListener() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)

	go func() {
		for range sigCh {
			o.EmitResize(ResizeEvent{Columns: o.Columns()})
		}
	}()
}
