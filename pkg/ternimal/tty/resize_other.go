// ABOUTME: Stub resize listener for platforms without SIGWINCH (Windows, wasm)
// ABOUTME: Only synthetic resize events are published there

//go:build !unix

package tty

// startResizeListener is a no-op without SIGWINCH.
func (o *FileOutput) startResizeListener() {}
