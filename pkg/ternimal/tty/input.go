// ABOUTME: Pausable input shared by Stdin and VirtualInput
// ABOUTME: One pump goroutine reads the source; readers block while paused without losing bytes

package tty

import (
	"context"
	"io"
	"sync"
)

const readBufSize = 256

// readResult holds the outcome of a single Read call on the source.
type readResult struct {
	data []byte
	err  error
}

// pausable turns a blocking io.Reader into a Reader that can be paused
// and whose reads can be abandoned through a context. Bytes read by the
// pump while nobody is reading stay pending for the next reader.
type pausable struct {
	src      io.Reader
	chunks   chan readResult
	pumpOnce sync.Once

	mu      sync.Mutex
	paused  bool
	wake    chan struct{} // closed by Resume while paused
	pending []byte
	err     error
}

func newPausable(src io.Reader) *pausable {
	return &pausable{
		src:    src,
		chunks: make(chan readResult),
	}
}

// Pause stops delivering bytes to readers until Resume.
func (p *pausable) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		p.paused = true
		p.wake = make(chan struct{})
	}
}

// Resume lets blocked readers continue.
func (p *pausable) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		p.paused = false
		close(p.wake)
	}
}

// IsPaused reports whether the input is paused.
func (p *pausable) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Read implements io.Reader.
func (p *pausable) Read(b []byte) (int, error) {
	return p.ReadContext(context.Background(), b)
}

// ReadContext reads into b, blocking while paused or until data arrives.
func (p *pausable) ReadContext(ctx context.Context, b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	p.pumpOnce.Do(func() { go p.pump() })

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		p.mu.Lock()
		if p.paused {
			wake := p.wake
			p.mu.Unlock()
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-wake:
				continue
			}
		}
		if len(p.pending) > 0 {
			n := copy(b, p.pending)
			p.pending = p.pending[n:]
			p.mu.Unlock()
			return n, nil
		}
		if p.err != nil {
			err := p.err
			p.mu.Unlock()
			return 0, err
		}
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case res := <-p.chunks:
			p.mu.Lock()
			if res.err != nil {
				p.err = res.err
			} else {
				p.pending = append(p.pending, res.data...)
			}
			p.mu.Unlock()
		}
	}
}

// pump copies chunks from the source until it fails.
func (p *pausable) pump() {
	tmp := make([]byte, readBufSize)
	for {
		n, err := p.src.Read(tmp)
		if n > 0 {
			data := make([]byte, n)
			copy(data, tmp[:n])
			p.chunks <- readResult{data: data}
		}
		if err != nil {
			p.chunks <- readResult{err: err}
			return
		}
	}
}
