// ABOUTME: Context-bound io.Reader over a tty.Reader
// ABOUTME: Reads fail with the context error once it is done, leaving input for other readers

package tty

import (
	"context"
	"io"
)

type boundReader struct {
	ctx context.Context
	r   Reader
}

// BindContext returns an io.Reader whose reads use ctx. Once ctx is done
// every read fails with ctx.Err() and leaves pending bytes for other
// readers of r.
func BindContext(ctx context.Context, r Reader) io.Reader {
	return &boundReader{ctx: ctx, r: r}
}

func (b *boundReader) Read(p []byte) (int, error) {
	return b.r.ReadContext(b.ctx, p)
}
