// ABOUTME: keyReader pulls raw bytes from a tty.Reader and splits them into keystrokes
// ABOUTME: Handles partial escape sequences with a short ESC timeout and bracketed paste blocks

package readline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"
	"unicode/utf8"

	"github.com/Arnesfield/ternimal/pkg/ternimal/key"
	"github.com/Arnesfield/ternimal/pkg/ternimal/tty"
)

const (
	readBufSize  = 256
	escTimeout   = 50 * time.Millisecond
	maxCSILen    = 16
	bracketStart = "\x1b[200~"
	bracketEnd   = "\x1b[201~"
)

// input is one keystroke or one bracketed paste.
type input struct {
	key   key.Key
	paste string
}

type keyReader struct {
	in  tty.Reader
	buf []byte
	tmp []byte
}

func newKeyReader(in tty.Reader) *keyReader {
	return &keyReader{in: in, tmp: make([]byte, readBufSize)}
}

// next blocks until a complete keystroke is available. An incomplete
// escape sequence is resolved after escTimeout without further input.
func (r *keyReader) next(ctx context.Context) (input, error) {
	for {
		ev, n, wait := r.parse()
		if n > 0 {
			r.buf = r.buf[n:]
			return ev, nil
		}

		readCtx := ctx
		cancel := func() {}
		if wait {
			readCtx, cancel = context.WithTimeout(ctx, escTimeout)
		}
		n, err := r.in.ReadContext(readCtx, r.tmp)
		cancel()

		if n > 0 {
			r.buf = append(r.buf, r.tmp[:n]...)
			continue
		}
		if err == nil {
			continue
		}
		if wait && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return r.flushPartial(), nil
		}
		if errors.Is(err, io.EOF) && len(r.buf) > 0 {
			return r.flushPartial(), nil
		}
		return input{}, err
	}
}

// flushPartial consumes the first byte of an incomplete sequence.
func (r *keyReader) flushPartial() input {
	b := r.buf[0]
	r.buf = r.buf[1:]
	if b == 0x1b {
		return input{key: key.Key{Type: key.Escape}}
	}
	return input{key: key.Key{Type: key.Unknown}}
}

// parse tries to split one input from the buffer. It returns the number
// of bytes consumed (0 when more are needed) and whether the missing
// bytes should only be waited for briefly.
func (r *keyReader) parse() (input, int, bool) {
	buf := r.buf
	if len(buf) == 0 {
		return input{}, 0, false
	}

	if bytes.HasPrefix(buf, []byte(bracketStart)) {
		end := bytes.Index(buf[len(bracketStart):], []byte(bracketEnd))
		if end < 0 {
			return input{}, 0, false
		}
		paste := string(buf[len(bracketStart) : len(bracketStart)+end])
		return input{paste: paste}, len(bracketStart) + end + len(bracketEnd), false
	}

	if buf[0] == 0x1b {
		return parseEscape(buf)
	}

	if !utf8.FullRune(buf) {
		return input{}, 0, true
	}
	rn, size := utf8.DecodeRune(buf)
	if rn == utf8.RuneError {
		return input{key: key.Key{Type: key.Unknown}}, 1, false
	}
	return input{key: key.Parse(string(buf[:size]))}, size, false
}

func parseEscape(buf []byte) (input, int, bool) {
	if len(buf) == 1 {
		return input{}, 0, true
	}

	switch buf[1] {
	case '[':
		for i := 2; i < len(buf); i++ {
			if buf[i] >= 0x40 && buf[i] <= 0x7e {
				return input{key: key.Parse(string(buf[:i+1]))}, i + 1, false
			}
		}
		if len(buf) < maxCSILen {
			return input{}, 0, true
		}
	case 'O':
		if len(buf) < 3 {
			return input{}, 0, true
		}
		return input{key: key.Parse(string(buf[:3]))}, 3, false
	default:
		if buf[1] < utf8.RuneSelf {
			return input{key: key.Parse(string(buf[:2]))}, 2, false
		}
	}
	return input{key: key.Key{Type: key.Escape}}, 1, false
}
