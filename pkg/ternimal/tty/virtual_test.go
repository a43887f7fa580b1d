// ABOUTME: Tests for VirtualOutput capture, resize publishing and failure injection
// ABOUTME: Also checks FileOutput against a real pseudo terminal from creack/pty

package tty

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/creack/pty"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualOutput_CapturesWrites(t *testing.T) {
	t.Parallel()

	out := NewVirtualOutput(80)
	_, err := out.Write([]byte("one"))
	require.NoError(t, err)
	_, err = out.Write([]byte("two"))
	require.NoError(t, err)

	assert.Equal(t, "onetwo", out.Output())
	assert.Equal(t, []string{"one", "two"}, out.Writes())

	out.Reset()
	assert.Empty(t, out.Output())
	assert.Empty(t, out.Writes())
}

func TestVirtualOutput_TerminalDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		columns  int
		terminal bool
		profile  termenv.Profile
	}{
		{"terminal", 80, true, termenv.ANSI256},
		{"pipe", 0, false, termenv.Ascii},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := NewVirtualOutput(tt.columns)
			assert.Equal(t, tt.columns, out.Columns())
			assert.Equal(t, tt.terminal, out.IsTerminal())
			assert.Equal(t, tt.profile, out.Profile())
		})
	}
}

func TestVirtualOutput_WriteError(t *testing.T) {
	t.Parallel()

	out := NewVirtualOutput(80)
	boom := errors.New("boom")
	out.SetWriteError(boom)
	_, err := out.Write([]byte("x"))
	assert.ErrorIs(t, err, boom)

	out.SetWriteError(nil)
	_, err = out.Write([]byte("y"))
	require.NoError(t, err)
	assert.Equal(t, "y", out.Output())

	require.NoError(t, out.Close())
	_, err = out.Write([]byte("z"))
	assert.ErrorIs(t, err, ErrClosedSink)
}

func TestVirtualOutput_Resize(t *testing.T) {
	t.Parallel()

	out := NewVirtualOutput(80)
	var got []ResizeEvent
	remove := out.OnResize(func(ev ResizeEvent) { got = append(got, ev) })
	assert.Equal(t, 1, out.ResizeListeners())

	out.SetColumns(40)
	out.EmitResize(ResizeEvent{Reason: ReasonRefreshLine})
	remove()
	out.SetColumns(20)

	require.Len(t, got, 2)
	assert.Equal(t, 40, got[0].Columns)
	assert.False(t, got[0].Synthetic())
	assert.True(t, got[1].Synthetic())
	assert.Equal(t, 20, out.Columns())
	assert.Equal(t, 0, out.ResizeListeners())
}

func TestFileOutput_Pipe(t *testing.T) {
	t.Parallel()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	out := NewOutput(w)
	assert.False(t, out.IsTerminal())
	assert.Equal(t, 0, out.Columns())
	assert.Equal(t, termenv.Ascii, out.Profile())

	_, err = out.Write([]byte("hi"))
	require.NoError(t, err)
	buf := make([]byte, 2)
	_, err = r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(buf))
}

func TestFileOutput_CRLF(t *testing.T) {
	t.Parallel()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	out := NewOutput(w)
	out.SetCRLF(true)
	n, err := out.Write([]byte("a\nb\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, n, "reports the caller's length")

	buf := make([]byte, 6)
	_, err = io.ReadFull(r, buf)
	require.NoError(t, err)
	assert.Equal(t, "a\r\nb\r\n", string(buf))
}

func TestFileOutput_WriteErrorIsWrapped(t *testing.T) {
	t.Parallel()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	r.Close()
	w.Close()

	out := NewOutput(w)
	_, err = out.Write([]byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.Contains(t, err.Error(), "writing to")
}

func TestFileOutput_PseudoTerminal(t *testing.T) {
	t.Parallel()

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pseudo terminal unavailable: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	require.NoError(t, pty.Setsize(ptmx, &pty.Winsize{Rows: 10, Cols: 42}))

	out := NewOutput(tty)
	assert.True(t, out.IsTerminal())
	assert.Equal(t, 42, out.Columns())

	in := NewStdin(tty)
	assert.True(t, in.IsTerminal())
	require.NoError(t, in.EnterRawMode())
	require.NoError(t, in.EnterRawMode())
	require.NoError(t, in.ExitRawMode())
	require.NoError(t, in.ExitRawMode())
}
