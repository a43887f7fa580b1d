// ABOUTME: Tests for Terminal construction, prompt state and stream control
// ABOUTME: Drives fake editors over virtual channels and inspects the raw output

package ternimal

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arnesfield/ternimal/pkg/ternimal/output"
	"github.com/Arnesfield/ternimal/pkg/ternimal/tty"
)

func newTerminal(t *testing.T, s session, opts ...Option) *Terminal {
	t.Helper()
	term, err := New(func(*Terminal, Context) (Options, error) {
		return s.options(), nil
	}, opts...)
	require.NoError(t, err)
	return term
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	s := newSession(80, false)
	tests := []struct {
		name string
		opts Options
		msg  string
	}{
		{"missing interface", Options{Stdin: s.in, Stdout: s.out}, "missing interface"},
		{"missing stdin", Options{Interface: s.editor, Stdout: s.out}, "missing stdin"},
		{"missing stdout", Options{Interface: s.editor, Stdin: s.in}, "missing stdout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(func(*Terminal, Context) (Options, error) { return tt.opts, nil })
			require.ErrorIs(t, err, ErrInvalidOptions)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestNew_InitReceivesNoPreviousSession(t *testing.T) {
	t.Parallel()

	s := newSession(80, false)
	boom := errors.New("no tty")
	var gotPrev *Terminal
	var gotCtx Context
	_, err := New(func(prev *Terminal, c Context) (Options, error) {
		gotPrev, gotCtx = prev, c
		return Options{}, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, gotPrev)
	assert.False(t, gotCtx.Reinit)

	term := newTerminal(t, s)
	assert.Same(t, s.editor, term.Interface())
	assert.Same(t, s.out, term.Raw().Stdout)
	assert.Nil(t, term.Raw().Stderr)
}

func TestPromptState(t *testing.T) {
	t.Parallel()

	s := newSession(80, true)
	term := newTerminal(t, s)
	ed := s.editor.(*refreshingEditor)

	assert.False(t, term.Active(), "inactive until a prompt is shown")

	term.Prompt(false)
	assert.True(t, term.Active())
	assert.Equal(t, 1, ed.shown)

	ed.submit("ls")
	assert.False(t, term.Active(), "a submitted line deactivates the prompt")

	term.SetActive(true)
	assert.True(t, term.Active())
	term.SetActive(false)
	assert.False(t, term.Active())
}

func TestRefreshLine_NoopWhileInactive(t *testing.T) {
	t.Parallel()

	s := newSession(80, true)
	term := newTerminal(t, s)
	ed := s.editor.(*refreshingEditor)
	resizes := 0
	s.out.OnResize(func(tty.ResizeEvent) { resizes++ })

	term.RefreshLine()
	term.SetPrompt("$ ")
	term.SetLine("draft", true)

	assert.Equal(t, 0, ed.refreshCount())
	assert.Equal(t, 0, resizes)
	assert.Empty(t, s.out.Output())
	assert.Equal(t, "$ ", ed.Prompt())
	assert.Equal(t, "draft", ed.Line())
}

func TestRefreshLine_Native(t *testing.T) {
	t.Parallel()

	s := newSession(80, true)
	term := newTerminal(t, s)
	ed := s.editor.(*refreshingEditor)
	resizes := 0
	s.out.OnResize(func(tty.ResizeEvent) { resizes++ })

	term.Prompt(false)
	term.RefreshLine()
	term.SetPrompt("# ")
	term.SetLine("x", false)

	assert.Equal(t, 2, ed.refreshCount())
	assert.Equal(t, 0, resizes)
}

func TestRefreshLine_ResizeFallback(t *testing.T) {
	t.Parallel()

	s := newSession(80, false)
	term := newTerminal(t, s)
	var events []tty.ResizeEvent
	s.out.OnResize(func(ev tty.ResizeEvent) { events = append(events, ev) })

	term.Prompt(false)
	term.RefreshLine()

	require.Len(t, events, 1)
	assert.Equal(t, tty.ReasonRefreshLine, events[0].Reason)
	assert.True(t, events[0].Synthetic())
	assert.Equal(t, 80, events[0].Columns)
}

func TestRefreshLine_NonTerminalEditor(t *testing.T) {
	t.Parallel()

	s := newSession(80, false)
	fake(s.editor).terminal = false
	term := newTerminal(t, s)
	resizes := 0
	s.out.OnResize(func(tty.ResizeEvent) { resizes++ })

	term.Prompt(false)
	term.RefreshLine()
	assert.Equal(t, 0, resizes)
}

func TestLoggerAboveNarrowPrompt(t *testing.T) {
	t.Parallel()

	s := newSession(20, true)
	s.out.SetProfile(termenv.Ascii)
	term := newTerminal(t, s, WithLogLevel(slog.LevelDebug))
	ed := s.editor.(*refreshingEditor)

	term.SetPrompt("> ")
	term.Prompt(false)
	s.out.Reset()

	msg := strings.Repeat("a", 25)
	term.Logger().Info(msg)

	writes := s.out.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, "\n\r\x1b[1A\x1b[0J[INFO] "+msg+"\n", writes[0])
	assert.Equal(t, 1, ed.refreshCount(), "redraw requested after the write")
}

func TestLoggerRoutesWarningsToStderr(t *testing.T) {
	t.Parallel()

	s := newSession(80, false)
	s.errOut = tty.NewVirtualOutput(80)
	s.errOut.SetProfile(termenv.Ascii)
	s.out.SetProfile(termenv.Ascii)
	term := newTerminal(t, s)

	term.Logger().Info("fine")
	term.Logger().Warn("careful", "error", "disk")

	assert.Equal(t, "[INFO] fine\n", s.out.Output())
	assert.Equal(t, "[WARN] careful err=disk\n", s.errOut.Output())
	assert.Equal(t, output.Own, term.Stderr().Target().Kind)
}

func TestStderrAliasesStdout(t *testing.T) {
	t.Parallel()

	s := newSession(80, false)
	term := newTerminal(t, s)
	_, err := term.Stderr().Write([]byte("oops\n"))
	require.NoError(t, err)

	assert.Equal(t, "oops\n", s.out.Output())
	assert.Equal(t, output.Alias, term.Stderr().Target().Kind)
}

func TestPauseResumeStatus(t *testing.T) {
	t.Parallel()

	s := newSession(80, false)
	term := newTerminal(t, s)

	assert.Equal(t, Status{Stdin: output.Resumed, Stdout: output.Resumed, Stderr: output.Resumed}, term.Status())

	term.Pause()
	assert.Equal(t, Status{Stdin: output.Paused, Stdout: output.Paused, Stderr: output.Paused}, term.Status())

	_, _ = term.Stdout().Write([]byte("A"))
	_, _ = term.Stderr().Write([]byte("B"))
	_, _ = term.Stdout().Write([]byte("C"))
	assert.Empty(t, s.out.Output())

	term.Resume(ResumeOptions{Stdout: true})
	assert.Equal(t, "AC", s.out.Output())
	assert.Equal(t, Status{Stdin: output.Paused, Stdout: output.Resumed, Stderr: output.Paused}, term.Status())

	term.Resume()
	assert.Equal(t, "ACB", s.out.Output())
	assert.Equal(t, Status{Stdin: output.Resumed, Stdout: output.Resumed, Stderr: output.Resumed}, term.Status())
}

func TestPauseOutputOnly(t *testing.T) {
	t.Parallel()

	s := newSession(80, false)
	term := newTerminal(t, s)

	term.Pause(PauseOptions{Stdout: true, Stderr: true, Mute: true})
	assert.Equal(t, Status{Stdin: output.Resumed, Stdout: output.Muted, Stderr: output.Muted}, term.Status())

	done := false
	term.Stdout().WriteAsync([]byte("X"), func(err error) {
		assert.NoError(t, err)
		done = true
	})
	assert.True(t, done)

	term.Pause(PauseOptions{Stdout: true})
	assert.Equal(t, output.Muted, term.Status().Stdout, "pause does not downgrade a muted channel")
	term.Pause(PauseOptions{Stdout: true, Override: true})
	assert.Equal(t, output.Paused, term.Status().Stdout)

	term.Resume(ResumeOptions{Stdout: true, Stderr: true})
	assert.Empty(t, s.out.Output())
}

func TestWithObserver(t *testing.T) {
	t.Parallel()

	s := newSession(80, false)
	var mu sync.Mutex
	var kinds []output.EventKind
	term := newTerminal(t, s, WithObserver(output.ObserverFunc(func(e output.Event) {
		mu.Lock()
		kinds = append(kinds, e.Kind)
		mu.Unlock()
	})))

	_, _ = term.Stdout().Write([]byte("x"))
	term.Pause()
	_, _ = term.Stdout().Write([]byte("y"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []output.EventKind{output.Written, output.Buffered}, kinds)
}

func TestConcurrentLoggingWhilePrompting(t *testing.T) {
	t.Parallel()

	s := newSession(40, true)
	term := newTerminal(t, s)
	term.SetPrompt("> ")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			term.Logger().Info("tick")
		}()
		go func() {
			defer wg.Done()
			term.Prompt(true)
			term.RefreshLine()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, strings.Count(s.out.Output(), "tick"))
}
