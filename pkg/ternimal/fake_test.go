// ABOUTME: Fake line editors used by the terminal controller tests
// ABOUTME: One exposes a native RefreshLine, the other relies on the resize fallback

package ternimal

import (
	"sync"

	"github.com/Arnesfield/ternimal/internal/eventbus"
	"github.com/Arnesfield/ternimal/pkg/ternimal/tty"
)

type fakeEditor struct {
	mu       sync.Mutex
	in       *tty.VirtualInput
	out      *tty.VirtualOutput
	prompt   string
	line     string
	terminal bool
	shown    int
	closed   bool
	closeErr error
	lines    *eventbus.Bus[string]
}

func newFakeEditor(in *tty.VirtualInput, out *tty.VirtualOutput) *fakeEditor {
	return &fakeEditor{in: in, out: out, terminal: true, lines: eventbus.New[string]()}
}

func (e *fakeEditor) Pause()  { e.in.Pause() }
func (e *fakeEditor) Resume() { e.in.Resume() }

func (e *fakeEditor) SetPrompt(p string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prompt = p
}

func (e *fakeEditor) Prompt() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prompt
}

func (e *fakeEditor) Line() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.line
}

func (e *fakeEditor) SetLine(l string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.line = l
}

func (e *fakeEditor) IsTerminal() bool { return e.terminal }

func (e *fakeEditor) ShowPrompt(bool) {
	e.mu.Lock()
	e.shown++
	text := e.prompt + e.line
	e.mu.Unlock()
	_, _ = e.out.Write([]byte(text))
}

func (e *fakeEditor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return e.closeErr
}

func (e *fakeEditor) OnLine(fn func(string)) func() {
	return e.lines.Subscribe(fn)
}

// submit simulates the user pressing Enter.
func (e *fakeEditor) submit(line string) {
	e.lines.Publish(line)
}

func (e *fakeEditor) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// refreshingEditor adds a native redraw.
type refreshingEditor struct {
	*fakeEditor
	refreshMu sync.Mutex
	refreshes int
}

func (e *refreshingEditor) RefreshLine() {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()
	e.refreshes++
}

func (e *refreshingEditor) refreshCount() int {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()
	return e.refreshes
}

// session bundles the resources handed out by a test InitFunc.
type session struct {
	in     *tty.VirtualInput
	out    *tty.VirtualOutput
	errOut *tty.VirtualOutput
	editor Interface
}

func (s session) options() Options {
	o := Options{Interface: s.editor, Stdin: s.in, Stdout: s.out}
	if s.errOut != nil {
		o.Stderr = s.errOut
	}
	return o
}

func newSession(columns int, native bool) session {
	in := tty.NewVirtualInput()
	out := tty.NewVirtualOutput(columns)
	fe := newFakeEditor(in, out)
	var editor Interface = fe
	if native {
		editor = &refreshingEditor{fakeEditor: fe}
	}
	return session{in: in, out: out, editor: editor}
}

func fake(i Interface) *fakeEditor {
	switch e := i.(type) {
	case *fakeEditor:
		return e
	case *refreshingEditor:
		return e.fakeEditor
	}
	return nil
}
