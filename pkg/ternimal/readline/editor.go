// ABOUTME: Editor is a raw-mode line editor implementing the ternimal Interface contract
// ABOUTME: Reads keystrokes from a tty.Reader, renders to a tty.Output, and emits line/close/interrupt events

package readline

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Arnesfield/ternimal/internal/eventbus"
	"github.com/Arnesfield/ternimal/pkg/ternimal/key"
	"github.com/Arnesfield/ternimal/pkg/ternimal/tty"
)

var (
	// ErrClosed is returned by Run after the editor was closed.
	ErrClosed = errors.New("readline: editor closed")
	// ErrRunning is returned by Run when another Run is in progress.
	ErrRunning = errors.New("readline: already running")
)

// Completer returns candidate replacements for line. A single candidate
// replaces the line; several are listed below the prompt.
type Completer func(line string) []string

// Option configures an Editor.
type Option func(*Editor)

// WithHistory shares h with the editor, typically one taken from the
// editor being replaced.
func WithHistory(h *History) Option {
	return func(e *Editor) {
		if h != nil {
			e.history = h
		}
	}
}

// WithCompleter enables Tab completion.
func WithCompleter(c Completer) Option {
	return func(e *Editor) { e.completer = c }
}

// WithPrompt sets the initial prompt.
func WithPrompt(p string) Option {
	return func(e *Editor) { e.prompt = p }
}

type question struct {
	prompt string
	answer func(string)
}

// Editor edits one line at a time. Its methods are safe for concurrent
// use; listeners run without the editor lock held.
type Editor struct {
	in  tty.Reader
	out tty.Output

	mu           sync.Mutex
	prompt       string
	buf          *buffer
	cursorRow    int
	shown        bool
	history      *History
	completer    Completer
	question     *question
	paused       bool
	closed       bool
	cancelRun    context.CancelFunc
	removeResize func()
	exclusive    func(draw func())

	lines      *eventbus.Bus[string]
	closes     *eventbus.Bus[struct{}]
	interrupts *eventbus.Bus[struct{}]
}

// New creates an Editor reading from in and drawing on out. Call Run to
// start processing keystrokes.
func New(in tty.Reader, out tty.Output, opts ...Option) *Editor {
	e := &Editor{
		in:         in,
		out:        out,
		buf:        newBuffer(),
		history:    NewHistory(),
		lines:      eventbus.New[string](),
		closes:     eventbus.New[struct{}](),
		interrupts: eventbus.New[struct{}](),
		exclusive:  func(draw func()) { draw() },
	}
	for _, opt := range opts {
		opt(e)
	}
	e.removeResize = out.OnResize(e.onResize)
	return e
}

// SetExclusive makes the editor draw keystroke echoes and resize redraws
// through exclusive.
func (e *Editor) SetExclusive(exclusive func(draw func())) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if exclusive == nil {
		exclusive = func(draw func()) { draw() }
	}
	e.exclusive = exclusive
}

func (e *Editor) exclusiveFunc() func(func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exclusive
}

// onResize redraws after a resize. Synthetic events are emitted by a
// caller already holding the exclusive lock.
func (e *Editor) onResize(ev tty.ResizeEvent) {
	if ev.Synthetic() {
		e.RefreshLine()
		return
	}
	e.exclusiveFunc()(e.RefreshLine)
}

// Run processes keystrokes until the editor is closed, the input ends or
// ctx is done. It returns nil when the editor was closed.
func (e *Editor) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.cancelRun != nil {
		e.mu.Unlock()
		return ErrRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	e.cancelRun = cancel
	e.mu.Unlock()

	defer func() {
		cancel()
		e.mu.Lock()
		e.cancelRun = nil
		e.mu.Unlock()
	}()

	kr := newKeyReader(e.in)
	for {
		ev, err := kr.next(ctx)
		if err != nil {
			if e.Closed() {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return e.Close()
			}
			return err
		}
		e.handle(ev)
	}
}

// Pause stops reading input.
func (e *Editor) Pause() {
	e.mu.Lock()
	e.paused = true
	e.mu.Unlock()
	e.in.Pause()
}

// Resume restarts reading input.
func (e *Editor) Resume() {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()
	e.in.Resume()
}

// SetPrompt sets the prompt without redrawing.
func (e *Editor) SetPrompt(p string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prompt = p
}

// Prompt returns the prompt currently displayed, which is the question
// text while a Question is pending.
func (e *Editor) Prompt() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.promptLocked()
}

func (e *Editor) promptLocked() string {
	if e.question != nil {
		return e.question.prompt
	}
	return e.prompt
}

// Line returns the line being edited.
func (e *Editor) Line() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.String()
}

// SetLine replaces the line being edited without redrawing.
func (e *Editor) SetLine(line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.set(line)
}

// Cursor returns the cursor position in runes.
func (e *Editor) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.cursor
}

// CursorRow returns the row of the wrapped prompt the cursor was left on by
// the last render, counted from the prompt's first row.
func (e *Editor) CursorRow() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursorRow
}

// IsTerminal reports whether the output is a terminal.
func (e *Editor) IsTerminal() bool {
	return e.out.IsTerminal()
}

// History returns the editor's history.
func (e *Editor) History() *History {
	return e.history
}

// ShowPrompt draws the prompt and resumes input if it was paused. Unless
// preserveCursor is set the cursor moves to the start of the line.
func (e *Editor) ShowPrompt(preserveCursor bool) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	resume := e.paused
	e.paused = false
	if !preserveCursor {
		e.buf.cursor = 0
	}
	e.shown = true
	if e.out.IsTerminal() {
		e.renderLocked()
	} else {
		_, _ = io.WriteString(e.out, e.promptLocked())
	}
	e.mu.Unlock()

	if resume {
		e.in.Resume()
	}
}

// RefreshLine redraws the prompt and line in place if a prompt is shown.
func (e *Editor) RefreshLine() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.shown {
		return
	}
	e.renderLocked()
}

// Question shows query as a one-off prompt. The next submitted line is
// passed to answer instead of the line listeners and is not added to the
// history.
func (e *Editor) Question(query string, answer func(string)) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.question = &question{prompt: query, answer: answer}
	e.buf.set("")
	e.shown = true
	resume := e.paused
	e.paused = false
	e.renderLocked()
	if !e.out.IsTerminal() {
		_, _ = io.WriteString(e.out, query)
	}
	e.mu.Unlock()

	if resume {
		e.in.Resume()
	}
}

// Close stops Run and notifies close listeners. Closing twice is a no-op.
func (e *Editor) Close() error {
	e.mu.Lock()
	notify := e.closeLocked()
	e.mu.Unlock()
	if notify != nil {
		notify()
	}
	return nil
}

// Closed reports whether Close was called.
func (e *Editor) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Editor) closeLocked() func() {
	if e.closed {
		return nil
	}
	e.closed = true
	e.shown = false
	if e.cancelRun != nil {
		e.cancelRun()
	}
	e.removeResize()
	return func() { e.closes.Publish(struct{}{}) }
}

// OnLine registers fn for submitted lines.
func (e *Editor) OnLine(fn func(line string)) func() {
	return e.lines.Subscribe(fn)
}

// OnClose registers fn to run once the editor closes.
func (e *Editor) OnClose(fn func()) func() {
	return e.closes.Subscribe(func(struct{}) { fn() })
}

// OnInterrupt registers fn for Ctrl+C. Without interrupt listeners Ctrl+C
// closes the editor.
func (e *Editor) OnInterrupt(fn func()) func() {
	return e.interrupts.Subscribe(func(struct{}) { fn() })
}

// handle applies one input to the line. Listeners run after every lock
// is released.
func (e *Editor) handle(ev input) {
	var after func()
	e.exclusiveFunc()(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			return
		}

		changed := false
		if ev.paste != "" {
			e.buf.insert(sanitizePaste(ev.paste))
			changed = true
		} else {
			changed, after = e.handleKeyLocked(ev.key)
		}
		if changed {
			e.renderLocked()
		}
	})

	if after != nil {
		after()
	}
}

func (e *Editor) handleKeyLocked(k key.Key) (bool, func()) {
	b := e.buf
	switch k.Type {
	case key.Rune:
		if k.Alt {
			if k.Rune == 'y' {
				return b.yankPop(), nil
			}
			return false, nil
		}
		b.insert(string(k.Rune))
		return true, nil
	case key.Enter:
		return false, e.submitLocked()
	case key.Backspace:
		return b.backspace(), nil
	case key.Delete:
		return b.delete(), nil
	case key.Left:
		return b.move(-1), nil
	case key.Right:
		return b.move(1), nil
	case key.Home:
		return b.home(), nil
	case key.End:
		return b.end(), nil
	case key.WordLeft:
		return b.wordLeft(), nil
	case key.WordRight:
		return b.wordRight(), nil
	case key.Up:
		if s, ok := e.history.Prev(b.String()); ok {
			b.set(s)
			return true, nil
		}
	case key.Down:
		if s, ok := e.history.Next(); ok {
			b.set(s)
			return true, nil
		}
	case key.CtrlK:
		return b.killToEnd(), nil
	case key.CtrlU:
		return b.killToStart(), nil
	case key.CtrlW:
		return b.killWordBackward(), nil
	case key.CtrlY:
		return b.yank(), nil
	case key.CtrlL:
		if e.out.IsTerminal() {
			_, _ = io.WriteString(e.out, "\x1b[H\x1b[2J")
			e.cursorRow = 0
			return true, nil
		}
	case key.CtrlC:
		if e.interrupts.Count() > 0 {
			return false, func() { e.interrupts.Publish(struct{}{}) }
		}
		return false, e.closeLocked()
	case key.CtrlD:
		if len(b.text) == 0 {
			return false, e.closeLocked()
		}
		return b.delete(), nil
	case key.Tab:
		return e.completeLocked(), nil
	}
	return false, nil
}

// submitLocked ends the current line and returns the listener call.
func (e *Editor) submitLocked() func() {
	line := e.buf.String()
	e.finishLocked()
	e.buf.set("")
	e.shown = false
	e.history.Reset()

	if q := e.question; q != nil {
		e.question = nil
		return func() { q.answer(line) }
	}
	e.history.Add(line)
	return func() { e.lines.Publish(line) }
}

func (e *Editor) completeLocked() bool {
	if e.completer == nil {
		return false
	}
	line := e.buf.String()
	candidates := e.completer(line)
	switch len(candidates) {
	case 0:
		return false
	case 1:
		e.buf.set(candidates[0])
		return true
	}

	if p := commonPrefix(candidates); len(p) > len(line) && strings.HasPrefix(p, line) {
		e.buf.set(p)
		return true
	}
	e.finishLocked()
	_, _ = io.WriteString(e.out, strings.Join(candidates, "  ")+"\r\n")
	return true
}

func commonPrefix(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	p := ss[0]
	for _, s := range ss[1:] {
		for !strings.HasPrefix(s, p) {
			_, size := utf8.DecodeLastRuneInString(p)
			p = p[:len(p)-size]
		}
	}
	return p
}

// sanitizePaste flattens pasted text to a single line.
func sanitizePaste(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
