// ABOUTME: Multiplexer routing stdout/stderr channel writes onto raw sinks above the prompt line
// ABOUTME: Owns per-channel pause/mute state and the single ordered queue shared by both channels

package output

import (
	"bytes"
	"errors"
	"sync"

	"github.com/muesli/termenv"

	"github.com/Arnesfield/ternimal/pkg/ternimal/tty"
)

// ErrNoSink is returned when the multiplexer is given no stdout sink.
var ErrNoSink = errors.New("output: stdout sink is required")

// Name identifies a multiplexed channel.
type Name string

const (
	Stdout Name = "stdout"
	Stderr Name = "stderr"
)

// Names lists every channel in queue priority order.
var Names = []Name{Stdout, Stderr}

func channelIndex(name Name) (int, bool) {
	switch name {
	case Stdout:
		return 0, true
	case Stderr:
		return 1, true
	}
	return 0, false
}

// Mode is the pause state of a channel.
type Mode int

const (
	Resumed Mode = iota
	Paused
	Muted
)

func (m Mode) String() string {
	switch m {
	case Resumed:
		return "resumed"
	case Paused:
		return "paused"
	case Muted:
		return "muted"
	}
	return "unknown"
}

// StreamOptions configures a channel pause. A channel that is already
// paused or muted keeps its mode unless Override is set.
type StreamOptions struct {
	Mute     bool
	Override bool
}

// TargetKind tells whether a channel writes to its own sink or shares
// the stdout sink.
type TargetKind int

const (
	Own TargetKind = iota
	Alias
)

// Target is the raw sink a channel forwards to.
type Target struct {
	Kind TargetKind
	Sink tty.Output
}

// RedrawFunc asks the line editor to redraw the prompt. It runs with the
// multiplexer locked, so it must not write to a Channel.
type RedrawFunc func(line LineState, stdout tty.Output)

// Config wires a Mux.
type Config struct {
	Line   LineState
	Stdout tty.Output
	// Stderr may be nil, in which case the stderr channel aliases Stdout.
	Stderr tty.Output
	// Active reports whether a prompt is currently on screen.
	Active   func() bool
	Redraw   RedrawFunc
	Observer Observer
}

type record struct {
	ch      int
	payload []byte
	done    func(error)
}

// Mux multiplexes the stdout and stderr channels. Writes on a resumed
// channel are wrapped in relocation fragments and emitted as one raw
// write; writes on a paused channel are queued in submission order across
// both channels; writes on a muted channel are dropped.
type Mux struct {
	mu       sync.Mutex
	line     LineState
	stdout   tty.Output
	stderr   tty.Output
	targets  [2]Target
	profiles [2]termenv.Profile
	modes    [2]Mode
	queue    []record

	active   func() bool
	redraw   RedrawFunc
	observer Observer
	channels [2]*Channel
}

// New creates a multiplexer and pipes both channels to their sinks.
func New(cfg Config) (*Mux, error) {
	if cfg.Stdout == nil {
		return nil, ErrNoSink
	}
	m := &Mux{
		line:     cfg.Line,
		stdout:   cfg.Stdout,
		stderr:   cfg.Stderr,
		active:   cfg.Active,
		redraw:   cfg.Redraw,
		observer: cfg.Observer,
	}
	for i, name := range Names {
		m.channels[i] = &Channel{m: m, name: name, idx: i}
	}
	m.pipe()
	return m, nil
}

// Channel returns the named channel, or nil for an unknown name.
func (m *Mux) Channel(name Name) *Channel {
	i, ok := channelIndex(name)
	if !ok {
		return nil
	}
	return m.channels[i]
}

// Stdout returns the stdout channel.
func (m *Mux) Stdout() *Channel { return m.channels[0] }

// Stderr returns the stderr channel.
func (m *Mux) Stderr() *Channel { return m.channels[1] }

// Pause pauses the named channel, buffering its writes, or mutes it.
func (m *Mux) Pause(name Name, opts StreamOptions) {
	i, ok := channelIndex(name)
	if !ok {
		return
	}
	mode := Paused
	if opts.Mute {
		mode = Muted
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.modes[i] != Resumed && !opts.Override {
		return
	}
	m.modes[i] = mode
}

// Resume resumes the named channels (all of them when none are given) and
// flushes their queued writes in original order. Records of channels that
// stay paused keep their place in the queue.
func (m *Mux) Resume(names ...Name) {
	if len(names) == 0 {
		names = Names
	}

	m.mu.Lock()
	var resumed [2]bool
	for _, name := range names {
		if i, ok := channelIndex(name); ok {
			m.modes[i] = Resumed
			resumed[i] = true
		}
	}

	var after []func(int)
	kept := m.queue[:0]
	for _, r := range m.queue {
		if !resumed[r.ch] {
			kept = append(kept, r)
			continue
		}
		err := m.emitLocked(r.ch, r.payload)
		kind := Flushed
		if err != nil {
			kind = Failed
		}
		after = append(after, m.notify(r.ch, kind, len(r.payload), -1))
		if r.done != nil {
			done := r.done
			after = append(after, func(int) { done(err) })
		}
	}
	clear(m.queue[len(kept):])
	m.queue = kept
	queued := len(kept)
	m.mu.Unlock()

	for _, fn := range after {
		fn(queued)
	}
}

// Mode returns the pause state of the named channel.
func (m *Mux) Mode(name Name) Mode {
	i, ok := channelIndex(name)
	if !ok {
		return Resumed
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modes[i]
}

// Pending returns the number of queued writes across both channels.
func (m *Mux) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Rebind swaps the line editor and raw sinks. Both channels are unpiped
// from the old sinks and piped to the new ones without releasing the
// lock, so no write is emitted mid-swap. Queued writes are kept and will
// be flushed to the new sinks.
func (m *Mux) Rebind(line LineState, stdout, stderr tty.Output) error {
	if stdout == nil {
		return ErrNoSink
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unpipe()
	m.line = line
	m.stdout = stdout
	m.stderr = stderr
	m.pipe()
	return nil
}

// Redraw requests a prompt redraw, serialized with channel writes.
func (m *Mux) Redraw() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redraw != nil {
		m.redraw(m.line, m.stdout)
	}
}

// Exclusive runs fn with the multiplexer locked so no channel write is
// emitted while fn draws to the terminal. fn must not write to a Channel.
func (m *Mux) Exclusive(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}

// Target returns the sink the named channel forwards to.
func (m *Mux) Target(name Name) Target {
	i, ok := channelIndex(name)
	if !ok {
		return Target{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.targets[i]
}

// pipe resolves channel targets and copies their color capability.
// Callers must hold mu, except New.
func (m *Mux) pipe() {
	m.targets[0] = Target{Kind: Own, Sink: m.stdout}
	if m.stderr != nil {
		m.targets[1] = Target{Kind: Own, Sink: m.stderr}
	} else {
		m.targets[1] = Target{Kind: Alias, Sink: m.stdout}
	}
	for i, t := range m.targets {
		m.profiles[i] = colorProfile(t.Sink)
	}
}

func (m *Mux) unpipe() {
	m.targets = [2]Target{}
	m.profiles = [2]termenv.Profile{termenv.Ascii, termenv.Ascii}
}

func colorProfile(sink tty.Output) termenv.Profile {
	if sink == nil || !sink.IsTerminal() {
		return termenv.Ascii
	}
	return sink.Profile()
}

func (m *Mux) isActive() bool {
	return m.active != nil && m.active()
}

// emitLocked writes p to the channel's sink wrapped in relocation
// fragments, then requests a redraw. Callers must hold mu.
func (m *Mux) emitLocked(ch int, p []byte) error {
	sink := m.targets[ch].Sink
	if sink == nil {
		return ErrNoSink
	}

	buf := p
	if rel, ok := Relocate(m.line, m.stdout.Columns(), m.isActive()); ok && sink.IsTerminal() {
		buf = rel.Wrap(p)
	}
	if _, err := sink.Write(buf); err != nil {
		return err
	}
	if m.redraw != nil {
		m.redraw(m.line, m.stdout)
	}
	return nil
}

// notify returns a deferred observer call. A negative queued value is
// replaced by the queue length passed at dispatch time.
func (m *Mux) notify(ch int, kind EventKind, n, queued int) func(int) {
	return func(final int) {
		if m.observer == nil {
			return
		}
		if queued < 0 {
			queued = final
		}
		m.observer.Observe(Event{Channel: Names[ch], Kind: kind, Bytes: n, Queued: queued})
	}
}

// write implements Channel.Write and Channel.WriteAsync.
func (m *Mux) write(ch int, p []byte, done func(error)) (int, error) {
	m.mu.Lock()
	switch m.modes[ch] {
	case Paused:
		m.queue = append(m.queue, record{ch: ch, payload: bytes.Clone(p), done: done})
		ev := m.notify(ch, Buffered, len(p), len(m.queue))
		m.mu.Unlock()
		ev(0)
		return len(p), nil
	case Muted:
		ev := m.notify(ch, Dropped, len(p), len(m.queue))
		m.mu.Unlock()
		ev(0)
		if done != nil {
			done(nil)
		}
		return len(p), nil
	}

	err := m.emitLocked(ch, p)
	kind := Written
	if err != nil {
		kind = Failed
	}
	ev := m.notify(ch, kind, len(p), len(m.queue))
	m.mu.Unlock()

	ev(0)
	if done != nil {
		done(err)
	}
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
