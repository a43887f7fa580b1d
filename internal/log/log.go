// ABOUTME: slog handler routing records onto the multiplexed stdout/stderr channels
// ABOUTME: Debug/Info go to stdout, Warn/Error to stderr; level labels colored per channel profile

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var level = new(slog.LevelVar)

// SetLevel sets the global log level used by handlers created without
// an explicit level.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// GetLevel returns the global log level.
func GetLevel() slog.Level {
	return level.Level()
}

// ParseLevel parses debug, info, warn/warning or error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if strings.EqualFold(s, "warning") {
		s = "warn"
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return LevelInfo, fmt.Errorf("parsing log level %q: %w", s, err)
	}
	return l, nil
}

// Sink is a channel the handler writes formatted records to.
type Sink interface {
	io.Writer
	Profile() termenv.Profile
}

// Options configures a Handler.
type Options struct {
	// Level defaults to the global level.
	Level slog.Leveler
}

var labels = map[slog.Level]struct {
	text  string
	color lipgloss.Color
}{
	LevelDebug: {"DEBUG", lipgloss.Color("8")},
	LevelInfo:  {"INFO", lipgloss.Color("12")},
	LevelWarn:  {"WARN", lipgloss.Color("11")},
	LevelError: {"ERROR", lipgloss.Color("9")},
}

// shared is the attribute formatter state common to a handler and its
// WithAttrs/WithGroup derivatives.
type shared struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Handler formats records as "[LEVEL] message key=value ..." and writes
// each one as a single Write on the channel matching its level.
type Handler struct {
	stdout Sink
	stderr Sink
	level  slog.Leveler
	attrs  slog.Handler
	state  *shared
}

// NewHandler returns a Handler writing to stdout and stderr.
func NewHandler(stdout, stderr Sink, opts *Options) *Handler {
	if opts == nil {
		opts = &Options{}
	}
	lvl := opts.Level
	if lvl == nil {
		lvl = level
	}
	state := &shared{}
	return &Handler{
		stdout: stdout,
		stderr: stderr,
		level:  lvl,
		state:  state,
		attrs: slog.NewTextHandler(&state.buf, &slog.HandlerOptions{
			Level:       slog.LevelDebug,
			ReplaceAttr: replaceAttr,
		}),
	}
}

// New returns a logger over NewHandler.
func New(stdout, stderr Sink, lvl slog.Leveler) *slog.Logger {
	return slog.New(NewHandler(stdout, stderr, &Options{Level: lvl}))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// replaceAttr drops the built-in keys rendered by Handle itself and
// standardizes "error" to "err".
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 {
		switch a.Key {
		case slog.TimeKey, slog.LevelKey, slog.MessageKey:
			return slog.Attr{}
		}
	}
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	sink := h.stdout
	if r.Level >= LevelWarn && h.stderr != nil {
		sink = h.stderr
	}
	if sink == nil {
		return nil
	}

	h.state.mu.Lock()
	h.state.buf.Reset()
	err := h.attrs.Handle(ctx, r)
	attrs := strings.TrimSpace(h.state.buf.String())
	h.state.mu.Unlock()
	if err != nil {
		return fmt.Errorf("formatting log attributes: %w", err)
	}

	var line strings.Builder
	line.WriteString(label(r.Level, sink.Profile()))
	line.WriteByte(' ')
	line.WriteString(r.Message)
	if attrs != "" {
		line.WriteByte(' ')
		line.WriteString(attrs)
	}
	line.WriteByte('\n')

	_, err = io.WriteString(sink, line.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = h.attrs.WithAttrs(attrs)
	return &h2
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	h2 := *h
	h2.attrs = h.attrs.WithGroup(name)
	return &h2
}

// label renders the bracketed level name, colored unless the profile is
// Ascii.
func label(l slog.Level, profile termenv.Profile) string {
	var base slog.Level
	switch {
	case l < LevelInfo:
		base = LevelDebug
	case l < LevelWarn:
		base = LevelInfo
	case l < LevelError:
		base = LevelWarn
	default:
		base = LevelError
	}
	lb := labels[base]
	text := lb.text
	if l != base {
		text = l.String()
	}
	text = "[" + text + "]"
	if profile == termenv.Ascii {
		return text
	}
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	return r.NewStyle().Foreground(lb.color).Bold(true).Render(text)
}

var defaultLogger atomic.Pointer[slog.Logger]

// SetDefault sets the logger used by the printf-style helpers.
func SetDefault(l *slog.Logger) {
	defaultLogger.Store(l)
}

func logger() *slog.Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// Debug logs a formatted debug message on the default logger.
func Debug(format string, args ...any) {
	logger().Debug(fmt.Sprintf(format, args...))
}

// Info logs a formatted info message on the default logger.
func Info(format string, args ...any) {
	logger().Info(fmt.Sprintf(format, args...))
}

// Warn logs a formatted warning on the default logger.
func Warn(format string, args ...any) {
	logger().Warn(fmt.Sprintf(format, args...))
}

// Error logs a formatted error on the default logger.
func Error(format string, args ...any) {
	logger().Error(fmt.Sprintf(format, args...))
}
