// ABOUTME: Demo application state: terminal session, setups, background tasks and shutdown
// ABOUTME: Each (re)initialization creates a fresh readline.Editor that keeps the previous history

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/Arnesfield/ternimal/internal/config"
	"github.com/Arnesfield/ternimal/internal/log"
	"github.com/Arnesfield/ternimal/pkg/ternimal"
	"github.com/Arnesfield/ternimal/pkg/ternimal/metrics"
	"github.com/Arnesfield/ternimal/pkg/ternimal/readline"
	"github.com/Arnesfield/ternimal/pkg/ternimal/tty"
)

// stdinChannel is the raw input the demo reads keystrokes from.
type stdinChannel interface {
	tty.Reader
	tty.RawModer
}

// appDeps are the resources a demo session runs on.
type appDeps struct {
	settings   *config.Settings
	configPath string
	// override reapplies command line flags after every config load.
	override func(*config.Settings)

	stdin    stdinChannel
	stdout   tty.Output
	stderr   tty.Output
	teaOut   io.Writer
	registry *prometheus.Registry

	promptTick time.Duration
}

type app struct {
	appDeps

	term    *ternimal.Terminal
	log     *slog.Logger
	prompt  *promptStyle
	history *readline.History

	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc

	settingsMu sync.Mutex
	current    *config.Settings

	pingMu   sync.Mutex
	stopPing context.CancelFunc

	exitOnce sync.Once
	exitCode int
	done     chan struct{}
}

func newApp(deps appDeps) (*app, error) {
	if deps.promptTick == 0 {
		deps.promptTick = time.Second
	}
	a := &app{
		appDeps: deps,
		current: deps.settings,
		history: readline.NewHistory(),
		done:    make(chan struct{}),
	}
	historyErr := a.loadHistory()

	var reg prometheus.Registerer
	if deps.registry != nil {
		reg = deps.registry
	}
	obs, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}
	a.term, err = ternimal.New(a.initSession, ternimal.WithObserver(obs))
	if err != nil {
		return nil, err
	}
	a.log = a.term.Logger()

	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(a.term.Stdout().Profile())
	a.prompt = newPromptStyle(r, deps.settings.Prompt)

	if historyErr != nil {
		a.log.Warn("history not loaded", "error", historyErr)
	}
	return a, nil
}

func (a *app) settings() *config.Settings {
	a.settingsMu.Lock()
	defer a.settingsMu.Unlock()
	return a.current
}

func (a *app) loadHistory() error {
	path := a.settings().HistoryFile
	if path == "" {
		return nil
	}
	return a.history.LoadFromFile(path)
}

// initSession is the demo's ternimal.InitFunc.
func (a *app) initSession(prev *ternimal.Terminal, _ ternimal.Context) (ternimal.Options, error) {
	hist := a.history
	if prev != nil {
		if ed, ok := prev.Interface().(*readline.Editor); ok {
			hist = ed.History()
		}
	}
	ed := readline.New(a.stdin, a.stdout,
		readline.WithHistory(hist),
		readline.WithCompleter(complete),
	)
	return ternimal.Options{
		Interface: ed,
		Stdin:     a.stdin,
		Stdout:    a.stdout,
		Stderr:    a.stderr,
	}, nil
}

// start registers the setups, starts background services and shows the
// first prompt.
func (a *app) start(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	a.cancel = cancel
	a.group, a.ctx = errgroup.WithContext(ctx)

	setups := []ternimal.SetupFunc{
		a.handleLines,
		a.handleInterrupt,
		a.handleClose,
		a.tickPrompt,
		a.runEditor,
	}
	for _, setup := range setups {
		if err := a.term.Use(a.ctx, setup); err != nil {
			return err
		}
	}

	if addr := a.settings().MetricsAddr; addr != "" {
		a.serveMetrics(addr)
	}
	w := config.NewWatcher([]string{config.GlobalConfigFile(), a.configPath}, a.reload)
	a.group.Go(func() error {
		if err := w.Run(a.ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	a.term.SetPrompt(a.prompt.get(0))
	a.term.Prompt(false)
	bold := a.prompt.r.NewStyle().Bold(true)
	fmt.Fprintf(a.term.Stdout(), "Enter %s to show list of commands. Enter %s or %s to quit.\n",
		bold.Render(cmdHelp), bold.Render(cmdExit), bold.Render("Ctrl+C"))
	return nil
}

// wait blocks until the demo exits and returns its exit code.
func (a *app) wait() (int, error) {
	select {
	case <-a.done:
	case <-a.ctx.Done():
		a.exit(1)
	}

	err := a.group.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if path := a.settings().HistoryFile; path != "" {
		if herr := a.history.SaveToFile(path); herr != nil {
			err = errors.Join(err, herr)
		}
	}
	return a.exitCode, err
}

// exit hides the prompt, runs every cleanup, closes the editor and stops
// background work. Only the first call has an effect.
func (a *app) exit(code int) {
	a.exitOnce.Do(func() {
		a.exitCode = code
		a.stopPinging()
		a.term.SetPrompt("")
		if err := a.term.Cleanup(context.Background(), true); err != nil {
			a.log.Error("cleanup failed", "error", err)
		}
		a.cancel()
		close(a.done)
	})
}

func (a *app) reload() {
	s, err := config.Load(a.configPath)
	if err != nil {
		a.log.Warn("config reload failed", "error", err)
		return
	}
	if a.override != nil {
		a.override(s)
	}
	a.settingsMu.Lock()
	a.current = s
	a.settingsMu.Unlock()

	if lvl, err := log.ParseLevel(s.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	a.prompt.update(s.Prompt)
	a.term.SetPrompt(a.prompt.get(0))
	a.log.Info("config reloaded")
}

func editor(t *ternimal.Terminal) (*readline.Editor, bool) {
	ed, ok := t.Interface().(*readline.Editor)
	return ed, ok
}

func (a *app) handleLines(_ context.Context, t *ternimal.Terminal, _ ternimal.Context) (ternimal.CleanupFunc, error) {
	remove := t.Interface().OnLine(a.onLine)
	return func(context.Context) error {
		remove()
		return nil
	}, nil
}

// handleInterrupt clears a non-empty line on Ctrl+C and exits otherwise.
func (a *app) handleInterrupt(_ context.Context, t *ternimal.Terminal, _ ternimal.Context) (ternimal.CleanupFunc, error) {
	ed, ok := editor(t)
	if !ok {
		return nil, nil
	}
	remove := ed.OnInterrupt(func() {
		if ed.Line() != "" {
			t.SetLine("", true)
			return
		}
		a.exit(130)
	})
	return func(context.Context) error {
		remove()
		return nil
	}, nil
}

// handleClose exits when the editor closes on its own, for example on
// Ctrl+D or end of input.
func (a *app) handleClose(_ context.Context, t *ternimal.Terminal, _ ternimal.Context) (ternimal.CleanupFunc, error) {
	ed, ok := editor(t)
	if !ok {
		return nil, nil
	}
	remove := ed.OnClose(func() { a.exit(0) })
	return func(context.Context) error {
		remove()
		return nil
	}, nil
}

// tickPrompt keeps the clock in the prompt current while it is shown.
func (a *app) tickPrompt(ctx context.Context, t *ternimal.Terminal, _ ternimal.Context) (ternimal.CleanupFunc, error) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer tty.RecoverGoroutine(a.stdin)
		ticker := time.NewTicker(a.promptTick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if t.Active() {
					t.SetPrompt(a.prompt.get(0))
				}
			}
		}
	}()
	return func(context.Context) error {
		cancel()
		return nil
	}, nil
}

// runEditor reads keystrokes for the current editor until cleanup.
func (a *app) runEditor(ctx context.Context, t *ternimal.Terminal, _ ternimal.Context) (ternimal.CleanupFunc, error) {
	ed, ok := editor(t)
	if !ok {
		return nil, errors.New("demo requires a readline editor")
	}
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer tty.RecoverGoroutine(a.stdin)
		if err := ed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error("line editor stopped", "error", err)
			a.exit(1)
		}
	}()
	return func(context.Context) error {
		cancel()
		return nil
	}, nil
}
