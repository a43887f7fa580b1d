// ABOUTME: Demo commands dispatched from submitted lines, plus fuzzy command completion
// ABOUTME: Most commands end by redrawing the prompt with an incremented counter

package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/sahilm/fuzzy"

	"github.com/Arnesfield/ternimal/internal/termfix"
	"github.com/Arnesfield/ternimal/pkg/ternimal"
)

const (
	cmdHelp     = "help"
	cmdClear    = "clear"
	cmdToggle   = "toggle"
	cmdQuestion = "question"
	cmdPing     = "ping"
	cmdLoad     = "load"
	cmdLogin    = "login"
	cmdReload   = "reload"
	cmdExit     = "exit"
)

type command struct {
	name  string
	usage string
	about string
}

var commands = []command{
	{cmdHelp, "", "Show this list of commands."},
	{cmdClear, "", "Clear the screen."},
	{cmdToggle, "", "Switch between the short and the long prompt."},
	{cmdQuestion, "", "Ask a couple of questions."},
	{cmdPing, "[count]", "Log fake ping replies below the prompt."},
	{cmdLoad, "", "Show a spinner while fake tasks finish."},
	{cmdLogin, "", "Show a login form."},
	{cmdReload, "", "Reload the configuration file."},
	{cmdExit, "", "Exit the demo."},
}

func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}
	return names
}

// complete fuzzy-matches the line against command names, best match first.
func complete(line string) []string {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return commandNames()
	case strings.Contains(line, " "):
		return nil
	}
	matches := fuzzy.Find(line, commandNames())
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

func (a *app) onLine(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		a.nextPrompt()
		return
	}

	switch name, args := fields[0], fields[1:]; name {
	case cmdExit:
		a.exit(0)
		return
	case cmdQuestion:
		a.question()
		return
	case cmdHelp:
		a.help()
	case cmdClear:
		_, _ = a.term.Raw().Stdout.Write([]byte("\x1bc"))
	case cmdToggle:
		a.prompt.toggle()
	case cmdPing:
		count := a.settings().Ping.Count
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				a.log.Warn("invalid ping count", "count", args[0])
				break
			}
			count = n
		}
		a.ping(count)
	case cmdLoad:
		a.runTask(newLoadModel(5, a.settings().Spinner), func(m tea.Model) {
			if lm, ok := m.(loadModel); ok && lm.canceled {
				a.log.Warn("load canceled")
				return
			}
			a.log.Info("load finished")
		})
	case cmdLogin:
		a.runTask(loginModel{}, func(m tea.Model) {
			lm, ok := m.(loginModel)
			if !ok || !lm.done {
				a.log.Warn("login canceled")
				return
			}
			a.log.Info("logged in", "username", lm.username(), "password", strings.Repeat("*", len(lm.password())))
		})
	case cmdReload:
		a.reload()
	default:
		fmt.Fprintf(a.term.Stdout(), "Line: %s\n", line)
	}
	a.nextPrompt()
}

// nextPrompt increments the counter and shows the prompt again.
func (a *app) nextPrompt() {
	a.term.SetPrompt(a.prompt.get(1))
	a.term.Prompt(true)
}

func (a *app) help() {
	var b strings.Builder
	b.WriteString("# Commands\n\n")
	for _, c := range commands {
		name := "`" + c.name + "`"
		if c.usage != "" {
			name = "`" + c.name + " " + c.usage + "`"
		}
		fmt.Fprintf(&b, "- %s %s\n", name, c.about)
	}
	b.WriteString("\nPress **Tab** to complete a command, **Ctrl+C** to clear the line or quit.\n")

	out := a.term.Stdout()
	style := "notty"
	if out.IsTerminal() && out.Profile() != termenv.Ascii {
		style = "light"
		if termfix.Dark() {
			style = "dark"
		}
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if cols := out.Columns(); cols > 0 {
		opts = append(opts, glamour.WithWordWrap(cols))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		a.log.Error("rendering help", "error", err)
		return
	}
	rendered, err := r.Render(b.String())
	if err != nil {
		a.log.Error("rendering help", "error", err)
		return
	}
	_, _ = out.WriteString(rendered)
}

// question asks two questions in a row while other output is held back.
func (a *app) question() {
	ed, ok := editor(a.term)
	if !ok {
		a.nextPrompt()
		return
	}
	a.term.Pause(ternimal.PauseOptions{Stdout: true, Stderr: true})
	ed.Question("What's your name? ", func(name string) {
		ed.Question("What's your favorite color? ", func(color string) {
			fmt.Fprintf(a.term.Raw().Stdout, "Hello %s! Your favorite color is %s.\n", name, color)
			a.term.Resume(ternimal.ResumeOptions{Stdout: true, Stderr: true})
			a.nextPrompt()
		})
	})
}

func (a *app) stopPinging() {
	a.pingMu.Lock()
	defer a.pingMu.Unlock()
	if a.stopPing != nil {
		a.stopPing()
		a.stopPing = nil
	}
}

// ping logs count fake replies, replacing any ping still running.
func (a *app) ping(count int) {
	a.pingMu.Lock()
	if a.stopPing != nil {
		a.stopPing()
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.stopPing = cancel
	a.pingMu.Unlock()

	interval := a.settings().Ping.Interval
	a.group.Go(func() error {
		defer cancel()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for seq := 1; seq <= count; seq++ {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			ms := 0.02 + rand.Float64()*0.08
			a.log.Info("64 bytes from localhost (127.0.0.1)",
				"icmp_seq", seq, "ttl", 64, "time", fmt.Sprintf("%.3fms", ms))
		}
		a.log.Info("ping finished", "transmitted", count)
		return nil
	})
}

// runTask hands the terminal to a Bubble Tea program and restores the
// session afterwards. Multiplexed output is held until the prompt is back.
func (a *app) runTask(m tea.Model, report func(tea.Model)) {
	a.term.Pause(ternimal.PauseOptions{Stdout: true, Stderr: true})
	defer a.term.Resume(ternimal.ResumeOptions{Stdout: true, Stderr: true})

	if err := a.term.Cleanup(a.ctx, true); err != nil {
		a.log.Error("cleanup failed", "error", err)
		return
	}
	final, err := a.runProgram(a.ctx, m)
	if rerr := a.term.Reinit(a.ctx, nil); rerr != nil {
		a.log.Error("reinit failed", "error", rerr)
		a.exit(1)
		return
	}
	if err != nil {
		a.log.Error("task failed", "error", err)
		return
	}
	report(final)
}
