// ABOUTME: Bubble Tea programs run while the terminal is cleaned up: a spinner and a login form
// ABOUTME: Input is bound to a context so the program gives stdin back when it exits

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Arnesfield/ternimal/pkg/ternimal/tty"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// loadModel shows a spinner while a number of fake tasks complete.
type loadModel struct {
	total    int
	task     int
	perTask  time.Duration
	started  time.Time
	frame    int
	done     bool
	canceled bool
}

func newLoadModel(total int, d time.Duration) loadModel {
	return loadModel{total: total, task: 1, perTask: d / time.Duration(max(total, 1))}
}

func (m loadModel) Init() tea.Cmd { return tick() }

func (m loadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			return m, tea.Quit
		}
	case tickMsg:
		now := time.Time(msg)
		if m.started.IsZero() {
			m.started = now
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		if now.Sub(m.started) >= m.perTask {
			m.task++
			m.started = now
			if m.task > m.total {
				m.done = true
				return m, tea.Quit
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m loadModel) View() string {
	switch {
	case m.done:
		return fmt.Sprintf("✔ Loaded %d tasks\n", m.total)
	case m.canceled:
		return "✖ Loading canceled\n"
	}
	return fmt.Sprintf("%s Loading task %d of %d", spinnerFrames[m.frame], m.task, m.total)
}

// loginModel asks for a username and a masked password.
type loginModel struct {
	fields   [2][]rune
	focus    int
	done     bool
	canceled bool
}

var loginLabels = [2]string{"Username: ", "Password: "}

func (m loginModel) Init() tea.Cmd { return nil }

func (m loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.canceled = true
		return m, tea.Quit
	case tea.KeyEnter:
		if m.focus == 0 {
			m.focus = 1
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if f := m.fields[m.focus]; len(f) > 0 {
			m.fields[m.focus] = f[:len(f)-1]
		}
	case tea.KeyRunes, tea.KeySpace:
		m.fields[m.focus] = append(m.fields[m.focus], key.Runes...)
	}
	return m, nil
}

func (m loginModel) View() string {
	var b strings.Builder
	for i := 0; i <= m.focus; i++ {
		value := string(m.fields[i])
		if i == 1 {
			value = strings.Repeat("*", len(m.fields[i]))
		}
		b.WriteString("? " + loginLabels[i] + value)
		if i == m.focus && !m.done && !m.canceled {
			b.WriteString("█")
		} else {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m loginModel) username() string { return string(m.fields[0]) }
func (m loginModel) password() string { return string(m.fields[1]) }

// runProgram runs m inline on the demo's terminal and returns the final
// model.
func (a *app) runProgram(ctx context.Context, m tea.Model) (tea.Model, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(tty.BindContext(ctx, a.stdin)),
		tea.WithOutput(a.teaOut),
	)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("bubble tea: %w", err)
	}
	return final, nil
}
