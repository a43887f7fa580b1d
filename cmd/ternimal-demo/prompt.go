// ABOUTME: Prompt builder for the demo: a short one-line prompt and a long two-line one
// ABOUTME: The counter survives reinit; colors follow the multiplexed stdout profile

package main

import (
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Arnesfield/ternimal/internal/config"
)

type promptStyle struct {
	mu       sync.Mutex
	nth      int
	long     bool
	settings config.Prompt
	now      func() time.Time

	r        *lipgloss.Renderer
	identity string
	dir      string
}

func newPromptStyle(r *lipgloss.Renderer, s config.Prompt) *promptStyle {
	name, host, dir := "user", "host", "."
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	if h, err := os.Hostname(); err == nil {
		host = h
	}
	if wd, err := os.Getwd(); err == nil {
		dir = filepath.Base(wd)
	}
	return &promptStyle{
		settings: s,
		now:      time.Now,
		r:        r,
		identity: name + "@" + host,
		dir:      dir,
	}
}

// get returns the prompt after adding diff to the counter.
func (p *promptStyle) get(diff int) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nth += diff
	gray := p.r.NewStyle().Foreground(lipgloss.Color("8"))
	accent := p.r.NewStyle().Foreground(lipgloss.Color(p.settings.Color))

	clock := "[" + gray.Render(p.now().Format("15:04:05")) + "]"
	counter := accent.Render(strconv.Itoa(p.nth))
	if !p.long {
		return clock + " " + counter + p.settings.Short
	}

	header := strings.Join([]string{
		clock,
		p.r.NewStyle().Foreground(lipgloss.Color("10")).Render(p.identity),
		p.r.NewStyle().Foreground(lipgloss.Color("11")).Render(p.dir),
	}, " ")
	return "\n" + header + "\n" + counter + p.settings.Long
}

func (p *promptStyle) toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.long = !p.long
}

func (p *promptStyle) update(s config.Prompt) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = s
}
