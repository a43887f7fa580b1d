// ABOUTME: Fixes the lipgloss background before bubbletea's init() can query the terminal
// ABOUTME: Blank-import it first; the OSC 10/11 replies would otherwise reach the prompt as keystrokes

package termfix

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// BackgroundEnv selects the assumed background: "light" or anything else
// for dark.
const BackgroundEnv = "TERNIMAL_BACKGROUND"

func init() {
	// An explicit background skips the sync.Once that sends the query.
	// This package must not import bubbletea, directly or transitively.
	lipgloss.SetHasDarkBackground(Dark())
}

// Dark reports the background assumed by init.
func Dark() bool {
	return os.Getenv(BackgroundEnv) != "light"
}
