// ABOUTME: Package documentation for the ternimal prompt and output multiplexer
// ABOUTME: Describes the Terminal, its channels and the session lifecycle

// Package ternimal keeps an interactive prompt line intact while other
// goroutines write log output to the same terminal.
//
// A Terminal owns a line-editing Interface and the raw stdin, stdout and
// stderr channels it was initialized with. Everything written through
// Terminal.Stdout, Terminal.Stderr or Terminal.Logger is multiplexed so it
// appears above the prompt, after which the prompt is redrawn. Output can
// be paused (buffered in submission order across both channels) or muted,
// and the whole session can be swapped with Reinit while registered setup
// functions are replayed against the new session.
//
//	term, err := ternimal.New(func(prev *ternimal.Terminal, c ternimal.Context) (ternimal.Options, error) {
//		ed := readline.New(stdin, stdout)
//		return ternimal.Options{Interface: ed, Stdin: stdin, Stdout: stdout, Stderr: stderr}, nil
//	})
//	term.SetPrompt("> ")
//	term.Prompt(false)
//	term.Logger().Info("ready")
package ternimal
