// ABOUTME: Pause and Resume for stdin and the output channels
// ABOUTME: Paused channels buffer writes, or drop them when muted, until resumed

package ternimal

import "github.com/Arnesfield/ternimal/pkg/ternimal/output"

// PauseOptions selects the streams Pause affects.
type PauseOptions struct {
	Stdin  bool
	Stdout bool
	Stderr bool
	// Mute drops writes on the selected output channels instead of
	// buffering them.
	Mute bool
	// Override replaces the mode of an output channel that is already
	// paused or muted. Without it the existing mode is kept.
	Override bool
}

// ResumeOptions selects the streams Resume affects.
type ResumeOptions struct {
	Stdin  bool
	Stdout bool
	Stderr bool
}

var (
	pauseAll  = PauseOptions{Stdin: true, Stdout: true, Stderr: true}
	resumeAll = ResumeOptions{Stdin: true, Stdout: true, Stderr: true}
)

// Status reports the state of each stream. Stdin is either
// output.Resumed or output.Paused.
type Status struct {
	Stdin  output.Mode
	Stdout output.Mode
	Stderr output.Mode
}

// Pause pauses input and buffers or mutes output. With no options every
// stream is paused and output is buffered.
func (t *Terminal) Pause(opts ...PauseOptions) {
	o := pauseAll
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Stdin {
		t.Interface().Pause()
	}
	so := output.StreamOptions{Mute: o.Mute, Override: o.Override}
	if o.Stdout {
		t.mux.Pause(output.Stdout, so)
	}
	if o.Stderr {
		t.mux.Pause(output.Stderr, so)
	}
}

// Resume resumes input and flushes buffered output of the resumed
// channels in submission order. With no options every stream is resumed.
func (t *Terminal) Resume(opts ...ResumeOptions) {
	o := resumeAll
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Stdin {
		t.Interface().Resume()
	}
	var names []output.Name
	if o.Stdout {
		names = append(names, output.Stdout)
	}
	if o.Stderr {
		names = append(names, output.Stderr)
	}
	if len(names) > 0 {
		t.mux.Resume(names...)
	}
}

// Status returns the current stream states.
func (t *Terminal) Status() Status {
	stdin := output.Resumed
	if t.Raw().Stdin.IsPaused() {
		stdin = output.Paused
	}
	return Status{
		Stdin:  stdin,
		Stdout: t.mux.Mode(output.Stdout),
		Stderr: t.mux.Mode(output.Stderr),
	}
}
