// ABOUTME: Sentinel errors returned by the Terminal lifecycle
// ABOUTME: Callers match them with errors.Is

package ternimal

import "errors"

var (
	// ErrInvalidOptions is returned when an InitFunc omits a required field.
	ErrInvalidOptions = errors.New("ternimal: invalid options")
	// ErrClosed is returned by Use after Cleanup closed the interface and
	// before the next Reinit.
	ErrClosed = errors.New("ternimal: interface closed")
)
