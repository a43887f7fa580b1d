// ABOUTME: Legacy escape sequence mappings for CSI and SS3 terminal key codes
// ABOUTME: Covers arrows, word motion, home/end variants, page keys, delete and backtab

package key

// legacySequences maps CSI and SS3 escape sequences to keys.
var legacySequences = map[string]Key{
	// CSI sequences
	"\x1b[A":  {Type: Up},
	"\x1b[B":  {Type: Down},
	"\x1b[C":  {Type: Right},
	"\x1b[D":  {Type: Left},
	"\x1b[H":  {Type: Home},
	"\x1b[F":  {Type: End},
	"\x1b[1~": {Type: Home},
	"\x1b[4~": {Type: End},
	"\x1b[7~": {Type: Home},
	"\x1b[8~": {Type: End},
	"\x1b[3~": {Type: Delete},
	"\x1b[Z":  {Type: BackTab, Shift: true},

	// Ctrl/Alt modified arrows
	"\x1b[1;5C": {Type: WordRight, Ctrl: true},
	"\x1b[1;5D": {Type: WordLeft, Ctrl: true},
	"\x1b[1;3C": {Type: WordRight, Alt: true},
	"\x1b[1;3D": {Type: WordLeft, Alt: true},

	// SS3 variants (sent by some terminals in application mode)
	"\x1bOA": {Type: Up},
	"\x1bOB": {Type: Down},
	"\x1bOC": {Type: Right},
	"\x1bOD": {Type: Left},
	"\x1bOH": {Type: Home},
	"\x1bOF": {Type: End},
}
