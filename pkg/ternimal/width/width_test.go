// ABOUTME: Tests for VisibleWidth, StripANSI and the two-generation width cache
// ABOUTME: Covers ASCII, CJK, emoji sequences, styled prompts and generation rotation

package width

import (
	"strings"
	"testing"
)

func TestVisibleWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty string", input: "", want: 0},
		{name: "ascii", input: "hello", want: 5},
		{name: "styled prompt", input: "\x1b[36m3\x1b[39m> ", want: 3},
		{name: "cjk", input: "你好", want: 4},
		{name: "emoji", input: "👋", want: 2},
		{name: "flag", input: "🇯🇵", want: 2},
		{name: "combining accent", input: "é", want: 1},
		{name: "tab is zero width", input: "a\tb", want: 2},
		{name: "only ansi", input: "\x1b[31m\x1b[0m", want: 0},
		{name: "osc title", input: "\x1b]0;title\x07ok", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := VisibleWidth(tt.input); got != tt.want {
				t.Errorf("VisibleWidth(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestPrintableASCII(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "", want: true},
		{input: "> hello world!", want: true},
		{input: "a\tb", want: false},
		{input: "red\x1b[31m", want: false},
		{input: "café", want: false},
	}

	for _, tt := range tests {
		if got := printableASCII(tt.input); got != tt.want {
			t.Errorf("printableASCII(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestStripANSI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no ansi", input: "plain text", want: "plain text"},
		{name: "sgr color", input: "\x1b[31mred\x1b[0m", want: "red"},
		{name: "cursor movement", input: "\n\r\x1b[2A\x1b[0Jlog", want: "\n\rlog"},
		{name: "osc with st", input: "\x1b]8;;http://x\x1b\\link", want: "link"},
		{name: "charset", input: "\x1b(Bx", want: "x"},
		{name: "truncated csi", input: "a\x1b[31", want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StripANSI(tt.input); got != tt.want {
				t.Errorf("StripANSI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWidthCache_Generations(t *testing.T) {
	t.Parallel()

	measures := map[string]int{}
	count := func(s string) int {
		measures[s]++
		return len(s)
	}
	c := newWidthCache(2)

	c.lookup("a", count)
	c.lookup("bb", count)
	c.lookup("ccc", count) // current is full: {a, bb} becomes the older generation
	c.lookup("a", count)   // promoted from the older generation without measuring
	c.lookup("dddd", count)
	c.lookup("bb", count) // dropped with the older generation

	want := map[string]int{"a": 1, "bb": 2, "ccc": 1, "dddd": 1}
	for s, n := range want {
		if measures[s] != n {
			t.Errorf("%q measured %d times, want %d", s, measures[s], n)
		}
	}
	if got := c.lookup("a", count); got != 1 {
		t.Errorf("lookup(a) = %d, want 1", got)
	}
}

func BenchmarkVisibleWidth_Prompt(b *testing.B) {
	s := "[\x1b[90m12:00:00\x1b[39m] \x1b[36m42\x1b[39m> " + strings.Repeat("x", 40)
	for b.Loop() {
		VisibleWidth(s)
	}
}
