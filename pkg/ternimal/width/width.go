// ABOUTME: Display width of prompt and log text in terminal cells
// ABOUTME: Single runes follow runewidth, multi-rune clusters (flags, ZWJ emoji) follow uniseg

package width

import (
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// VisibleWidth returns the number of cells s occupies on one terminal row.
// Escape sequences take no cells and wide glyphs take two.
func VisibleWidth(s string) int {
	if printableASCII(s) {
		return len(s)
	}
	return measured.lookup(s, measure)
}

func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < ' ' || s[i] > '~' {
			return false
		}
	}
	return true
}

func measure(s string) int {
	text := StripANSI(s)
	cells, state := 0, -1
	for text != "" {
		var cluster string
		var boundaries int
		cluster, text, boundaries, state = uniseg.StepString(text, state)
		cells += clusterWidth(cluster, boundaries>>uniseg.ShiftWidth)
	}
	return cells
}

// clusterWidth uses runewidth for a lone rune, so its East Asian ambiguous
// setting (RUNEWIDTH_EASTASIAN) applies, and uniseg's width otherwise.
func clusterWidth(cluster string, sequence int) int {
	r, size := utf8.DecodeRuneInString(cluster)
	if size == len(cluster) {
		return runewidth.RuneWidth(r)
	}
	return sequence
}

// generationSize bounds each generation of the width cache.
const generationSize = 256

var measured = newWidthCache(generationSize)

// widthCache remembers the widths of recently measured strings. Prompts
// are measured again on every relocated write, so the same few strings
// dominate. Entries live in two generations: a hit in the older one moves
// the entry to the current one, and the older generation is dropped when
// the current one fills up.
type widthCache struct {
	mu      sync.Mutex
	size    int
	current map[string]int
	older   map[string]int
}

func newWidthCache(size int) *widthCache {
	return &widthCache{size: size, current: make(map[string]int, size)}
}

func (c *widthCache) lookup(s string, measure func(string) int) int {
	c.mu.Lock()
	if w, ok := c.current[s]; ok {
		c.mu.Unlock()
		return w
	}
	w, ok := c.older[s]
	c.mu.Unlock()

	if !ok {
		w = measure(s)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.current) >= c.size {
		c.older, c.current = c.current, make(map[string]int, c.size)
	}
	c.current[s] = w
	return w
}
