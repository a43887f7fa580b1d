// ABOUTME: Channel is the io.Writer face of one multiplexed stream
// ABOUTME: Exposes the write-with-callback contract and the color capability copied from its sink

package output

import "github.com/muesli/termenv"

// Channel is one multiplexed output stream. It is safe for concurrent use.
type Channel struct {
	m    *Mux
	name Name
	idx  int
}

// Name returns the channel name.
func (c *Channel) Name() Name { return c.name }

// Write implements io.Writer. While the channel is paused or muted it
// reports success immediately; raw sink failures are only observable on
// a resumed channel or through WriteAsync.
func (c *Channel) Write(p []byte) (int, error) {
	return c.m.write(c.idx, p, nil)
}

// WriteAsync writes p and calls done once the payload has reached the raw
// sink or has been dropped. For a paused channel done is deferred until
// the channel is resumed and the record flushed. done may be nil.
func (c *Channel) WriteAsync(p []byte, done func(error)) {
	_, _ = c.m.write(c.idx, p, done)
}

// WriteString writes s.
func (c *Channel) WriteString(s string) (int, error) {
	return c.Write([]byte(s))
}

// Mode returns the channel's pause state.
func (c *Channel) Mode() Mode {
	return c.m.Mode(c.name)
}

// Target returns the sink this channel currently forwards to.
func (c *Channel) Target() Target {
	return c.m.Target(c.name)
}

// Profile returns the color profile of the sink, or Ascii when the sink
// is not a terminal.
func (c *Channel) Profile() termenv.Profile {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	return c.m.profiles[c.idx]
}

// IsColor reports whether colored output should be written to the channel.
func (c *Channel) IsColor() bool {
	return c.Profile() != termenv.Ascii
}

// IsTerminal reports whether the sink is a terminal.
func (c *Channel) IsTerminal() bool {
	t := c.Target()
	return t.Sink != nil && t.Sink.IsTerminal()
}

// Columns returns the sink width, or 0 when unknown.
func (c *Channel) Columns() int {
	t := c.Target()
	if t.Sink == nil {
		return 0
	}
	return t.Sink.Columns()
}
