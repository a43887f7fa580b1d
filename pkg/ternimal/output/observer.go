// ABOUTME: Observer hook for multiplexer write events
// ABOUTME: Reports each write as written, buffered, dropped, flushed or failed

package output

// EventKind classifies what happened to a write.
type EventKind int

const (
	Written EventKind = iota
	Buffered
	Dropped
	Flushed
	Failed
)

func (k EventKind) String() string {
	switch k {
	case Written:
		return "written"
	case Buffered:
		return "buffered"
	case Dropped:
		return "dropped"
	case Flushed:
		return "flushed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Event describes one write. Queued is the queue length after the write
// was handled.
type Event struct {
	Channel Name
	Kind    EventKind
	Bytes   int
	Queued  int
}

// Observer receives multiplexer events outside the multiplexer lock.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f.
func (f ObserverFunc) Observe(e Event) { f(e) }
