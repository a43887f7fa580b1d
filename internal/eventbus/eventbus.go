// ABOUTME: Typed listener registry delivering events in subscription order
// ABOUTME: Backs line/close/interrupt events of the editor and resize events of outputs

package eventbus

import "sync"

// Handler is a callback function for events.
type Handler[T any] func(T)

type entry[T any] struct {
	id      int
	handler Handler[T]
}

// Bus is a typed event bus. Handlers run synchronously, in the order they
// subscribed, on the publishing goroutine.
type Bus[T any] struct {
	mu       sync.RWMutex
	handlers []entry[T]
	nextID   int
}

// New creates a new event bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers a handler and returns an unsubscribe function.
// Calling the returned function more than once is a no-op.
func (b *Bus[T]) Subscribe(handler Handler[T]) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers = append(b.handlers, entry[T]{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.handlers {
			if e.id == id {
				b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

// Publish sends an event to all registered handlers.
func (b *Bus[T]) Publish(event T) {
	b.mu.RLock()
	// Snapshot handlers to avoid holding lock during callbacks
	snapshot := make([]Handler[T], len(b.handlers))
	for i, e := range b.handlers {
		snapshot[i] = e.handler
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(event)
	}
}

// Count returns the number of registered handlers.
func (b *Bus[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// Clear removes every handler.
func (b *Bus[T]) Clear() {
	b.mu.Lock()
	b.handlers = nil
	b.mu.Unlock()
}
