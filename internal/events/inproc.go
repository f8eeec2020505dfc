package events

import (
	"context"
	"sync"
)

// InProcBus dispatches events to subscribers synchronously in the publishing
// goroutine. Deterministic ordering makes it the bus of choice for tests and
// for running the whole application as one binary.
type InProcBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewInProcBus creates an empty in-process bus.
func NewInProcBus() *InProcBus {
	return &InProcBus{handlers: make(map[string][]Handler)}
}

func subscriptionKey(collection string, kind Kind) string {
	return collection + "/" + string(kind)
}

// Subscribe registers a handler for one collection/kind pair.
func (b *InProcBus) Subscribe(collection string, kind Kind, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := subscriptionKey(collection, kind)
	b.handlers[key] = append(b.handlers[key], handler)
	return nil
}

// Publish invokes every handler registered for the event's collection and
// kind before returning.
func (b *InProcBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[subscriptionKey(event.Collection, event.Kind)]
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, event)
	}
	return nil
}
