package events

import (
	"context"

	"github.com/machele-codez/socialape-api/internal/store"
)

// Kind is the kind of document change an event describes.
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
	KindDeleted Kind = "deleted"
)

// Event is a typed document change notification. Before is populated for
// updates and deletes, After for creates and updates.
type Event struct {
	Collection string         `json:"collection"`
	Kind       Kind           `json:"kind"`
	ID         string         `json:"id"`
	Before     store.Document `json:"before,omitempty"`
	After      store.Document `json:"after,omitempty"`
}

// Handler reacts to a single document change. Handlers have no caller to
// report to; failures are logged by the handler itself and never retried by
// the bus, so every handler must be safe to run again for the same event.
type Handler func(ctx context.Context, event Event)

// Bus carries document change events from the store to registered handlers.
// Two implementations exist: an in-process bus for tests and single-binary
// runs, and a NATS-backed bus for deployments with an external broker.
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(collection string, kind Kind, handler Handler) error
}
