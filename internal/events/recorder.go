package events

import (
	"context"
	"errors"

	"github.com/machele-codez/socialape-api/internal/store"
	"go.uber.org/zap"
)

// Recorder wraps a store.Store and publishes a change event after every
// successful single-document write. Request handlers write through the
// Recorder; the consistency engine writes to the undecorated store, so the
// engine's secondary writes never feed back into the engine.
//
// Batch writes pass through without events: the only batch producers are the
// engine's own cascade and image propagation, whose dependent records are
// handled within the same reaction.
type Recorder struct {
	store  store.Store
	bus    Bus
	logger *zap.Logger
}

// NewRecorder creates a Recorder over the given store and bus.
func NewRecorder(s store.Store, bus Bus, logger *zap.Logger) *Recorder {
	return &Recorder{store: s, bus: bus, logger: logger}
}

// publish logs and swallows bus errors: by the time an event is published
// the write has already committed, and triggers have no caller to fail.
func (r *Recorder) publish(ctx context.Context, event Event) {
	if err := r.bus.Publish(ctx, event); err != nil {
		r.logger.Error("failed to publish change event",
			zap.String("collection", event.Collection),
			zap.String("kind", string(event.Kind)),
			zap.String("id", event.ID),
			zap.Error(err))
	}
}

// Get retrieves a single document by id.
func (r *Recorder) Get(ctx context.Context, collection, id string) (store.Snapshot, error) {
	return r.store.Get(ctx, collection, id)
}

// All retrieves every document in a collection.
func (r *Recorder) All(ctx context.Context, collection string) ([]store.Snapshot, error) {
	return r.store.All(ctx, collection)
}

// Query retrieves all documents whose field equals value.
func (r *Recorder) Query(ctx context.Context, collection, field string, value any) ([]store.Snapshot, error) {
	return r.store.Query(ctx, collection, field, value)
}

// Add stores a document under a generated id and publishes a created event.
func (r *Recorder) Add(ctx context.Context, collection string, data store.Document) (string, error) {
	id, err := r.store.Add(ctx, collection, data)
	if err != nil {
		return "", err
	}
	r.publish(ctx, Event{Collection: collection, Kind: KindCreated, ID: id, After: data})
	return id, nil
}

// Set stores a document under a chosen id. Publishes a created event when the
// id was previously absent, otherwise an updated event with both snapshots.
func (r *Recorder) Set(ctx context.Context, collection, id string, data store.Document) error {
	before, err := r.store.Get(ctx, collection, id)
	existed := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if err := r.store.Set(ctx, collection, id, data); err != nil {
		return err
	}

	if existed {
		r.publish(ctx, Event{Collection: collection, Kind: KindUpdated, ID: id, Before: before.Data, After: data})
		return nil
	}
	r.publish(ctx, Event{Collection: collection, Kind: KindCreated, ID: id, After: data})
	return nil
}

// Update applies a partial update and publishes an updated event carrying the
// document's before and after state.
func (r *Recorder) Update(ctx context.Context, collection, id string, fields store.Document) error {
	before, err := r.store.Get(ctx, collection, id)
	if err != nil {
		return err
	}

	if err := r.store.Update(ctx, collection, id, fields); err != nil {
		return err
	}

	after := make(store.Document, len(before.Data)+len(fields))
	for k, v := range before.Data {
		after[k] = v
	}
	for k, v := range fields {
		after[k] = v
	}
	r.publish(ctx, Event{Collection: collection, Kind: KindUpdated, ID: id, Before: before.Data, After: after})
	return nil
}

// Increment passes through without an event. Counter fields are derived
// state; nothing reacts to their changes.
func (r *Recorder) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	return r.store.Increment(ctx, collection, id, field, delta)
}

// Delete removes a document and publishes a deleted event carrying its last
// known state.
func (r *Recorder) Delete(ctx context.Context, collection, id string) error {
	before, err := r.store.Get(ctx, collection, id)
	if err != nil {
		return err
	}

	if err := r.store.Delete(ctx, collection, id); err != nil {
		return err
	}
	r.publish(ctx, Event{Collection: collection, Kind: KindDeleted, ID: id, Before: before.Data})
	return nil
}

// Batch passes through to the underlying store.
func (r *Recorder) Batch() store.WriteBatch {
	return r.store.Batch()
}
