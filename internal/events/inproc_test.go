package events

import (
	"context"
	"testing"

	"github.com/machele-codez/socialape-api/internal/store"
)

func TestInProcBusDispatchesToMatchingSubscribers(t *testing.T) {
	bus := NewInProcBus()

	var likeCreated, likeDeleted int
	if err := bus.Subscribe("likes", KindCreated, func(ctx context.Context, e Event) {
		likeCreated++
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if err := bus.Subscribe("likes", KindDeleted, func(ctx context.Context, e Event) {
		likeDeleted++
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(context.Background(), Event{Collection: "likes", Kind: KindCreated, ID: "l1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := bus.Publish(context.Background(), Event{Collection: "comments", Kind: KindCreated, ID: "c1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if likeCreated != 1 {
		t.Fatalf("expected one like created dispatch, got %d", likeCreated)
	}
	if likeDeleted != 0 {
		t.Fatalf("expected no like deleted dispatch, got %d", likeDeleted)
	}
}

func TestInProcBusDeliversEventPayload(t *testing.T) {
	bus := NewInProcBus()

	var got Event
	if err := bus.Subscribe("users", KindUpdated, func(ctx context.Context, e Event) {
		got = e
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	want := Event{
		Collection: "users",
		Kind:       KindUpdated,
		ID:         "alice",
		Before:     store.Document{"imageURL": "a.png"},
		After:      store.Document{"imageURL": "b.png"},
	}
	if err := bus.Publish(context.Background(), want); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if got.ID != "alice" || got.Before["imageURL"] != "a.png" || got.After["imageURL"] != "b.png" {
		t.Fatalf("unexpected event delivered: %+v", got)
	}
}
