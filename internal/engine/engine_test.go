package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/machele-codez/socialape-api/internal/events"
	"github.com/machele-codez/socialape-api/internal/models"
	"github.com/machele-codez/socialape-api/internal/store"
)

func fixedClock() time.Time {
	return time.Date(2021, 3, 14, 9, 26, 53, 0, time.UTC)
}

func newTestEngine(t *testing.T, s store.Store) *Engine {
	t.Helper()
	return New(Config{Store: s, Clock: fixedClock})
}

func seedScream(t *testing.T, s store.Store, id, handle string) {
	t.Helper()
	scream := models.Scream{UserHandle: handle, Body: "a scream", CreatedAt: "2021-01-01T00:00:00Z"}
	if err := s.Set(context.Background(), models.ColScreams, id, scream.Doc()); err != nil {
		t.Fatalf("seed scream failed: %v", err)
	}
}

func likeEvent(id, screamID, handle string) events.Event {
	return events.Event{
		Collection: models.ColLikes,
		Kind:       events.KindCreated,
		ID:         id,
		After:      models.Like{ScreamID: screamID, UserHandle: handle}.Doc(),
	}
}

func commentEvent(id, screamID, handle string) events.Event {
	return events.Event{
		Collection: models.ColComments,
		Kind:       events.KindCreated,
		ID:         id,
		After:      models.Comment{ScreamID: screamID, UserHandle: handle, Body: "nice"}.Doc(),
	}
}

func TestLikeCreatedWritesNotification(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)
	seedScream(t, mem, "p1", "alice")

	if err := eng.LikeCreated(ctx, likeEvent("l1", "p1", "bob")); err != nil {
		t.Fatalf("reaction failed: %v", err)
	}

	snap, err := mem.Get(ctx, models.ColNotifications, "l1")
	if err != nil {
		t.Fatalf("expected notification l1: %v", err)
	}
	notification := models.NotificationFromSnapshot(snap)
	if notification.Type != models.NotificationTypeLike {
		t.Fatalf("expected like notification, got %q", notification.Type)
	}
	if notification.Recipient != "alice" || notification.Sender != "bob" {
		t.Fatalf("unexpected recipient/sender: %+v", notification)
	}
	if notification.ScreamID != "p1" || notification.Read {
		t.Fatalf("unexpected notification fields: %+v", notification)
	}
	if notification.CreatedAt != "2021-03-14T09:26:53Z" {
		t.Fatalf("expected clock timestamp, got %q", notification.CreatedAt)
	}
}

func TestLikeCreatedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)
	seedScream(t, mem, "p1", "alice")

	if err := eng.LikeCreated(ctx, likeEvent("l1", "p1", "bob")); err != nil {
		t.Fatalf("reaction failed: %v", err)
	}
	// re-delivery of the same event overwrites the same notification id
	if err := eng.LikeCreated(ctx, likeEvent("l1", "p1", "bob")); err != nil {
		t.Fatalf("re-run failed: %v", err)
	}

	snaps, err := mem.All(ctx, models.ColNotifications)
	if err != nil {
		t.Fatalf("list notifications failed: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(snaps))
	}
}

func TestLikeCreatedSkipsOwnScream(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)
	seedScream(t, mem, "p1", "alice")

	if err := eng.LikeCreated(ctx, likeEvent("l1", "p1", "alice")); err != nil {
		t.Fatalf("reaction failed: %v", err)
	}

	if _, err := mem.Get(ctx, models.ColNotifications, "l1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("self-like must not notify, got %v", err)
	}
}

func TestLikeCreatedToleratesMissingScream(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)

	if err := eng.LikeCreated(ctx, likeEvent("l1", "gone", "bob")); err != nil {
		t.Fatalf("orphaned like must be benign, got %v", err)
	}

	snaps, err := mem.All(ctx, models.ColNotifications)
	if err != nil {
		t.Fatalf("list notifications failed: %v", err)
	}
	if len(snaps) != 0 {
		t.Fatalf("expected no notifications, got %d", len(snaps))
	}
}

func TestLikeDeletedRemovesNotificationAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)
	seedScream(t, mem, "p1", "alice")

	if err := eng.LikeCreated(ctx, likeEvent("l1", "p1", "bob")); err != nil {
		t.Fatalf("reaction failed: %v", err)
	}

	deleted := events.Event{Collection: models.ColLikes, Kind: events.KindDeleted, ID: "l1"}
	if err := eng.LikeDeleted(ctx, deleted); err != nil {
		t.Fatalf("reaction failed: %v", err)
	}
	if _, err := mem.Get(ctx, models.ColNotifications, "l1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected notification removed, got %v", err)
	}

	// deleting again finds nothing, which is success
	if err := eng.LikeDeleted(ctx, deleted); err != nil {
		t.Fatalf("second delete must be a no-op, got %v", err)
	}
}

func TestCommentCreatedWritesNotification(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)
	seedScream(t, mem, "p1", "alice")

	if err := eng.CommentCreated(ctx, commentEvent("c1", "p1", "bob")); err != nil {
		t.Fatalf("reaction failed: %v", err)
	}

	snap, err := mem.Get(ctx, models.ColNotifications, "c1")
	if err != nil {
		t.Fatalf("expected notification c1: %v", err)
	}
	notification := models.NotificationFromSnapshot(snap)
	if notification.Type != models.NotificationTypeComment {
		t.Fatalf("expected comment notification, got %q", notification.Type)
	}
	if notification.Recipient != "alice" || notification.Sender != "bob" {
		t.Fatalf("unexpected recipient/sender: %+v", notification)
	}
}

func TestCommentCreatedToleratesMissingScream(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)

	if err := eng.CommentCreated(ctx, commentEvent("c1", "gone", "bob")); err != nil {
		t.Fatalf("orphaned comment must be benign, got %v", err)
	}
	if _, err := mem.Get(ctx, models.ColNotifications, "c1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected no notification, got %v", err)
	}
}

func TestCommentCreatedSelfNotificationPolicy(t *testing.T) {
	ctx := context.Background()

	// default policy: the author is notified about their own comment
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)
	seedScream(t, mem, "p1", "alice")
	if err := eng.CommentCreated(ctx, commentEvent("c1", "p1", "alice")); err != nil {
		t.Fatalf("reaction failed: %v", err)
	}
	if _, err := mem.Get(ctx, models.ColNotifications, "c1"); err != nil {
		t.Fatalf("default policy must notify own comments, got %v", err)
	}

	// suppression enabled: no notification for own comments
	mem = store.NewMemoryStore()
	eng = New(Config{Store: mem, Clock: fixedClock, SuppressSelfComment: true})
	seedScream(t, mem, "p1", "alice")
	if err := eng.CommentCreated(ctx, commentEvent("c2", "p1", "alice")); err != nil {
		t.Fatalf("reaction failed: %v", err)
	}
	if _, err := mem.Get(ctx, models.ColNotifications, "c2"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("suppression policy must skip own comments, got %v", err)
	}
}

func TestUserImageChangePropagatesToAuthorScreams(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)

	seed := func(id, handle, image string) {
		scream := models.Scream{UserHandle: handle, UserImage: image, CreatedAt: "2021-01-01T00:00:00Z"}
		if err := mem.Set(ctx, models.ColScreams, id, scream.Doc()); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	seed("p1", "alice", "a.png")
	seed("p2", "alice", "a.png")
	seed("p3", "bob", "b.png")

	event := events.Event{
		Collection: models.ColUsers,
		Kind:       events.KindUpdated,
		ID:         "alice",
		Before:     store.Document{"handle": "alice", "imageURL": "a.png"},
		After:      store.Document{"handle": "alice", "imageURL": "new.png"},
	}
	if err := eng.UserUpdated(ctx, event); err != nil {
		t.Fatalf("reaction failed: %v", err)
	}

	for _, id := range []string{"p1", "p2"} {
		snap, err := mem.Get(ctx, models.ColScreams, id)
		if err != nil {
			t.Fatalf("get %s failed: %v", id, err)
		}
		if got := store.AsString(snap.Data["userImage"]); got != "new.png" {
			t.Fatalf("scream %s not updated, userImage=%q", id, got)
		}
	}

	snap, err := mem.Get(ctx, models.ColScreams, "p3")
	if err != nil {
		t.Fatalf("get p3 failed: %v", err)
	}
	if got := store.AsString(snap.Data["userImage"]); got != "b.png" {
		t.Fatalf("other author's scream must stay untouched, userImage=%q", got)
	}
}

func TestUserImageUnchangedIsNoOp(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)
	seedScream(t, mem, "p1", "alice")

	event := events.Event{
		Collection: models.ColUsers,
		Kind:       events.KindUpdated,
		ID:         "alice",
		Before:     store.Document{"handle": "alice", "imageURL": "a.png", "bio": "old"},
		After:      store.Document{"handle": "alice", "imageURL": "a.png", "bio": "new"},
	}
	if err := eng.UserUpdated(ctx, event); err != nil {
		t.Fatalf("reaction failed: %v", err)
	}
}

func TestUserImageChangeWithNoScreamsIsNoOp(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)

	event := events.Event{
		Collection: models.ColUsers,
		Kind:       events.KindUpdated,
		ID:         "alice",
		Before:     store.Document{"handle": "alice", "imageURL": "a.png"},
		After:      store.Document{"handle": "alice", "imageURL": "b.png"},
	}
	if err := eng.UserUpdated(ctx, event); err != nil {
		t.Fatalf("empty fan-out must succeed, got %v", err)
	}
}

func TestScreamDeletedCascadesAllDependents(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)

	mustSet := func(collection, id string, doc store.Document) {
		if err := mem.Set(ctx, collection, id, doc); err != nil {
			t.Fatalf("seed %s/%s failed: %v", collection, id, err)
		}
	}
	mustSet(models.ColComments, "c1", store.Document{"screamId": "p1"})
	mustSet(models.ColComments, "c2", store.Document{"screamId": "p1"})
	mustSet(models.ColLikes, "l1", store.Document{"screamId": "p1"})
	mustSet(models.ColNotifications, "n1", store.Document{"screamId": "p1"})
	// dependents of another scream must survive
	mustSet(models.ColComments, "other", store.Document{"screamId": "p2"})
	mustSet(models.ColLikes, "otherLike", store.Document{"screamId": "p2"})

	event := events.Event{Collection: models.ColScreams, Kind: events.KindDeleted, ID: "p1"}
	if err := eng.ScreamDeleted(ctx, event); err != nil {
		t.Fatalf("cascade failed: %v", err)
	}

	for _, target := range []struct{ collection, id string }{
		{models.ColComments, "c1"},
		{models.ColComments, "c2"},
		{models.ColLikes, "l1"},
		{models.ColNotifications, "n1"},
	} {
		if _, err := mem.Get(ctx, target.collection, target.id); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected %s/%s removed, got %v", target.collection, target.id, err)
		}
	}
	if _, err := mem.Get(ctx, models.ColComments, "other"); err != nil {
		t.Fatalf("unrelated comment must survive: %v", err)
	}
	if _, err := mem.Get(ctx, models.ColLikes, "otherLike"); err != nil {
		t.Fatalf("unrelated like must survive: %v", err)
	}
}

func TestScreamDeletedWithNoDependentsIsNoOp(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)

	event := events.Event{Collection: models.ColScreams, Kind: events.KindDeleted, ID: "p1"}
	if err := eng.ScreamDeleted(ctx, event); err != nil {
		t.Fatalf("empty cascade must succeed, got %v", err)
	}
}

// failingStore fails every query against one collection, simulating a store
// outage mid-cascade.
type failingStore struct {
	store.Store
	failCollection string
}

func (f *failingStore) Query(ctx context.Context, collection, field string, value any) ([]store.Snapshot, error) {
	if collection == f.failCollection {
		return nil, errors.New("store unavailable")
	}
	return f.Store.Query(ctx, collection, field, value)
}

func TestScreamDeletedAbortsWhollyOnLookupFailure(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, &failingStore{Store: mem, failCollection: models.ColLikes})

	mustSet := func(collection, id string, doc store.Document) {
		if err := mem.Set(ctx, collection, id, doc); err != nil {
			t.Fatalf("seed %s/%s failed: %v", collection, id, err)
		}
	}
	mustSet(models.ColComments, "c1", store.Document{"screamId": "p1"})
	mustSet(models.ColLikes, "l1", store.Document{"screamId": "p1"})
	mustSet(models.ColNotifications, "n1", store.Document{"screamId": "p1"})

	event := events.Event{Collection: models.ColScreams, Kind: events.KindDeleted, ID: "p1"}
	if err := eng.ScreamDeleted(ctx, event); err == nil {
		t.Fatal("expected cascade to fail when a lookup fails")
	}

	// no partial batch: every dependent document must still exist
	for _, target := range []struct{ collection, id string }{
		{models.ColComments, "c1"},
		{models.ColLikes, "l1"},
		{models.ColNotifications, "n1"},
	} {
		if _, err := mem.Get(ctx, target.collection, target.id); err != nil {
			t.Fatalf("aborted cascade must delete nothing, %s/%s gone: %v", target.collection, target.id, err)
		}
	}
}

func TestRegisterWiresReactionsToBus(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	eng := newTestEngine(t, mem)
	bus := events.NewInProcBus()
	if err := eng.Register(bus); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	seedScream(t, mem, "p1", "alice")

	if err := bus.Publish(ctx, likeEvent("l1", "p1", "bob")); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if _, err := mem.Get(ctx, models.ColNotifications, "l1"); err != nil {
		t.Fatalf("expected notification after published like event: %v", err)
	}

	if err := bus.Publish(ctx, events.Event{Collection: models.ColLikes, Kind: events.KindDeleted, ID: "l1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if _, err := mem.Get(ctx, models.ColNotifications, "l1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected notification removed after published unlike event, got %v", err)
	}
}
