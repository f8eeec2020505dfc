// Package engine reacts to document change events and keeps the store's
// denormalized state consistent: notification records for likes and comments,
// the userImage copy on screams, and the cleanup of everything referencing a
// deleted scream.
//
// Every reaction runs as an independent invocation with no state shared
// across invocations, and every write targets a deterministic document id,
// so re-running a reaction for the same event is always safe.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/machele-codez/socialape-api/internal/events"
	"github.com/machele-codez/socialape-api/internal/models"
	"github.com/machele-codez/socialape-api/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config configures an Engine.
type Config struct {
	Store  store.Store
	Logger *zap.Logger
	// SuppressSelfComment controls whether a user commenting on their own
	// scream is notified about it. Likes never notify their own author;
	// comments do unless this is set.
	SuppressSelfComment bool
	// Clock overrides the notification timestamp source. Defaults to time.Now.
	Clock func() time.Time
}

// Engine is the counter-consistency engine.
type Engine struct {
	store               store.Store
	logger              *zap.Logger
	suppressSelfComment bool
	now                 func() time.Time
}

// New creates an Engine. The store must be the undecorated store client:
// the engine's own writes are secondary and must not re-enter the engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:               cfg.Store,
		logger:              logger,
		suppressSelfComment: cfg.SuppressSelfComment,
		now:                 now,
	}
}

// Register subscribes every reaction to its triggering event family.
func (e *Engine) Register(bus events.Bus) error {
	subscriptions := []struct {
		collection string
		kind       events.Kind
		name       string
		fn         func(context.Context, events.Event) error
	}{
		{models.ColLikes, events.KindCreated, "like_created", e.LikeCreated},
		{models.ColLikes, events.KindDeleted, "like_deleted", e.LikeDeleted},
		{models.ColComments, events.KindCreated, "comment_created", e.CommentCreated},
		{models.ColUsers, events.KindUpdated, "user_updated", e.UserUpdated},
		{models.ColScreams, events.KindDeleted, "scream_deleted", e.ScreamDeleted},
	}

	for _, sub := range subscriptions {
		if err := bus.Subscribe(sub.collection, sub.kind, e.reaction(sub.name, sub.fn)); err != nil {
			return fmt.Errorf("subscribe %s/%s: %w", sub.collection, sub.kind, err)
		}
	}
	return nil
}

// reaction adapts a reaction method to the bus handler signature. Failures
// are terminal for the invocation and logged; there is no caller to respond
// to and no retry here.
func (e *Engine) reaction(name string, fn func(context.Context, events.Event) error) events.Handler {
	return func(ctx context.Context, event events.Event) {
		if err := fn(ctx, event); err != nil {
			e.logger.Error("reaction failed",
				zap.String("reaction", name),
				zap.String("id", event.ID),
				zap.Error(err))
		}
	}
}

func (e *Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}

// LikeCreated reacts to a new like: if the liked scream exists and belongs to
// someone else, it writes a like notification whose id equals the like id.
func (e *Engine) LikeCreated(ctx context.Context, event events.Event) error {
	like := models.LikeFromSnapshot(store.Snapshot{ID: event.ID, Data: event.After})

	snap, err := e.store.Get(ctx, models.ColScreams, like.ScreamID)
	if errors.Is(err, store.ErrNotFound) {
		// The like is orphaned, possibly raced by a scream deletion.
		// The write has already committed; nothing to do.
		e.logger.Info("scream not found for like",
			zap.String("screamId", like.ScreamID),
			zap.String("likeId", like.ID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read scream %s: %w", like.ScreamID, err)
	}

	scream := models.ScreamFromSnapshot(snap)
	if scream.UserHandle == like.UserHandle {
		return nil
	}

	notification := models.Notification{
		Recipient: scream.UserHandle,
		Sender:    like.UserHandle,
		ScreamID:  snap.ID,
		Type:      models.NotificationTypeLike,
		Read:      false,
		CreatedAt: e.timestamp(),
	}
	if err := e.store.Set(ctx, models.ColNotifications, like.ID, notification.Doc()); err != nil {
		return fmt.Errorf("write like notification %s: %w", like.ID, err)
	}
	return nil
}

// LikeDeleted reacts to a removed like by deleting its notification. A
// missing notification means there is nothing to undo.
func (e *Engine) LikeDeleted(ctx context.Context, event events.Event) error {
	err := e.store.Delete(ctx, models.ColNotifications, event.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete like notification %s: %w", event.ID, err)
	}
	return nil
}

// CommentCreated reacts to a new comment: if the scream exists, it writes a
// comment notification whose id equals the comment id.
func (e *Engine) CommentCreated(ctx context.Context, event events.Event) error {
	comment := models.CommentFromSnapshot(store.Snapshot{ID: event.ID, Data: event.After})

	snap, err := e.store.Get(ctx, models.ColScreams, comment.ScreamID)
	if errors.Is(err, store.ErrNotFound) {
		e.logger.Info("scream not found for comment",
			zap.String("screamId", comment.ScreamID),
			zap.String("commentId", comment.ID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read scream %s: %w", comment.ScreamID, err)
	}

	scream := models.ScreamFromSnapshot(snap)
	if e.suppressSelfComment && scream.UserHandle == comment.UserHandle {
		return nil
	}

	notification := models.Notification{
		Recipient: scream.UserHandle,
		Sender:    comment.UserHandle,
		ScreamID:  snap.ID,
		Type:      models.NotificationTypeComment,
		Read:      false,
		CreatedAt: e.timestamp(),
	}
	if err := e.store.Set(ctx, models.ColNotifications, comment.ID, notification.Doc()); err != nil {
		return fmt.Errorf("write comment notification %s: %w", comment.ID, err)
	}
	return nil
}

// UserUpdated reacts to a user profile update. When the imageURL changed, the
// denormalized userImage on every scream of that author is rewritten in one
// atomic batch; a failed batch leaves all screams on the stale image.
func (e *Engine) UserUpdated(ctx context.Context, event events.Event) error {
	oldImage := store.AsString(event.Before["imageURL"])
	newImage := store.AsString(event.After["imageURL"])
	if oldImage == newImage {
		return nil
	}

	handle := store.AsString(event.Before["handle"])
	if handle == "" {
		handle = event.ID
	}

	screams, err := e.store.Query(ctx, models.ColScreams, "userHandle", handle)
	if err != nil {
		return fmt.Errorf("query screams of %s: %w", handle, err)
	}
	if len(screams) == 0 {
		return nil
	}

	batch := e.store.Batch()
	for _, snap := range screams {
		batch.Update(models.ColScreams, snap.ID, store.Document{"userImage": newImage})
	}
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("propagate image of %s to %d screams: %w", handle, len(screams), err)
	}

	e.logger.Info("propagated user image",
		zap.String("handle", handle),
		zap.Int("screams", len(screams)))
	return nil
}

// ScreamDeleted reacts to a deleted scream by removing every comment, like
// and notification that references it. The three lookups run concurrently;
// the batched delete runs only once all of them have resolved. If any lookup
// fails the cascade aborts before a single delete, which can leave orphans —
// an accepted gap, logged and not retried.
func (e *Engine) ScreamDeleted(ctx context.Context, event events.Event) error {
	screamID := event.ID

	var comments, likes, notifications []store.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comments, err = e.store.Query(gctx, models.ColComments, "screamId", screamID)
		return err
	})
	g.Go(func() error {
		var err error
		likes, err = e.store.Query(gctx, models.ColLikes, "screamId", screamID)
		return err
	})
	g.Go(func() error {
		var err error
		notifications, err = e.store.Query(gctx, models.ColNotifications, "screamId", screamID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("scream %s cascade aborted: %w", screamID, err)
	}

	total := len(comments) + len(likes) + len(notifications)
	if total == 0 {
		return nil
	}

	batch := e.store.Batch()
	for _, snap := range comments {
		batch.Delete(models.ColComments, snap.ID)
	}
	for _, snap := range likes {
		batch.Delete(models.ColLikes, snap.ID)
	}
	for _, snap := range notifications {
		batch.Delete(models.ColNotifications, snap.ID)
	}
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("scream %s cascade delete of %d documents: %w", screamID, total, err)
	}

	e.logger.Info("cascaded scream deletion",
		zap.String("screamId", screamID),
		zap.Int("comments", len(comments)),
		zap.Int("likes", len(likes)),
		zap.Int("notifications", len(notifications)))
	return nil
}
