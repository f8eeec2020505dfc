package repositories

import (
	"context"
	"sort"

	"github.com/machele-codez/socialape-api/internal/models"
	"github.com/machele-codez/socialape-api/internal/store"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	GetByRecipient(ctx context.Context, handle string) ([]models.Notification, error)
	MarkRead(ctx context.Context, ids []string) error
}

// StoreNotificationRepository implements NotificationRepository over a
// document store
type StoreNotificationRepository struct {
	store store.Store
}

// NewStoreNotificationRepository creates a new StoreNotificationRepository
func NewStoreNotificationRepository(s store.Store) *StoreNotificationRepository {
	return &StoreNotificationRepository{store: s}
}

// GetByRecipient retrieves a user's notifications, newest first
func (r *StoreNotificationRepository) GetByRecipient(ctx context.Context, handle string) ([]models.Notification, error) {
	snaps, err := r.store.Query(ctx, models.ColNotifications, "recipient", handle)
	if err != nil {
		return nil, err
	}
	notifications := make([]models.Notification, 0, len(snaps))
	for _, snap := range snaps {
		notifications = append(notifications, models.NotificationFromSnapshot(snap))
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt > notifications[j].CreatedAt
	})
	return notifications, nil
}

// MarkRead marks the given notifications as read in one atomic batch
func (r *StoreNotificationRepository) MarkRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	batch := r.store.Batch()
	for _, id := range ids {
		batch.Update(models.ColNotifications, id, store.Document{"read": true})
	}
	return batch.Commit(ctx)
}
