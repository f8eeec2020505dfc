package repositories

import (
	"context"

	"github.com/machele-codez/socialape-api/internal/models"
	"github.com/machele-codez/socialape-api/internal/store"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByHandle(ctx context.Context, handle string) (*models.User, error)
	GetUserByUserID(ctx context.Context, userID string) (*models.User, error)
	UpdateUserDetails(ctx context.Context, handle string, fields store.Document) error
}

// StoreUserRepository implements UserRepository over a document store.
// User documents are keyed by handle.
type StoreUserRepository struct {
	store store.Store
}

// NewStoreUserRepository creates a new StoreUserRepository
func NewStoreUserRepository(s store.Store) *StoreUserRepository {
	return &StoreUserRepository{store: s}
}

// CreateUser stores a new user document under its handle
func (r *StoreUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.store.Set(ctx, models.ColUsers, user.Handle, user.Doc())
}

// GetUserByHandle retrieves a user by handle
func (r *StoreUserRepository) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	snap, err := r.store.Get(ctx, models.ColUsers, handle)
	if err != nil {
		return nil, err
	}
	user := models.UserFromSnapshot(snap)
	return &user, nil
}

// GetUserByUserID retrieves a user by the id assigned by the identity provider
func (r *StoreUserRepository) GetUserByUserID(ctx context.Context, userID string) (*models.User, error) {
	snaps, err := r.store.Query(ctx, models.ColUsers, "userId", userID)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, store.ErrNotFound
	}
	user := models.UserFromSnapshot(snaps[0])
	return &user, nil
}

// UpdateUserDetails applies a partial update to a user document
func (r *StoreUserRepository) UpdateUserDetails(ctx context.Context, handle string, fields store.Document) error {
	return r.store.Update(ctx, models.ColUsers, handle, fields)
}
