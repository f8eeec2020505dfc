package repositories

import (
	"context"

	"github.com/machele-codez/socialape-api/internal/models"
	"github.com/machele-codez/socialape-api/internal/store"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, screamID, userHandle string) error
	GetLike(ctx context.Context, screamID, userHandle string) (*models.Like, error)
	GetLikesByUserHandle(ctx context.Context, userHandle string) ([]models.Like, error)
	HasUserLikedScream(ctx context.Context, screamID, userHandle string) (bool, error)
}

// StoreLikeRepository implements LikeRepository over a document store
type StoreLikeRepository struct {
	store store.Store
}

// NewStoreLikeRepository creates a new StoreLikeRepository
func NewStoreLikeRepository(s store.Store) *StoreLikeRepository {
	return &StoreLikeRepository{store: s}
}

// CreateLike stores a new like and fills in its generated id
func (r *StoreLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	id, err := r.store.Add(ctx, models.ColLikes, like.Doc())
	if err != nil {
		return err
	}
	like.ID = id
	return nil
}

// GetLike retrieves the like of one user on one scream
func (r *StoreLikeRepository) GetLike(ctx context.Context, screamID, userHandle string) (*models.Like, error) {
	snaps, err := r.store.Query(ctx, models.ColLikes, "screamId", screamID)
	if err != nil {
		return nil, err
	}
	for _, snap := range snaps {
		like := models.LikeFromSnapshot(snap)
		if like.UserHandle == userHandle {
			return &like, nil
		}
	}
	return nil, store.ErrNotFound
}

// DeleteLike deletes the like of one user on one scream
func (r *StoreLikeRepository) DeleteLike(ctx context.Context, screamID, userHandle string) error {
	like, err := r.GetLike(ctx, screamID, userHandle)
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, models.ColLikes, like.ID)
}

// GetLikesByUserHandle retrieves every like placed by one user
func (r *StoreLikeRepository) GetLikesByUserHandle(ctx context.Context, userHandle string) ([]models.Like, error) {
	snaps, err := r.store.Query(ctx, models.ColLikes, "userHandle", userHandle)
	if err != nil {
		return nil, err
	}
	likes := make([]models.Like, 0, len(snaps))
	for _, snap := range snaps {
		likes = append(likes, models.LikeFromSnapshot(snap))
	}
	return likes, nil
}

// HasUserLikedScream checks if a user has already liked a scream. This is a
// best-effort pre-check, not a uniqueness constraint; two rapid duplicate
// like requests can still race past it.
func (r *StoreLikeRepository) HasUserLikedScream(ctx context.Context, screamID, userHandle string) (bool, error) {
	_, err := r.GetLike(ctx, screamID, userHandle)
	if err == store.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
