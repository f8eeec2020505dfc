package repositories

import (
	"context"
	"sort"

	"github.com/machele-codez/socialape-api/internal/models"
	"github.com/machele-codez/socialape-api/internal/store"
)

// ScreamRepository defines the interface for scream data operations
type ScreamRepository interface {
	CreateScream(ctx context.Context, scream *models.Scream) error
	GetScreamByID(ctx context.Context, id string) (*models.Scream, error)
	GetAllScreams(ctx context.Context) ([]models.Scream, error)
	GetScreamsByUserHandle(ctx context.Context, handle string) ([]models.Scream, error)
	DeleteScream(ctx context.Context, id string) error
	IncrementLikeCount(ctx context.Context, id string) error
	DecrementLikeCount(ctx context.Context, id string) error
	IncrementCommentCount(ctx context.Context, id string) error
}

// StoreScreamRepository implements ScreamRepository over a document store
type StoreScreamRepository struct {
	store store.Store
}

// NewStoreScreamRepository creates a new StoreScreamRepository
func NewStoreScreamRepository(s store.Store) *StoreScreamRepository {
	return &StoreScreamRepository{store: s}
}

func sortScreamsNewestFirst(screams []models.Scream) {
	sort.Slice(screams, func(i, j int) bool {
		// RFC3339 timestamps order lexicographically.
		return screams[i].CreatedAt > screams[j].CreatedAt
	})
}

// CreateScream stores a new scream and fills in its generated id
func (r *StoreScreamRepository) CreateScream(ctx context.Context, scream *models.Scream) error {
	id, err := r.store.Add(ctx, models.ColScreams, scream.Doc())
	if err != nil {
		return err
	}
	scream.ID = id
	return nil
}

// GetScreamByID retrieves a scream by id
func (r *StoreScreamRepository) GetScreamByID(ctx context.Context, id string) (*models.Scream, error) {
	snap, err := r.store.Get(ctx, models.ColScreams, id)
	if err != nil {
		return nil, err
	}
	scream := models.ScreamFromSnapshot(snap)
	return &scream, nil
}

// GetAllScreams retrieves every scream, newest first
func (r *StoreScreamRepository) GetAllScreams(ctx context.Context) ([]models.Scream, error) {
	snaps, err := r.store.All(ctx, models.ColScreams)
	if err != nil {
		return nil, err
	}
	screams := make([]models.Scream, 0, len(snaps))
	for _, snap := range snaps {
		screams = append(screams, models.ScreamFromSnapshot(snap))
	}
	sortScreamsNewestFirst(screams)
	return screams, nil
}

// GetScreamsByUserHandle retrieves the screams of one author, newest first
func (r *StoreScreamRepository) GetScreamsByUserHandle(ctx context.Context, handle string) ([]models.Scream, error) {
	snaps, err := r.store.Query(ctx, models.ColScreams, "userHandle", handle)
	if err != nil {
		return nil, err
	}
	screams := make([]models.Scream, 0, len(snaps))
	for _, snap := range snaps {
		screams = append(screams, models.ScreamFromSnapshot(snap))
	}
	sortScreamsNewestFirst(screams)
	return screams, nil
}

// DeleteScream deletes a scream by id
func (r *StoreScreamRepository) DeleteScream(ctx context.Context, id string) error {
	return r.store.Delete(ctx, models.ColScreams, id)
}

// IncrementLikeCount increments the denormalized like count of a scream
func (r *StoreScreamRepository) IncrementLikeCount(ctx context.Context, id string) error {
	return r.store.Increment(ctx, models.ColScreams, id, "likeCount", 1)
}

// DecrementLikeCount decrements the denormalized like count of a scream
func (r *StoreScreamRepository) DecrementLikeCount(ctx context.Context, id string) error {
	return r.store.Increment(ctx, models.ColScreams, id, "likeCount", -1)
}

// IncrementCommentCount increments the denormalized comment count of a scream
func (r *StoreScreamRepository) IncrementCommentCount(ctx context.Context, id string) error {
	return r.store.Increment(ctx, models.ColScreams, id, "commentCount", 1)
}
