package repositories

import (
	"context"
	"sort"

	"github.com/machele-codez/socialape-api/internal/models"
	"github.com/machele-codez/socialape-api/internal/store"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByScreamID(ctx context.Context, screamID string) ([]models.Comment, error)
}

// StoreCommentRepository implements CommentRepository over a document store
type StoreCommentRepository struct {
	store store.Store
}

// NewStoreCommentRepository creates a new StoreCommentRepository
func NewStoreCommentRepository(s store.Store) *StoreCommentRepository {
	return &StoreCommentRepository{store: s}
}

// CreateComment stores a new comment and fills in its generated id
func (r *StoreCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	id, err := r.store.Add(ctx, models.ColComments, comment.Doc())
	if err != nil {
		return err
	}
	comment.ID = id
	return nil
}

// GetCommentsByScreamID retrieves all comments of a scream, oldest first
func (r *StoreCommentRepository) GetCommentsByScreamID(ctx context.Context, screamID string) ([]models.Comment, error) {
	snaps, err := r.store.Query(ctx, models.ColComments, "screamId", screamID)
	if err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0, len(snaps))
	for _, snap := range snaps {
		comments = append(comments, models.CommentFromSnapshot(snap))
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt < comments[j].CreatedAt
	})
	return comments, nil
}
