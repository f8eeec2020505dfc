package engine

import (
	"context"
	"fmt"

	"github.com/machele-codez/socialape-api/internal/models"
	"github.com/machele-codez/socialape-api/internal/store"
	"go.uber.org/zap"
)

// ReconcileReport summarizes one reconciliation run.
type ReconcileReport struct {
	ScreamsChecked  int `json:"screamsChecked"`
	ScreamsRepaired int `json:"screamsRepaired"`
}

// Reconcile recomputes likeCount and commentCount for every scream from the
// likes and comments collections and patches the screams that drifted. The
// incremental counter maintenance carries no transactional guarantee, so
// drift is possible; this is the maintenance operation that repairs it.
func (e *Engine) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	screams, err := e.store.All(ctx, models.ColScreams)
	if err != nil {
		return report, fmt.Errorf("list screams: %w", err)
	}

	for _, snap := range screams {
		report.ScreamsChecked++

		likes, err := e.store.Query(ctx, models.ColLikes, "screamId", snap.ID)
		if err != nil {
			return report, fmt.Errorf("count likes of %s: %w", snap.ID, err)
		}
		comments, err := e.store.Query(ctx, models.ColComments, "screamId", snap.ID)
		if err != nil {
			return report, fmt.Errorf("count comments of %s: %w", snap.ID, err)
		}

		likeCount := int64(len(likes))
		commentCount := int64(len(comments))
		scream := models.ScreamFromSnapshot(snap)
		if scream.LikeCount == likeCount && scream.CommentCount == commentCount {
			continue
		}

		err = e.store.Update(ctx, models.ColScreams, snap.ID, store.Document{
			"likeCount":    likeCount,
			"commentCount": commentCount,
		})
		if err != nil {
			return report, fmt.Errorf("repair counts of %s: %w", snap.ID, err)
		}
		report.ScreamsRepaired++

		e.logger.Info("repaired scream counters",
			zap.String("screamId", snap.ID),
			zap.Int64("likeCount", likeCount),
			zap.Int64("commentCount", commentCount))
	}
	return report, nil
}
