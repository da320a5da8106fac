package services

import (
	"context"
	"database/sql"

	"github.com/feedbackhub/feedbackhub/internal/dbx"
	"github.com/feedbackhub/feedbackhub/internal/server/models"
	"github.com/feedbackhub/feedbackhub/internal/server/repositories/repomanager"
)

// Action messages returned by the toggle operation.
const (
	MessageUpvoted       = "Upvoted successfully"
	MessageUpvoteRemoved = "Upvote removed"
)

// UpvoteService implements the upvote toggle engine and reconciliation.
// Every toggle mutates the ledger and the cached counter inside one
// transaction; the ledger's (user_id, feedback_id) unique constraint is the
// only concurrency-correctness mechanism, no in-process locks are taken.
type UpvoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUpvoteService(db *sql.DB, m repomanager.RepositoryManager) *UpvoteService {
	return &UpvoteService{db: db, repomanager: m}
}

// Toggle adds the (user, feedback) upvote fact if absent or removes it if
// present, keeping the cached counter in step within the same transaction.
// Missing feedback reports common.ErrorNotFound without touching the ledger.
//
// A duplicate insert under a same-user race loses to the unique constraint
// and is treated as already-added: the counter is not adjusted and the
// result reports the upvoted state with the current count.
func (s *UpvoteService) Toggle(ctx context.Context, feedbackID, userID int64) (*models.UpvoteResult, error) {
	var result *models.UpvoteResult

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		feedbackRepo := s.repomanager.Feedback(tx)
		upvoteRepo := s.repomanager.Upvotes(tx)

		f, err := feedbackRepo.GetByID(ctx, feedbackID)
		if err != nil {
			return err
		}

		removed, err := upvoteRepo.Delete(ctx, userID, feedbackID)
		if err != nil {
			return err
		}
		if removed {
			count, err := feedbackRepo.AdjustUpvotes(ctx, feedbackID, -1)
			if err != nil {
				return err
			}
			result = &models.UpvoteResult{
				FeedbackID: f.ID,
				Upvotes:    count,
				HasUpvoted: false,
				Message:    MessageUpvoteRemoved,
			}
			return nil
		}

		inserted, err := upvoteRepo.Insert(ctx, userID, feedbackID)
		if err != nil {
			return err
		}
		if !inserted {
			// lost a duplicate-insert race: the fact already exists, so the
			// counter stays as-is
			result = &models.UpvoteResult{
				FeedbackID: f.ID,
				Upvotes:    f.Upvotes,
				HasUpvoted: true,
				Message:    MessageUpvoted,
			}
			return nil
		}

		count, err := feedbackRepo.AdjustUpvotes(ctx, feedbackID, 1)
		if err != nil {
			return err
		}
		result = &models.UpvoteResult{
			FeedbackID: f.ID,
			Upvotes:    count,
			HasUpvoted: true,
			Message:    MessageUpvoted,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ReconcileAll recomputes every cached counter from the ledger and
// overwrites the ones that drifted. Idempotent; reports how many rows were
// checked and how many were fixed.
func (s *UpvoteService) ReconcileAll(ctx context.Context) (*models.ReconcileResult, error) {
	var result *models.ReconcileResult

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Feedback(tx)

		checked, err := repo.CountAll(ctx)
		if err != nil {
			return err
		}

		fixed, err := repo.ReconcileCounters(ctx)
		if err != nil {
			return err
		}

		result = &models.ReconcileResult{Checked: checked, Fixed: fixed}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
