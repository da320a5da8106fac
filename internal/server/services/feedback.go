package services

import (
	"context"
	"database/sql"

	"github.com/feedbackhub/feedbackhub/internal/server/config"
	"github.com/feedbackhub/feedbackhub/internal/server/models"
	"github.com/feedbackhub/feedbackhub/internal/server/repositories/repomanager"
	"github.com/feedbackhub/feedbackhub/internal/server/validation"
)

// FeedbackService implements the feedback CRUD operations and the ranked
// listing. Ownership checks are collapsed into not-found: a caller can never
// learn whether a row exists if they cannot touch it.
type FeedbackService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	maxPageSize int
}

func NewFeedbackService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *FeedbackService {
	return &FeedbackService{
		db:          db,
		repomanager: m,
		maxPageSize: cfg.MaxPageSize,
	}
}

// Create stores a new feedback entry owned by user and returns its view.
// A fresh entry has no upvotes, so has_upvoted is always false.
func (s *FeedbackService) Create(ctx context.Context, user *models.User, text string) (*models.FeedbackView, error) {
	if err := validation.ValidateFeedbackText(text); err != nil {
		return nil, err
	}

	repo := s.repomanager.Feedback(s.db)
	f, err := repo.Create(ctx, &models.Feedback{Text: text, UserID: user.ID})
	if err != nil {
		return nil, err
	}

	return models.NewFeedbackView(f, user.Email, false), nil
}

// List returns feedback ordered by upvotes descending, ties newest-first,
// annotated for the optional caller.
func (s *FeedbackService) List(ctx context.Context, callerID *int64, skip, limit int) ([]*models.FeedbackView, error) {
	if err := validation.ValidatePagination(skip, limit, s.maxPageSize); err != nil {
		return nil, err
	}

	repo := s.repomanager.Feedback(s.db)
	return repo.List(ctx, callerID, skip, limit)
}

// ListOwn returns the caller's own feedback, newest-first.
func (s *FeedbackService) ListOwn(ctx context.Context, userID int64, skip, limit int) ([]*models.FeedbackView, error) {
	if err := validation.ValidatePagination(skip, limit, s.maxPageSize); err != nil {
		return nil, err
	}

	repo := s.repomanager.Feedback(s.db)
	return repo.ListByUser(ctx, userID, skip, limit)
}

// Get returns a single feedback view annotated for the optional caller.
func (s *FeedbackService) Get(ctx context.Context, id int64, callerID *int64) (*models.FeedbackView, error) {
	repo := s.repomanager.Feedback(s.db)
	return repo.GetView(ctx, id, callerID)
}

// Update replaces the text of the caller's own feedback and returns the
// refreshed view. Missing row and foreign row both report not-found.
func (s *FeedbackService) Update(ctx context.Context, id, userID int64, text string) (*models.FeedbackView, error) {
	if err := validation.ValidateFeedbackText(text); err != nil {
		return nil, err
	}

	repo := s.repomanager.Feedback(s.db)
	if err := repo.UpdateText(ctx, id, userID, text); err != nil {
		return nil, err
	}

	return repo.GetView(ctx, id, &userID)
}

// Delete removes the caller's own feedback; its ledger facts are
// cascade-deleted by the schema.
func (s *FeedbackService) Delete(ctx context.Context, id, userID int64) error {
	repo := s.repomanager.Feedback(s.db)
	return repo.Delete(ctx, id, userID)
}
