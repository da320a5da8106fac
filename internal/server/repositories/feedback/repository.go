package feedback

import (
	"context"

	"github.com/feedbackhub/feedbackhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error)
	GetByID(ctx context.Context, id int64) (*models.Feedback, error)
	GetView(ctx context.Context, id int64, callerID *int64) (*models.FeedbackView, error)
	List(ctx context.Context, callerID *int64, skip, limit int) ([]*models.FeedbackView, error)
	ListByUser(ctx context.Context, userID int64, skip, limit int) ([]*models.FeedbackView, error)
	UpdateText(ctx context.Context, id, userID int64, text string) error
	Delete(ctx context.Context, id, userID int64) error
	AdjustUpvotes(ctx context.Context, id int64, delta int) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	ReconcileCounters(ctx context.Context) (int64, error)
}
