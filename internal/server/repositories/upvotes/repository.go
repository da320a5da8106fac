package upvotes

import "context"

type Repository interface {
	Insert(ctx context.Context, userID, feedbackID int64) (bool, error)
	Delete(ctx context.Context, userID, feedbackID int64) (bool, error)
	Exists(ctx context.Context, feedbackID, userID int64) (bool, error)
	CountByFeedback(ctx context.Context, feedbackID int64) (int64, error)
}
