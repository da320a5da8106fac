package services

import (
	"context"
	"database/sql"

	"github.com/feedbackhub/feedbackhub/internal/dbx"
	"github.com/feedbackhub/feedbackhub/internal/server/models"
	"github.com/feedbackhub/feedbackhub/internal/server/repositories/feedback"
	"github.com/feedbackhub/feedbackhub/internal/server/repositories/upvotes"
	"github.com/feedbackhub/feedbackhub/internal/server/repositories/users"
)

// fakeRepoManager vends the same fake repositories regardless of the DBTX,
// so service logic can be exercised without a database.
type fakeRepoManager struct {
	users    users.Repository
	feedback feedback.Repository
	upvotes  upvotes.Repository
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository       { return m.users }
func (m *fakeRepoManager) Feedback(db dbx.DBTX) feedback.Repository { return m.feedback }
func (m *fakeRepoManager) Upvotes(db dbx.DBTX) upvotes.Repository   { return m.upvotes }
func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

type fakeUsersRepo struct {
	createFn     func(ctx context.Context, user *models.User) (*models.User, error)
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
	getByIDFn    func(ctx context.Context, id int64) (*models.User, error)

	createCalls int
}

func (r *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.createCalls++
	return r.createFn(ctx, user)
}

func (r *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getByEmailFn(ctx, email)
}

func (r *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getByIDFn(ctx, id)
}

type fakeFeedbackRepo struct {
	createFn            func(ctx context.Context, f *models.Feedback) (*models.Feedback, error)
	getByIDFn           func(ctx context.Context, id int64) (*models.Feedback, error)
	getViewFn           func(ctx context.Context, id int64, callerID *int64) (*models.FeedbackView, error)
	listFn              func(ctx context.Context, callerID *int64, skip, limit int) ([]*models.FeedbackView, error)
	listByUserFn        func(ctx context.Context, userID int64, skip, limit int) ([]*models.FeedbackView, error)
	updateTextFn        func(ctx context.Context, id, userID int64, text string) error
	deleteFn            func(ctx context.Context, id, userID int64) error
	adjustUpvotesFn     func(ctx context.Context, id int64, delta int) (int64, error)
	countAllFn          func(ctx context.Context) (int64, error)
	reconcileCountersFn func(ctx context.Context) (int64, error)

	listCalls   int
	adjustCalls int
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	return r.createFn(ctx, f)
}

func (r *fakeFeedbackRepo) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	return r.getByIDFn(ctx, id)
}

func (r *fakeFeedbackRepo) GetView(ctx context.Context, id int64, callerID *int64) (*models.FeedbackView, error) {
	return r.getViewFn(ctx, id, callerID)
}

func (r *fakeFeedbackRepo) List(ctx context.Context, callerID *int64, skip, limit int) ([]*models.FeedbackView, error) {
	r.listCalls++
	return r.listFn(ctx, callerID, skip, limit)
}

func (r *fakeFeedbackRepo) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]*models.FeedbackView, error) {
	return r.listByUserFn(ctx, userID, skip, limit)
}

func (r *fakeFeedbackRepo) UpdateText(ctx context.Context, id, userID int64, text string) error {
	return r.updateTextFn(ctx, id, userID, text)
}

func (r *fakeFeedbackRepo) Delete(ctx context.Context, id, userID int64) error {
	return r.deleteFn(ctx, id, userID)
}

func (r *fakeFeedbackRepo) AdjustUpvotes(ctx context.Context, id int64, delta int) (int64, error) {
	r.adjustCalls++
	return r.adjustUpvotesFn(ctx, id, delta)
}

func (r *fakeFeedbackRepo) CountAll(ctx context.Context) (int64, error) {
	return r.countAllFn(ctx)
}

func (r *fakeFeedbackRepo) ReconcileCounters(ctx context.Context) (int64, error) {
	return r.reconcileCountersFn(ctx)
}

type upvoteKey struct {
	userID     int64
	feedbackID int64
}

// memUpvotesRepo is a stateful in-memory ledger. forceConflict simulates
// losing a duplicate-insert race: Insert reports no row written even though
// the fact was absent.
type memUpvotesRepo struct {
	facts         map[upvoteKey]struct{}
	forceConflict bool
}

func newMemUpvotesRepo() *memUpvotesRepo {
	return &memUpvotesRepo{facts: map[upvoteKey]struct{}{}}
}

func (r *memUpvotesRepo) Insert(ctx context.Context, userID, feedbackID int64) (bool, error) {
	if r.forceConflict {
		return false, nil
	}
	k := upvoteKey{userID, feedbackID}
	if _, ok := r.facts[k]; ok {
		return false, nil
	}
	r.facts[k] = struct{}{}
	return true, nil
}

func (r *memUpvotesRepo) Delete(ctx context.Context, userID, feedbackID int64) (bool, error) {
	k := upvoteKey{userID, feedbackID}
	if _, ok := r.facts[k]; !ok {
		return false, nil
	}
	delete(r.facts, k)
	return true, nil
}

func (r *memUpvotesRepo) Exists(ctx context.Context, feedbackID, userID int64) (bool, error) {
	_, ok := r.facts[upvoteKey{userID, feedbackID}]
	return ok, nil
}

func (r *memUpvotesRepo) CountByFeedback(ctx context.Context, feedbackID int64) (int64, error) {
	var n int64
	for k := range r.facts {
		if k.feedbackID == feedbackID {
			n++
		}
	}
	return n, nil
}
