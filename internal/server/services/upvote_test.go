package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/feedbackhub/feedbackhub/internal/common"
	"github.com/feedbackhub/feedbackhub/internal/server/models"
)

func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// counterFeedbackRepo keeps a single cached counter in memory so a sequence
// of toggles can be asserted end to end.
func counterFeedbackRepo(t *testing.T, initial int64) *fakeFeedbackRepo {
	t.Helper()
	counter := initial
	repo := &fakeFeedbackRepo{}
	repo.getByIDFn = func(ctx context.Context, id int64) (*models.Feedback, error) {
		return &models.Feedback{ID: id, Text: "Add dark mode", Upvotes: counter, UserID: 1}, nil
	}
	repo.adjustUpvotesFn = func(ctx context.Context, id int64, delta int) (int64, error) {
		counter += int64(delta)
		return counter, nil
	}
	return repo
}

func TestToggle_AddThenRemoveReturnsToOriginalState(t *testing.T) {
	db, mock := newTxDB(t)
	feedbackRepo := counterFeedbackRepo(t, 0)
	ledger := newMemUpvotesRepo()
	svc := NewUpvoteService(db, &fakeRepoManager{feedback: feedbackRepo, upvotes: ledger})

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	first, err := svc.Toggle(context.Background(), 5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.HasUpvoted || first.Upvotes != 1 || first.Message != MessageUpvoted {
		t.Errorf("unexpected first result: %+v", first)
	}

	second, err := svc.Toggle(context.Background(), 5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.HasUpvoted || second.Upvotes != 0 || second.Message != MessageUpvoteRemoved {
		t.Errorf("unexpected second result: %+v", second)
	}

	if len(ledger.facts) != 0 {
		t.Errorf("ledger must be empty after a double toggle, got %d facts", len(ledger.facts))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestToggle_IndependentUsersAccumulate(t *testing.T) {
	db, mock := newTxDB(t)
	feedbackRepo := counterFeedbackRepo(t, 0)
	ledger := newMemUpvotesRepo()
	svc := NewUpvoteService(db, &fakeRepoManager{feedback: feedbackRepo, upvotes: ledger})

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	if _, err := svc.Toggle(context.Background(), 5, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := svc.Toggle(context.Background(), 5, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Upvotes != 2 || !result.HasUpvoted {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestToggle_FeedbackNotFound(t *testing.T) {
	db, mock := newTxDB(t)
	repo := &fakeFeedbackRepo{
		getByIDFn: func(ctx context.Context, id int64) (*models.Feedback, error) {
			return nil, common.ErrorNotFound
		},
	}
	ledger := newMemUpvotesRepo()
	svc := NewUpvoteService(db, &fakeRepoManager{feedback: repo, upvotes: ledger})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Toggle(context.Background(), 404, 2)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Errorf("expected ErrorNotFound, got %v", err)
	}
	if len(ledger.facts) != 0 {
		t.Error("ledger must not be touched for missing feedback")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestToggle_LostInsertRaceIsNoOp(t *testing.T) {
	db, mock := newTxDB(t)
	feedbackRepo := counterFeedbackRepo(t, 7)
	ledger := newMemUpvotesRepo()
	ledger.forceConflict = true
	svc := NewUpvoteService(db, &fakeRepoManager{feedback: feedbackRepo, upvotes: ledger})

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.Toggle(context.Background(), 5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.HasUpvoted || result.Upvotes != 7 || result.Message != MessageUpvoted {
		t.Errorf("unexpected result: %+v", result)
	}
	if feedbackRepo.adjustCalls != 0 {
		t.Error("counter must not be adjusted when the insert lost the race")
	}
}

func TestToggle_CounterFailureRollsBack(t *testing.T) {
	db, mock := newTxDB(t)
	repo := counterFeedbackRepo(t, 0)
	repo.adjustUpvotesFn = func(ctx context.Context, id int64, delta int) (int64, error) {
		return 0, errors.New("counter update failed")
	}
	ledger := newMemUpvotesRepo()
	svc := NewUpvoteService(db, &fakeRepoManager{feedback: repo, upvotes: ledger})

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Toggle(context.Background(), 5, 2)
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReconcileAll(t *testing.T) {
	tests := []struct {
		name    string
		checked int64
		fixed   int64
	}{
		{"consistent counters report zero fixes", 5, 0},
		{"drifted counters report repairs", 5, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newTxDB(t)
			repo := &fakeFeedbackRepo{
				countAllFn: func(ctx context.Context) (int64, error) {
					return tc.checked, nil
				},
				reconcileCountersFn: func(ctx context.Context) (int64, error) {
					return tc.fixed, nil
				},
			}
			svc := NewUpvoteService(db, &fakeRepoManager{feedback: repo})

			mock.ExpectBegin()
			mock.ExpectCommit()

			result, err := svc.ReconcileAll(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Checked != tc.checked || result.Fixed != tc.fixed {
				t.Errorf("unexpected result: %+v", result)
			}
		})
	}
}
