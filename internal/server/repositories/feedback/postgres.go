// Package feedback provides the PostgreSQL-backed feedback store, including
// the annotated listing queries (owner email, has-upvoted flag) and the
// cached-counter maintenance used by the upvote toggle and reconciliation.
package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/feedbackhub/feedbackhub/internal/common"
	"github.com/feedbackhub/feedbackhub/internal/dbx"
	"github.com/feedbackhub/feedbackhub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	query :=
		`INSERT INTO feedback (text, user_id)
		 VALUES ($1, $2)
		 RETURNING id, upvotes, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, f.Text, f.UserID).
		Scan(&f.ID, &f.Upvotes, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	query :=
		`SELECT id, text, upvotes, user_id, created_at, updated_at FROM feedback
		 WHERE id = $1
		 `

	f := &models.Feedback{}
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&f.ID, &f.Text, &f.Upvotes, &f.UserID, &f.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if updatedAt.Valid {
		f.UpdatedAt = &updatedAt.Time
	}

	return f, nil
}

// viewColumns selects a feedback row joined with its owner's email and an
// EXISTS probe against the upvote ledger for the caller. With a NULL caller
// the probe is never true, so anonymous requests see has_upvoted=false.
const viewColumns = `
	SELECT f.id, f.text, f.upvotes, f.user_id, u.email, f.created_at, f.updated_at,
	       EXISTS (SELECT 1 FROM upvotes up WHERE up.feedback_id = f.id AND up.user_id = $1::bigint) AS has_upvoted
	FROM feedback f
	JOIN users u ON u.id = f.user_id`

func (r *PostgresRepository) GetView(ctx context.Context, id int64, callerID *int64) (*models.FeedbackView, error) {
	query := viewColumns + `
	WHERE f.id = $2
	`

	row := r.db.QueryRowContext(ctx, query, nullableID(callerID), id)

	view, err := scanView(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return view, nil
}

// List returns feedback ordered by upvote count descending, ties broken by
// newest-first.
func (r *PostgresRepository) List(ctx context.Context, callerID *int64, skip, limit int) ([]*models.FeedbackView, error) {
	query := viewColumns + `
	ORDER BY f.upvotes DESC, f.created_at DESC
	OFFSET $2 LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, nullableID(callerID), skip, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return collectViews(rows)
}

// ListByUser returns the user's own feedback, newest-first. The caller is the
// owner, so the has-upvoted probe runs against the same user.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]*models.FeedbackView, error) {
	query := viewColumns + `
	WHERE f.user_id = $1
	ORDER BY f.created_at DESC
	OFFSET $2 LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return collectViews(rows)
}

// UpdateText replaces the text of a feedback row owned by userID. A missing
// row and a row owned by someone else are indistinguishable: both report
// common.ErrorNotFound.
func (r *PostgresRepository) UpdateText(ctx context.Context, id, userID int64, text string) error {
	query :=
		`UPDATE feedback SET text = $3, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID, text)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// Delete removes a feedback row owned by userID; its upvote facts are
// cascade-deleted by the foreign key. Same not-found collapse as UpdateText.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID int64) error {
	query :=
		`DELETE FROM feedback
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// AdjustUpvotes moves the cached counter by delta and returns the new value.
// Callers must run this in the same transaction as the ledger mutation it
// mirrors.
func (r *PostgresRepository) AdjustUpvotes(ctx context.Context, id int64, delta int) (int64, error) {
	query :=
		`UPDATE feedback SET upvotes = upvotes + $2
		 WHERE id = $1
		 RETURNING upvotes
		 `

	var upvotes int64
	err := r.db.QueryRowContext(ctx, query, id, delta).Scan(&upvotes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return upvotes, nil
}

func (r *PostgresRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM feedback`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// ReconcileCounters overwrites every cached counter that disagrees with the
// true count of ledger facts and returns the number of rows repaired. The
// ledger itself is never touched.
func (r *PostgresRepository) ReconcileCounters(ctx context.Context) (int64, error) {
	query :=
		`UPDATE feedback SET upvotes = sub.cnt
		 FROM (
		     SELECT f.id, count(up.id) AS cnt
		     FROM feedback f
		     LEFT JOIN upvotes up ON up.feedback_id = f.id
		     GROUP BY f.id
		 ) sub
		 WHERE feedback.id = sub.id AND feedback.upvotes <> sub.cnt
		 `

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}

	return n, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func scanView(scan func(dest ...any) error) (*models.FeedbackView, error) {
	view := &models.FeedbackView{}
	var updatedAt sql.NullTime

	err := scan(&view.ID, &view.Text, &view.Upvotes, &view.UserID, &view.UserEmail,
		&view.CreatedAt, &updatedAt, &view.HasUpvoted)
	if err != nil {
		return nil, err
	}

	if updatedAt.Valid {
		view.UpdatedAt = &updatedAt.Time
	}

	return view, nil
}

func collectViews(rows *sql.Rows) ([]*models.FeedbackView, error) {
	result := make([]*models.FeedbackView, 0)
	for rows.Next() {
		view, err := scanView(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
