// Package upvotes provides the PostgreSQL-backed upvote ledger: one row per
// (user, feedback) fact, unique per pair. The ledger is the source of truth
// for vote state; the cached counter on feedback rows is derived from it.
package upvotes

import (
	"context"
	"fmt"

	"github.com/feedbackhub/feedbackhub/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert records an upvote fact and reports whether a row was actually
// written. ON CONFLICT DO NOTHING makes a duplicate insert under a race a
// clean no-op instead of aborting the surrounding transaction: the unique
// constraint stays the final arbiter and the loser sees inserted=false.
func (r *PostgresRepository) Insert(ctx context.Context, userID, feedbackID int64) (bool, error) {
	query :=
		`INSERT INTO upvotes (user_id, feedback_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, feedback_id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, userID, feedbackID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}

	return n > 0, nil
}

// Delete removes an upvote fact and reports whether a row existed.
func (r *PostgresRepository) Delete(ctx context.Context, userID, feedbackID int64) (bool, error) {
	query :=
		`DELETE FROM upvotes
		 WHERE user_id = $1 AND feedback_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, userID, feedbackID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}

	return n > 0, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, feedbackID, userID int64) (bool, error) {
	query :=
		`SELECT EXISTS (
		     SELECT 1 FROM upvotes WHERE feedback_id = $1 AND user_id = $2
		 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, feedbackID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) CountByFeedback(ctx context.Context, feedbackID int64) (int64, error) {
	query := `SELECT count(*) FROM upvotes WHERE feedback_id = $1`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, feedbackID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
