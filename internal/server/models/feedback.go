package models

import "time"

// Feedback is a single submission. Upvotes is a denormalized cache of the
// number of upvote facts referencing this row; the upvotes table is the
// source of truth and reconciliation repairs any drift.
type Feedback struct {
	ID        int64
	Text      string
	Upvotes   int64
	UserID    int64
	CreatedAt time.Time
	UpdatedAt *time.Time
}
