package models

import "time"

// Upvote is a single ledger fact: user UserID has upvoted feedback
// FeedbackID. The (UserID, FeedbackID) pair is unique; facts are inserted
// and deleted by the toggle operation, never updated in place.
type Upvote struct {
	ID         int64
	UserID     int64
	FeedbackID int64
	CreatedAt  time.Time
}
