package models

import "time"

// The view types below are the fixed-shape values returned to callers.
// They are built by explicit constructors from stored entities plus derived
// fields (owner email, has-upvoted flag); handlers serialize them as-is.

// UserView is the public representation of a user account. It never carries
// the password hash.
type UserView struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// NewUserView builds a UserView from a stored user.
func NewUserView(u *User) *UserView {
	return &UserView{
		ID:        u.ID,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FeedbackView is a feedback row annotated with its owner's email and
// whether the requesting caller has upvoted it.
type FeedbackView struct {
	ID         int64      `json:"id"`
	Text       string     `json:"text"`
	Upvotes    int64      `json:"upvotes"`
	UserID     int64      `json:"user_id"`
	UserEmail  string     `json:"user_email"`
	HasUpvoted bool       `json:"has_upvoted"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

// NewFeedbackView builds a FeedbackView from a stored feedback row plus the
// derived fields.
func NewFeedbackView(f *Feedback, ownerEmail string, hasUpvoted bool) *FeedbackView {
	return &FeedbackView{
		ID:         f.ID,
		Text:       f.Text,
		Upvotes:    f.Upvotes,
		UserID:     f.UserID,
		UserEmail:  ownerEmail,
		HasUpvoted: hasUpvoted,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

// UpvoteResult is the outcome of a toggle operation.
type UpvoteResult struct {
	FeedbackID int64  `json:"id"`
	Upvotes    int64  `json:"upvotes"`
	HasUpvoted bool   `json:"has_upvoted"`
	Message    string `json:"message"`
}

// ReconcileResult reports a reconciliation pass: how many feedback rows were
// checked and how many cached counters had to be overwritten.
type ReconcileResult struct {
	Checked int64 `json:"checked"`
	Fixed   int64 `json:"fixed"`
}
