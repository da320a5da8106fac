package repomanager

import (
	"context"
	"database/sql"

	"github.com/feedbackhub/feedbackhub/internal/dbx"
	"github.com/feedbackhub/feedbackhub/internal/server/repositories/feedback"
	"github.com/feedbackhub/feedbackhub/internal/server/repositories/upvotes"
	"github.com/feedbackhub/feedbackhub/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a specific DBTX, letting a
// service run the same repository code against *sql.DB or inside a
// transaction opened with dbx.WithTx.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Feedback(db dbx.DBTX) feedback.Repository
	Upvotes(db dbx.DBTX) upvotes.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
