// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/feedbackhub/feedbackhub/internal/dbx"
	"github.com/feedbackhub/feedbackhub/internal/server/migrations"
	"github.com/feedbackhub/feedbackhub/internal/server/repositories/feedback"
	"github.com/feedbackhub/feedbackhub/internal/server/repositories/upvotes"
	"github.com/feedbackhub/feedbackhub/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Feedback returns a feedback.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Feedback(db dbx.DBTX) feedback.Repository {
	return feedback.NewPostgresRepository(db)
}

// Upvotes returns an upvotes.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Upvotes(db dbx.DBTX) upvotes.Repository {
	return upvotes.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
