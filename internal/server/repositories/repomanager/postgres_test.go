package repomanager

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	m := NewPostgresRepositoryManager()
	db := newDB(t)

	assert.NotNil(t, m.Users(db))
	assert.NotNil(t, m.Feedback(db))
	assert.NotNil(t, m.Upvotes(db))

	var _ RepositoryManager = m
}

func TestRunMigrations_Success(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	var gotOpts int
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		gotOpts = len(opts)
		return nil
	}

	m := NewPostgresRepositoryManager()
	db := newDB(t)

	require.NoError(t, m.RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)
	assert.Zero(t, gotOpts)
}

func TestRunMigrations_PropagatesError(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return assert.AnError
	}

	m := NewPostgresRepositoryManager()
	db := newDB(t)

	err := m.RunMigrations(context.Background(), db)
	require.ErrorIs(t, err, assert.AnError)
}
