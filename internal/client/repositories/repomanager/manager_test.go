package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/Spielbergo/clipifyit-sub000/internal/client/migrations"
	"github.com/Spielbergo/clipifyit-sub000/internal/client/repositories/kv"
	"github.com/Spielbergo/clipifyit-sub000/internal/client/repositories/rows"
)

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var _ kv.Repository = NewSQLiteRepositoryManager().KV(db)
	var _ rows.Repository = NewPostgresRepositoryManager().Rows(db)
}

func TestPostgresRunMigrations_UsesPostgresDir(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != migrations.PostgresDir {
			return errors.New("unexpected dir " + dir)
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
}

func TestPostgresRunMigrations_Error(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	err = NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
	require.EqualError(t, err, "boom")
}

func TestSQLiteRunMigrations_CreatesKVTable(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	m := NewSQLiteRepositoryManager()
	require.NoError(t, m.RunMigrations(ctx, db))
	// idempotent
	require.NoError(t, m.RunMigrations(ctx, db))

	repo := m.KV(db)
	require.NoError(t, repo.Set(ctx, "clipboardHistory", []byte(`[]`)))
	v, err := repo.Get(ctx, "clipboardHistory")
	require.NoError(t, err)
	require.Equal(t, []byte(`[]`), v)
}
