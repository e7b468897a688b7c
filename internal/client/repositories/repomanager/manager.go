package repomanager

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/Spielbergo/clipifyit-sub000/internal/client/migrations"
	"github.com/Spielbergo/clipifyit-sub000/internal/client/repositories/kv"
	"github.com/Spielbergo/clipifyit-sub000/internal/client/repositories/rows"
	"github.com/Spielbergo/clipifyit-sub000/internal/dbx"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func runMigrations(ctx context.Context, db *sql.DB, fsys fs.FS, dialect, dir string) error {
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, dir)
}

// SQLiteRepositoryManager serves the free tier's local database.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

// KV returns a kv.Repository bound to db.
func (m *SQLiteRepositoryManager) KV(db *sql.DB) kv.Repository {
	return kv.NewSQLiteRepository(db)
}

// RunMigrations creates the kv table when missing.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, migrations.Migrations, "sqlite3", migrations.SQLiteDir)
}

// PostgresRepositoryManager serves the paid tier's row store.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Rows returns a rows.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Rows(db dbx.DBTX) rows.Repository {
	return rows.NewPostgresRepository(db)
}

// RunMigrations brings clipboard_items up to the latest schema.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, migrations.Migrations, "pgx", migrations.PostgresDir)
}
