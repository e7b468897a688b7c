// Package migrations embeds the goose migration sets for both stores:
// postgres/ for the paid tier's clipboard_items table and sqlite/ for the
// free tier's key-value table.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Directories inside Migrations.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
