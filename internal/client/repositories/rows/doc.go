// Package rows is the paid tier's remote row store: clipboard_items rows
// scoped by (project, folder), each with an explicit integer order.
//
// The Repository interface is the narrow select/insert/update/delete surface
// the sync engine needs. PostgresRepository implements it over database/sql
// with the pgx driver. Updates are partial: only the fields set in a
// models.Patch reach the SET clause, so a backend missing an optional column
// only fails when that column is actually written.
package rows
