// Package repomanager vends the repositories for each tier and runs the
// matching goose migrations against the opened database.
package repomanager
