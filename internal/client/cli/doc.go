// Package cli provides the interactive Clipify command-line client.
//
// It wires configuration, the tier's store (a local SQLite file on the free
// tier, Postgres plus optional Redis sync on the pro tier), the system
// clipboard and an interactive REPL over a board.Board.
//
// Entries are addressed by their 1-based position in the current view.
// Selection, drag and bulk commands act on that same view, so the numbers
// printed by "list" are the ones the other commands accept.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
