// Package kv is the free tier's durable storage: a small key-value table in
// a local SQLite database.
//
// The free-tier engine stores its entries array and the per-entry label maps
// as JSON values under fixed keys and rewrites them on every change. SetMany
// writes several keys in one transaction so the entries and their labels
// never disagree on disk.
//
// Typical Usage
//
//	repo := kv.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, "clipboardHistory", []byte(`["a","b"]`))
//	v, _ := repo.Get(ctx, "clipboardHistory") // nil, nil when absent
package kv
