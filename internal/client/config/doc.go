// Package config loads runtime configuration for the clipify CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-t string   tier: free or pro
//	-l string   SQLite file for the free tier
//	-d string   Postgres DSN for the pro tier
//	-r string   redis:// URL for realtime sync
//	-p string   project id
//	-f string   folder id
//	-w int      request timeout (seconds)
//	-v string   log level
//
// # JSON schema
//
//	{
//	  "tier": "pro",
//	  "database_dsn": "postgres://clipify@localhost/clipify",
//	  "redis_url": "redis://localhost:6379/0",
//	  "project_id": "default",
//	  "request_timeout": "10s"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
