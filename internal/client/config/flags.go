package config

import (
	"flag"
	"os"
	"time"

	"github.com/Spielbergo/clipifyit-sub000/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-t string   tier: free or pro
//	-l string   SQLite file for the free tier
//	-d string   Postgres DSN for the pro tier
//	-r string   redis:// URL for realtime sync
//	-p string   project id
//	-f string   folder id (empty for the project root)
//	-w int      request timeout in seconds
//	-v string   log level
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-t", "-l", "-d", "-r", "-p", "-f", "-w", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Tier, "t", cfg.Tier, "tier: free or pro")
	fs.StringVar(&cfg.LocalDBPath, "l", cfg.LocalDBPath, "local database file (free tier)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN (pro tier)")
	fs.StringVar(&cfg.RedisURL, "r", cfg.RedisURL, "redis URL for realtime sync (pro tier)")
	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "project id")
	fs.StringVar(&cfg.FolderID, "f", cfg.FolderID, "folder id")
	timeout := fs.Int("w", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
