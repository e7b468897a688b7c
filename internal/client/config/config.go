package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
)

// Config holds runtime settings for the clipify CLI.
//
// Fields:
//   - Tier: "free" keeps the list in a local SQLite file, "pro" syncs rows
//     through Postgres.
//   - LocalDBPath: SQLite file for the free tier.
//   - DatabaseDSN: Postgres connection string for the pro tier.
//   - RedisURL: redis:// URL of the realtime channel; empty disables realtime.
//   - ProjectID, FolderID: initial pro-tier scope; an empty folder is the
//     project root.
//   - RequestTimeout: deadline applied to each store operation.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Tier           string
	LocalDBPath    string
	DatabaseDSN    string
	RedisURL       string
	ProjectID      string
	FolderID       string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Tier = string(models.TierFree)
	c.LocalDBPath = "clipify.db"
	c.ProjectID = "default"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// Validate checks that the settings needed by the selected tier are present.
func (c *Config) Validate() error {
	tier, err := models.ParseTier(c.Tier)
	if err != nil {
		return fmt.Errorf("tier %q: %w", c.Tier, err)
	}
	switch tier {
	case models.TierFree:
		if c.LocalDBPath == "" {
			return errors.New("free tier needs a local database path (-l)")
		}
	case models.TierPro:
		if c.DatabaseDSN == "" {
			return errors.New("pro tier needs a database DSN (-d)")
		}
		if c.ProjectID == "" {
			return errors.New("pro tier needs a project (-p)")
		}
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	return nil
}

// Scope is the initial pro-tier scope.
func (c *Config) Scope() models.Scope {
	return models.NewScope(c.ProjectID, c.FolderID)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
