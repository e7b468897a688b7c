package config

import (
	"encoding/json"
	"os"

	"github.com/Spielbergo/clipifyit-sub000/internal/flagx"
	"github.com/Spielbergo/clipifyit-sub000/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "10s" or as integer nanoseconds.
type JsonConfig struct {
	Tier           string         `json:"tier"`
	LocalDBPath    string         `json:"local_db_path"`
	DatabaseDSN    string         `json:"database_dsn"`
	RedisURL       string         `json:"redis_url"`
	ProjectID      string         `json:"project_id"`
	FolderID       string         `json:"folder_id"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays Config with the non-empty values of the JSON file named
// by -c or -config. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.Tier, jc.Tier)
	overlay(&cfg.LocalDBPath, jc.LocalDBPath)
	overlay(&cfg.DatabaseDSN, jc.DatabaseDSN)
	overlay(&cfg.RedisURL, jc.RedisURL)
	overlay(&cfg.ProjectID, jc.ProjectID)
	overlay(&cfg.FolderID, jc.FolderID)
	overlay(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
