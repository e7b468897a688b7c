package models

import (
	"strings"

	"github.com/Spielbergo/clipifyit-sub000/internal/common"
)

// SortMode selects how the list is projected for display.
type SortMode string

const (
	SortNewest SortMode = "newest"
	SortOldest SortMode = "oldest"
	SortAZ     SortMode = "az"
	SortZA     SortMode = "za"
	SortCustom SortMode = "custom"
)

// SortModes lists every mode in selector order.
var SortModes = []SortMode{SortNewest, SortOldest, SortAZ, SortZA, SortCustom}

func ParseSortMode(s string) (SortMode, error) {
	m := SortMode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortModes {
		if m == known {
			return m, nil
		}
	}
	return "", common.ErrInvalidSortMode
}
