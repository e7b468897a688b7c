// Package projection derives the display order of a clipboard list from its
// stored order and the active sort mode. It never mutates its input.
package projection

import (
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
)

// Project returns entries ordered for display. The result is always a new
// slice; equal sort keys keep their relative input order.
//
// Free-tier storage is oldest-first, so newest reverses it and oldest leaves
// it as is. Paid-tier rows sort by created_at and fall back to the order
// column when any timestamp is missing. Custom keeps storage order for both
// tiers.
func Project(entries []models.Entry, mode models.SortMode, tier models.Tier) []models.Entry {
	out := slices.Clone(entries)
	if out == nil {
		out = []models.Entry{}
	}

	switch mode {
	case models.SortNewest:
		if tier == models.TierFree {
			slices.Reverse(out)
			return out
		}
		sortChronological(out, true)
	case models.SortOldest:
		if tier == models.TierFree {
			return out
		}
		sortChronological(out, false)
	case models.SortAZ:
		sortText(out, false)
	case models.SortZA:
		sortText(out, true)
	case models.SortCustom:
	}
	return out
}

func sortChronological(entries []models.Entry, desc bool) {
	byTime := true
	for _, e := range entries {
		if _, ok := validTime(e); !ok {
			byTime = false
			break
		}
	}

	slices.SortStableFunc(entries, func(a, b models.Entry) int {
		var c int
		if byTime {
			ta, _ := validTime(a)
			tb, _ := validTime(b)
			c = ta.Compare(tb)
		} else {
			c = cmp.Compare(orderOf(a), orderOf(b))
		}
		if desc {
			return -c
		}
		return c
	})
}

func sortText(entries []models.Entry, desc bool) {
	col := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(entries, func(a, b models.Entry) int {
		c := col.CompareString(models.TextOf(a), models.TextOf(b))
		if desc {
			return -c
		}
		return c
	})
}

func validTime(e models.Entry) (time.Time, bool) {
	row, ok := models.RowOf(e)
	if !ok || row.CreatedAt.IsZero() {
		return time.Time{}, false
	}
	return row.CreatedAt, true
}

func orderOf(e models.Entry) int64 {
	row, ok := models.RowOf(e)
	if !ok {
		return 0
	}
	return row.Order
}
