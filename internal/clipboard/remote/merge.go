package remote

import (
	"cmp"
	"slices"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
)

// Merge applies one realtime event to a scope's cached rows and returns the
// new cache, highest order first. The input is not modified.
//
// Inserts and updates upsert by id; a row that no longer belongs to scope is
// evicted if cached and otherwise ignored. Deletes remove by id. Applying the
// same event twice yields the same cache.
func Merge(cache []models.Row, scope models.Scope, ev models.Event) []models.Row {
	out := slices.Clone(cache)
	if ev.Row.ID == "" {
		return out
	}
	i := slices.IndexFunc(out, func(r models.Row) bool { return r.ID == ev.Row.ID })

	switch ev.Type {
	case models.EventDelete:
		if i >= 0 {
			out = slices.Delete(out, i, i+1)
		}
	case models.EventInsert, models.EventUpdate:
		if !scope.Contains(ev.Row) {
			if i >= 0 {
				out = slices.Delete(out, i, i+1)
			}
			break
		}
		row := ev.Row.Clone()
		row.Status = models.StatusConfirmed
		if i >= 0 {
			out[i] = row
		} else {
			out = slices.Insert(out, 0, row)
		}
	}

	SortByOrderDesc(out)
	return out
}

// SortByOrderDesc sorts rows highest order first, keeping the relative
// position of equal orders.
func SortByOrderDesc(rows []models.Row) {
	slices.SortStableFunc(rows, func(a, b models.Row) int {
		return cmp.Compare(b.Order, a.Order)
	})
}

// MaxOrder returns the largest order among rows, or 0 for none.
func MaxOrder(rows []models.Row) int64 {
	var top int64
	for _, r := range rows {
		if r.Order > top {
			top = r.Order
		}
	}
	return top
}
