// Package selection tracks which clipboard entries are checked. Selection is
// held by stable key so it survives re-sorting; ranges are resolved against
// the currently displayed order.
package selection

import (
	"slices"
	"sync"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
)

// Tracker is a set of selected keys plus the shift-click anchor. The
// anchor is held by key, so it follows its row when the view re-sorts.
// It is safe for concurrent use.
type Tracker struct {
	mu        sync.RWMutex
	keys      map[models.Key]struct{}
	anchor    models.Key
	hasAnchor bool
}

func NewTracker() *Tracker {
	return &Tracker{keys: make(map[models.Key]struct{})}
}

// Toggle adds or removes a single key.
func (t *Tracker) Toggle(key models.Key, checked bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.set(key, checked)
}

// ToggleRange applies checked to every key between from and to (inclusive,
// in either direction) of the displayed view. Indices are clamped.
func (t *Tracker) ToggleRange(from, to int, checked bool, view []models.Key) {
	if len(view) == 0 {
		return
	}
	if from > to {
		from, to = to, from
	}
	from = max(from, 0)
	to = min(to, len(view)-1)

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := from; i <= to; i++ {
		t.set(view[i], checked)
	}
}

// Click handles a checkbox click on row index of view. With shift held and
// the anchor present in view, the range from the anchor is applied;
// otherwise only the row toggles and becomes the new anchor. A shift-click
// keeps the anchor.
func (t *Tracker) Click(index int, view []models.Key, shift, checked bool) {
	if index < 0 || index >= len(view) {
		return
	}

	t.mu.Lock()
	anchor := -1
	if t.hasAnchor {
		anchor = slices.Index(view, t.anchor)
	}
	if !shift || anchor < 0 {
		t.set(view[index], checked)
		t.anchor, t.hasAnchor = view[index], true
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.ToggleRange(anchor, index, checked, view)
}

// SelectAll selects every key of the displayed view.
func (t *Tracker) SelectAll(view []models.Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, k := range view {
		t.keys[k] = struct{}{}
	}
}

// DeselectAll clears the selection and the anchor.
func (t *Tracker) DeselectAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.keys)
	t.anchor, t.hasAnchor = "", false
}

// Prune drops keys that no longer exist.
func (t *Tracker) Prune(keys ...models.Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, k := range keys {
		delete(t.keys, k)
	}
}

// Retain keeps only keys present in view, for scope changes and realtime
// deletes. The anchor survives while its row is still in view.
func (t *Tracker) Retain(view []models.Key) {
	present := make(map[models.Key]struct{}, len(view))
	for _, k := range view {
		present[k] = struct{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.keys {
		if _, ok := present[k]; !ok {
			delete(t.keys, k)
		}
	}
	if _, ok := present[t.anchor]; !ok {
		t.anchor, t.hasAnchor = "", false
	}
}

func (t *Tracker) Has(key models.Key) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.keys[key]
	return ok
}

func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.keys)
}

// Anchor returns the index in view of the last plain-clicked row, or -1.
func (t *Tracker) Anchor(view []models.Key) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.hasAnchor {
		return -1
	}
	return slices.Index(view, t.anchor)
}

// Selected returns the selected keys in view order. Selected keys missing
// from view are skipped.
func (t *Tracker) Selected(view []models.Key) []models.Key {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.Key, 0, len(t.keys))
	for _, k := range view {
		if _, ok := t.keys[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Keys returns every selected key, sorted.
func (t *Tracker) Keys() []models.Key {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.Key, 0, len(t.keys))
	for k := range t.keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (t *Tracker) set(key models.Key, checked bool) {
	if checked {
		t.keys[key] = struct{}{}
		return
	}
	delete(t.keys, key)
}
