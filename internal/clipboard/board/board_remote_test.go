package board

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spielbergo/clipifyit-sub000/internal/client/repositories/rows"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/remote"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/sortmode"
	"github.com/Spielbergo/clipifyit-sub000/internal/logging"
)

// memRows is an in-memory rows.Repository whose reads can be made to fail.
type memRows struct {
	mu         sync.Mutex
	rows       map[string]models.Row
	failSelect error
	failDelete error
}

func newMemRows(rs ...models.Row) *memRows {
	m := &memRows{rows: map[string]models.Row{}}
	for _, r := range rs {
		m.rows[r.ID] = r
	}
	return m
}

func (m *memRows) Select(_ context.Context, f rows.Filter) ([]models.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSelect != nil {
		return nil, m.failSelect
	}
	var out []models.Row
	for _, r := range m.rows {
		if f.ProjectID != "" && r.ProjectID != f.ProjectID {
			continue
		}
		if !f.AnyFolder && !(models.Scope{FolderID: f.FolderID}).SameFolder(r.FolderID) {
			continue
		}
		if len(f.IDs) > 0 && !slices.Contains(f.IDs, r.ID) {
			continue
		}
		out = append(out, r.Clone())
	}
	slices.SortFunc(out, func(a, b models.Row) int { return cmp.Compare(b.Order, a.Order) })
	return out, nil
}

func (m *memRows) Insert(_ context.Context, r models.Row) (models.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.Status = models.StatusConfirmed
	m.rows[r.ID] = r.Clone()
	return r, nil
}

func (m *memRows) Update(_ context.Context, id string, p models.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id] = p.Apply(m.rows[id])
	return nil
}

func (m *memRows) UpdateMany(ctx context.Context, updates []rows.Update) error {
	for _, u := range updates {
		if err := m.Update(ctx, u.ID, u.Patch); err != nil {
			return err
		}
	}
	return nil
}

func (m *memRows) Delete(_ context.Context, ids ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete != nil {
		return m.failDelete
	}
	for _, id := range ids {
		delete(m.rows, id)
	}
	return nil
}

func remoteBoard(t *testing.T, store *memRows) *Board {
	t.Helper()
	e := remote.NewEngine(store, nil, logging.Discard())
	t.Cleanup(func() { _ = e.Close() })
	b := New(e, sortmode.NewStore(models.SortNewest))
	require.NoError(t, b.SetScope(context.Background(), models.NewScope("p1", "")))
	return b
}

func TestRemote_BulkDeletePrunesSelectionWhenRefetchFails(t *testing.T) {
	store := newMemRows(
		models.Row{ID: "1", ProjectID: "p1", Text: "a", Order: 1},
		models.Row{ID: "2", ProjectID: "p1", Text: "b", Order: 2},
	)
	b := remoteBoard(t, store)
	b.SelectAll()
	store.failSelect = errors.New("network blip")

	n, err := b.BulkDeleteSelected(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, b.View())
	assert.Zero(t, b.Selection.Len())
}

func TestRemote_BulkDeleteFailureKeepsLiveSelection(t *testing.T) {
	store := newMemRows(models.Row{ID: "1", ProjectID: "p1", Text: "a", Order: 1})
	b := remoteBoard(t, store)
	b.SelectAll()
	store.failDelete = errors.New("denied")

	_, err := b.BulkDeleteSelected(context.Background())
	require.Error(t, err)
	assert.Equal(t, []models.Key{"1"}, b.Selected())
}

func TestRemote_AddSwitchesToCustomWhenRefetchFails(t *testing.T) {
	store := newMemRows(models.Row{ID: "1", ProjectID: "p1", Text: "a", Order: 1})
	b := remoteBoard(t, store)
	store.failSelect = errors.New("network blip")

	require.NoError(t, b.Add(context.Background(), "new"))
	assert.Equal(t, models.SortCustom, b.Modes.Mode())
	assert.Equal(t, "new", models.TextOf(b.View()[0]))
	assert.Len(t, store.rows, 2)
}

func TestRemote_ShiftClickAfterRealtimeInsertKeepsAnchor(t *testing.T) {
	store := newMemRows(
		models.Row{ID: "1", ProjectID: "p1", Text: "a", Order: 1},
		models.Row{ID: "2", ProjectID: "p1", Text: "b", Order: 2},
		models.Row{ID: "3", ProjectID: "p1", Text: "c", Order: 3},
	)
	b := remoteBoard(t, store)
	require.NoError(t, b.SetSortMode(models.SortCustom))

	b.Click(0, false, true) // "3"
	e := b.engine.(*remote.Engine)
	e.Apply(models.Event{Type: models.EventInsert, Row: models.Row{ID: "9", ProjectID: "p1", Text: "z", Order: 9}})

	// view is now 9, 3, 2, 1
	b.Click(2, true, true)
	assert.Equal(t, []models.Key{"3", "2"}, b.Selected())
}
