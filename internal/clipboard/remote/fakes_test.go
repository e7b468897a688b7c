package remote

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Spielbergo/clipifyit-sub000/internal/client/repositories/rows"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
)

// fakeStore is an in-memory rows.Repository. Columns listed in missing make
// any update touching them fail like Postgres does.
type fakeStore struct {
	mu      sync.Mutex
	rows    map[string]models.Row
	missing map[string]bool
	selects int
	deletes [][]string
	patches []models.Patch

	failSelect   error
	failInsert   error
	failUpdate   error
	failDelete   error
	failUpdateID string
}

func newFakeStore(rs ...models.Row) *fakeStore {
	f := &fakeStore{rows: map[string]models.Row{}, missing: map[string]bool{}}
	for _, r := range rs {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeStore) Select(_ context.Context, flt rows.Filter) ([]models.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selects++
	if f.failSelect != nil {
		return nil, f.failSelect
	}
	var out []models.Row
	for _, r := range f.rows {
		if flt.ProjectID != "" && r.ProjectID != flt.ProjectID {
			continue
		}
		if !flt.AnyFolder && !(models.Scope{FolderID: flt.FolderID}).SameFolder(r.FolderID) {
			continue
		}
		if len(flt.IDs) > 0 && !slices.Contains(flt.IDs, r.ID) {
			continue
		}
		out = append(out, r.Clone())
	}
	slices.SortFunc(out, func(a, b models.Row) int {
		return cmp.Or(cmp.Compare(b.Order, a.Order), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}

func (f *fakeStore) Insert(_ context.Context, r models.Row) (models.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert != nil {
		return models.Row{}, f.failInsert
	}
	r.Status = models.StatusConfirmed
	f.rows[r.ID] = r.Clone()
	return r, nil
}

func (f *fakeStore) Update(_ context.Context, id string, p models.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.update(f.rows, id, p)
}

// UpdateMany applies the batch to a copy and keeps it only when every
// update succeeds.
func (f *fakeStore) UpdateMany(_ context.Context, updates []rows.Update) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	staged := maps.Clone(f.rows)
	for _, u := range updates {
		if err := f.update(staged, u.ID, u.Patch); err != nil {
			return err
		}
	}
	f.rows = staged
	return nil
}

func (f *fakeStore) update(target map[string]models.Row, id string, p models.Patch) error {
	f.patches = append(f.patches, p)
	if f.failUpdate != nil {
		return f.failUpdate
	}
	if id == f.failUpdateID {
		return fmt.Errorf("failed to update row %s: conflict", id)
	}
	for col, set := range map[string]bool{
		ColumnName:       p.Name != nil,
		ColumnLabelColor: p.LabelColor != nil,
		ColumnCompleted:  p.Completed != nil,
	} {
		if set && f.missing[col] {
			return fmt.Errorf("failed to update row %s: ERROR: column %q of relation \"clipboard_items\" does not exist (SQLSTATE 42703)", id, col)
		}
	}
	r, ok := target[id]
	if !ok {
		return errors.New("not found")
	}
	target[id] = p.Apply(r)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, ids ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, slices.Clone(ids))
	if f.failDelete != nil {
		return f.failDelete
	}
	for _, id := range ids {
		delete(f.rows, id)
	}
	return nil
}

func (f *fakeStore) row(id string) models.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id]
}

// fakeSubscriber hands the registered callback to the test.
type fakeSubscriber struct {
	mu           sync.Mutex
	scopes       []models.Scope
	fns          []func(models.Event)
	unsubscribed int
	err          error
}

func (s *fakeSubscriber) Subscribe(_ context.Context, scope models.Scope, fn func(models.Event)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.scopes = append(s.scopes, scope)
	s.fns = append(s.fns, fn)
	return func() {
		s.mu.Lock()
		s.unsubscribed++
		s.mu.Unlock()
	}, nil
}

func (s *fakeSubscriber) emit(ev models.Event) {
	s.mu.Lock()
	fn := s.fns[len(s.fns)-1]
	s.mu.Unlock()
	fn(ev)
}
