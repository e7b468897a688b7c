// Package remote implements the paid tier: a cache of one scope's rows kept
// in step with a remote row store and a realtime change feed.
//
// The store is authoritative. Most mutations persist and then refetch the
// scope; realtime events are merged into the cache as they arrive. Edits
// are applied to the cache first with models.StatusPending and rolled back
// to the prior content, flagged models.StatusFailed, when the store rejects
// them. Concurrent writers are resolved last-write-wins.
package remote

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Spielbergo/clipifyit-sub000/internal/client/realtime"
	"github.com/Spielbergo/clipifyit-sub000/internal/client/repositories/rows"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
	"github.com/Spielbergo/clipifyit-sub000/internal/common"
	"github.com/Spielbergo/clipifyit-sub000/internal/logging"
)

// Engine is the paid-tier sync engine. It is safe for concurrent use;
// realtime events are applied under the same lock as user operations.
type Engine struct {
	store rows.Repository
	sub   realtime.Subscriber
	log   logging.Logger
	caps  *Capabilities

	mu          sync.Mutex
	scope       models.Scope
	gen         uint64
	rows        []models.Row
	unsubscribe func()
	onChange    func()
	closed      bool
}

// NewEngine builds an engine with no active scope. sub may be nil, in which
// case the cache only changes through local operations and refetches.
func NewEngine(store rows.Repository, sub realtime.Subscriber, log logging.Logger) *Engine {
	return &Engine{store: store, sub: sub, log: log, caps: NewCapabilities()}
}

// OnChange registers fn to run after a realtime event changed the cache. It
// is called without the engine lock held.
func (e *Engine) OnChange(fn func()) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

func (e *Engine) Capabilities() *Capabilities { return e.caps }

func (e *Engine) Scope() models.Scope {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scope
}

// SetScope switches the active scope: it drops the previous subscription,
// subscribes to the new scope and refetches it. A failed subscription is
// logged and the scope still loads.
func (e *Engine) SetScope(ctx context.Context, scope models.Scope) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return common.ErrClosed
	}
	prev := e.unsubscribe
	e.unsubscribe = nil
	e.scope = scope
	e.gen++
	gen := e.gen
	e.rows = nil
	e.mu.Unlock()

	if prev != nil {
		prev()
	}

	if e.sub != nil {
		unsubscribe, err := e.sub.Subscribe(ctx, scope, func(ev models.Event) { e.apply(gen, ev) })
		if err != nil {
			e.log.Error(ctx, "realtime subscription failed", "scope", scope.String(), "error", err)
		} else {
			e.mu.Lock()
			stale := e.closed || e.gen != gen
			if !stale {
				e.unsubscribe = unsubscribe
			}
			e.mu.Unlock()
			if stale {
				unsubscribe()
			}
		}
	}

	return e.Refetch(ctx)
}

// Refetch replaces the cache with the store's rows for the active scope.
func (e *Engine) Refetch(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return common.ErrClosed
	}
	scope, gen := e.scope, e.gen
	e.mu.Unlock()

	fetched, err := e.store.Select(ctx, rows.ScopeFilter(scope))
	if err != nil {
		e.log.Error(ctx, "refetch failed", "scope", scope.String(), "error", err)
		return fmt.Errorf("refetch %s: %w", scope, err)
	}
	SortByOrderDesc(fetched)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.gen != gen {
		return nil
	}
	e.rows = fetched
	return nil
}

// Add inserts text at the top of the active scope. Text already cached in
// the scope is rejected with common.ErrDuplicateEntry.
func (e *Engine) Add(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return common.ErrEmptyText
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return common.ErrClosed
	}
	if slices.ContainsFunc(e.rows, func(r models.Row) bool { return r.Text == text }) {
		e.mu.Unlock()
		return common.ErrDuplicateEntry
	}
	row := models.Row{
		ID:        uuid.NewString(),
		ProjectID: e.scope.ProjectID,
		FolderID:  e.scope.FolderID,
		Text:      text,
		Order:     MaxOrder(e.rows) + 1,
		Status:    models.StatusPending,
	}
	row = row.Clone()
	e.rows = slices.Insert(e.rows, 0, row)
	e.mu.Unlock()

	stored, err := e.store.Insert(ctx, row)
	if err != nil {
		e.log.Error(ctx, "add failed", "error", err)
		e.withLock(func() { e.rows = dropID(e.rows, row.ID) })
		return fmt.Errorf("add: %w", err)
	}
	e.withLock(func() {
		if i := indexID(e.rows, row.ID); i >= 0 {
			e.rows[i] = stored
		}
	})
	e.resync(ctx)
	return nil
}

// Remove deletes one row by key and drops it from the cache without a
// refetch. A key not in the cache is a no-op.
func (e *Engine) Remove(ctx context.Context, key models.Key) error {
	ids, err := e.resolve([]models.Key{key})
	if err != nil || len(ids) == 0 {
		return err
	}
	if err := e.store.Delete(ctx, ids[0]); err != nil {
		e.log.Error(ctx, "remove failed", "id", ids[0], "error", err)
		return fmt.Errorf("remove: %w", err)
	}
	e.withLock(func() { e.rows = dropID(e.rows, ids[0]) })
	return nil
}

// BulkDelete deletes all cached rows with the given keys in one store call
// and refetches. Stale keys are skipped.
func (e *Engine) BulkDelete(ctx context.Context, keys []models.Key) error {
	ids, err := e.resolve(keys)
	if err != nil || len(ids) == 0 {
		return err
	}

	if err := e.store.Delete(ctx, ids...); err != nil {
		e.log.Error(ctx, "delete failed", "count", len(ids), "error", err)
		return fmt.Errorf("delete: %w", err)
	}
	e.withLock(func() {
		e.rows = slices.DeleteFunc(e.rows, func(r models.Row) bool { return slices.Contains(ids, r.ID) })
	})
	e.resync(ctx)
	return nil
}

// resync refetches after a write the store already accepted. The cache
// holds the write either way, so a failed refetch only leaves the view
// stale until the next refresh or realtime event.
func (e *Engine) resync(ctx context.Context) {
	if err := e.Refetch(ctx); err != nil && !errors.Is(err, common.ErrClosed) {
		e.log.Warn(ctx, "view may be stale until the next refresh", "error", err)
	}
}

// Edit updates a row's text and any label fields set in edit. Label columns
// the backend lacks are disabled on first failure and skipped afterwards.
func (e *Engine) Edit(ctx context.Context, key models.Key, edit models.Edit) error {
	if strings.TrimSpace(edit.Text) == "" {
		return common.ErrEmptyText
	}
	patch := e.caps.Strip(models.Patch{
		Text:       &edit.Text,
		Name:       edit.Name,
		LabelColor: edit.LabelColor,
		Completed:  edit.Completed,
	})

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return common.ErrClosed
	}
	i := indexKey(e.rows, key)
	if i < 0 {
		e.mu.Unlock()
		return fmt.Errorf("row %s: %w", key, common.ErrorNotFound)
	}
	prior := e.rows[i]
	pending := patch.Apply(prior)
	pending.Status = models.StatusPending
	e.rows[i] = pending
	e.mu.Unlock()

	applied, err := e.update(ctx, prior.ID, patch)
	e.withLock(func() {
		i := indexID(e.rows, prior.ID)
		if i < 0 {
			return
		}
		if err != nil {
			failed := prior
			failed.Status = models.StatusFailed
			e.rows[i] = failed
			return
		}
		confirmed := applied.Apply(prior)
		confirmed.Order = e.rows[i].Order
		confirmed.Status = models.StatusConfirmed
		e.rows[i] = confirmed
	})
	if err != nil {
		e.log.Error(ctx, "edit failed", "id", prior.ID, "error", err)
		return fmt.Errorf("edit: %w", err)
	}
	return nil
}

// update writes patch, disabling and dropping optional columns the store
// reports missing. It returns the patch that was actually written.
func (e *Engine) update(ctx context.Context, id string, patch models.Patch) (models.Patch, error) {
	for {
		if patch.IsEmpty() {
			return patch, nil
		}
		err := e.store.Update(ctx, id, patch)
		if err == nil {
			return patch, nil
		}
		column, ok := MissingColumn(err)
		if !ok || !IsOptionalColumn(column) || !Sets(patch, column) {
			return patch, err
		}
		// another call may have disabled it first
		if e.caps.Disable(column) {
			e.log.Warn(ctx, "optional column disabled", "column", column)
		}
		patch = e.caps.Strip(patch)
	}
}

// BulkMove moves rows into dest above everything already there, keeping
// their relative order, then refetches the active scope. The rows move
// together or not at all.
func (e *Engine) BulkMove(ctx context.Context, ids []string, dest models.Scope) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return common.ErrClosed
	}
	if dest.Equal(e.scope) {
		e.mu.Unlock()
		return nil
	}
	var moving []models.Row
	for _, r := range e.rows {
		if slices.Contains(ids, r.ID) {
			moving = append(moving, r)
		}
	}
	e.mu.Unlock()
	if len(moving) == 0 {
		return nil
	}

	existing, err := e.store.Select(ctx, rows.ScopeFilter(dest))
	if err != nil {
		e.log.Error(ctx, "move failed", "dest", dest.String(), "error", err)
		return fmt.Errorf("move: read %s: %w", dest, err)
	}

	// lowest first so the top of the moved set ends up highest
	slices.SortStableFunc(moving, func(a, b models.Row) int { return cmp.Compare(a.Order, b.Order) })
	base := MaxOrder(existing)
	updates := make([]rows.Update, len(moving))
	for i, r := range moving {
		order := base + int64(i) + 1
		target := dest
		updates[i] = rows.Update{ID: r.ID, Patch: models.Patch{Order: &order, Scope: &target}}
	}
	if err := e.store.UpdateMany(ctx, updates); err != nil {
		e.log.Error(ctx, "move failed", "count", len(updates), "dest", dest.String(), "error", err)
		return fmt.Errorf("move to %s: %w", dest, err)
	}
	e.resync(ctx)
	return nil
}

// Reorder renumbers the displayed rows so the first gets the highest order,
// starting above every order in the scope, persists them in parallel and
// refetches.
func (e *Engine) Reorder(ctx context.Context, displayed []models.Key) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return common.ErrClosed
	}
	var ordered []models.Row
	for _, k := range displayed {
		i := indexKey(e.rows, k)
		if i < 0 || slices.ContainsFunc(ordered, func(r models.Row) bool { return r.ID == e.rows[i].ID }) {
			continue
		}
		ordered = append(ordered, e.rows[i])
	}
	orders := Renumber(MaxOrder(e.rows), len(ordered))
	for i, r := range ordered {
		j := indexID(e.rows, r.ID)
		e.rows[j].Order = orders[i]
		e.rows[j].Status = models.StatusPending
	}
	SortByOrderDesc(e.rows)
	e.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range ordered {
		id, order := r.ID, orders[i]
		g.Go(func() error {
			if err := e.store.Update(gctx, id, models.Patch{Order: &order}); err != nil {
				return fmt.Errorf("reorder %s: %w", id, err)
			}
			return nil
		})
	}
	persistErr := g.Wait()
	if persistErr != nil {
		e.log.Error(ctx, "reorder failed", "error", persistErr)
	}

	if err := e.Refetch(ctx); err != nil && persistErr == nil {
		return err
	}
	return persistErr
}

// Renumber returns n strictly decreasing orders, all above top.
func Renumber(top int64, n int) []int64 {
	out := make([]int64, n)
	base := top + 1
	for i := range out {
		out[i] = base + int64(n-1-i)
	}
	return out
}

// Apply merges a realtime event into the cache.
func (e *Engine) Apply(ev models.Event) {
	e.mu.Lock()
	gen := e.gen
	e.mu.Unlock()
	e.apply(gen, ev)
}

func (e *Engine) apply(gen uint64, ev models.Event) {
	e.mu.Lock()
	if e.closed || e.gen != gen {
		e.mu.Unlock()
		return
	}
	e.rows = Merge(e.rows, e.scope, ev)
	notify := e.onChange
	e.mu.Unlock()

	e.log.Debug(context.Background(), "realtime event merged", "type", ev.Type, "id", ev.Row.ID)
	if notify != nil {
		notify()
	}
}

// Rows returns a copy of the cache, highest order first.
func (e *Engine) Rows() []models.Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Row, len(e.rows))
	for i, r := range e.rows {
		out[i] = r.Clone()
	}
	return out
}

// Entries returns the cache as entries for projection.
func (e *Engine) Entries() []models.Entry {
	return models.RemoteEntries(e.Rows())
}

// Close tears down the subscription. Results of calls still in flight are
// dropped and later calls fail with common.ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	unsubscribe := e.unsubscribe
	e.unsubscribe = nil
	e.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	return nil
}

func (e *Engine) resolve(keys []models.Key) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, common.ErrClosed
	}
	var ids []string
	for _, k := range keys {
		if i := indexKey(e.rows, k); i >= 0 && !slices.Contains(ids, e.rows[i].ID) {
			ids = append(ids, e.rows[i].ID)
		}
	}
	return ids, nil
}

func (e *Engine) withLock(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	fn()
}

func indexKey(rs []models.Row, key models.Key) int {
	return slices.IndexFunc(rs, func(r models.Row) bool {
		return models.KeyOf(models.RemoteEntry{Row: r}) == key
	})
}

func indexID(rs []models.Row, id string) int {
	return slices.IndexFunc(rs, func(r models.Row) bool { return r.ID == id })
}

func dropID(rs []models.Row, id string) []models.Row {
	return slices.DeleteFunc(rs, func(r models.Row) bool { return r.ID == id })
}
