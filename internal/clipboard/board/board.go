// Package board is the list controller: it owns one tier's engine together
// with the selection, the sort mode and the drag coordinator, and keeps the
// selection consistent with what is displayed after every change.
package board

import (
	"context"
	"errors"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/drag"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/projection"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/selection"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/sortmode"
)

// Engine is the mutation surface both tiers implement.
type Engine interface {
	Entries() []models.Entry
	Add(ctx context.Context, text string) error
	Remove(ctx context.Context, key models.Key) error
	Edit(ctx context.Context, key models.Key, edit models.Edit) error
	Reorder(ctx context.Context, displayed []models.Key) error
	BulkDelete(ctx context.Context, keys []models.Key) error
}

// ScopedEngine is the paid-tier extension.
type ScopedEngine interface {
	Engine
	drag.Mover
	Scope() models.Scope
	SetScope(ctx context.Context, scope models.Scope) error
	Refetch(ctx context.Context) error
	OnChange(fn func())
}

// ErrNotScoped is returned by scope operations on the free tier.
var ErrNotScoped = errors.New("scopes require the pro tier")

type Board struct {
	engine Engine
	scoped ScopedEngine
	tier   models.Tier

	Selection *selection.Tracker
	Modes     *sortmode.Store
	Drag      *drag.Coordinator
}

// New builds a board over engine. When engine is a ScopedEngine the board
// runs the pro tier and prunes the selection after every realtime change.
func New(engine Engine, modes *sortmode.Store) *Board {
	b := &Board{
		engine:    engine,
		tier:      models.TierFree,
		Selection: selection.NewTracker(),
		Modes:     modes,
	}
	var mover drag.Mover
	if scoped, ok := engine.(ScopedEngine); ok {
		b.scoped = scoped
		b.tier = models.TierPro
		mover = scoped
		scoped.OnChange(b.retain)
	}
	b.Drag = drag.NewCoordinator(engine, mover, modes)
	return b
}

func (b *Board) Tier() models.Tier { return b.tier }

// View is the displayed list under the active sort mode.
func (b *Board) View() []models.Entry {
	return projection.Project(b.engine.Entries(), b.Modes.Mode(), b.tier)
}

func (b *Board) keys() []models.Key {
	return models.KeysOf(b.View())
}

// Entry returns the displayed entry at index.
func (b *Board) Entry(index int) (models.Entry, bool) {
	v := b.View()
	if index < 0 || index >= len(v) {
		return nil, false
	}
	return v[index], true
}

// Add stores text. On the pro tier the new row is placed on top by order,
// so the sort mode switches to custom.
func (b *Board) Add(ctx context.Context, text string) error {
	if err := b.engine.Add(ctx, text); err != nil {
		return err
	}
	if b.tier == models.TierPro {
		b.Modes.Added()
	}
	return nil
}

func (b *Board) Remove(ctx context.Context, key models.Key) error {
	if err := b.engine.Remove(ctx, key); err != nil {
		return err
	}
	b.Selection.Prune(key)
	return nil
}

// Edit changes an entry. On the free tier a text change re-keys the entry
// and its selection follows.
func (b *Board) Edit(ctx context.Context, key models.Key, edit models.Edit) error {
	if err := b.engine.Edit(ctx, key, edit); err != nil {
		return err
	}
	if b.tier == models.TierFree && models.Key(edit.Text) != key && b.Selection.Has(key) {
		b.Selection.Prune(key)
		b.Selection.Toggle(models.Key(edit.Text), true)
	}
	return nil
}

// BulkDeleteSelected deletes the displayed selected entries and returns
// how many were requested.
func (b *Board) BulkDeleteSelected(ctx context.Context) (int, error) {
	keys := b.Selection.Selected(b.keys())
	if len(keys) == 0 {
		return 0, nil
	}
	if err := b.engine.BulkDelete(ctx, keys); err != nil {
		b.retain()
		return 0, err
	}
	b.Selection.Prune(keys...)
	return len(keys), nil
}

func (b *Board) Click(index int, shift, checked bool) {
	b.Selection.Click(index, b.keys(), shift, checked)
}

func (b *Board) SelectAll() { b.Selection.SelectAll(b.keys()) }

func (b *Board) DeselectAll() { b.Selection.DeselectAll() }

// Selected lists the selected keys in display order.
func (b *Board) Selected() []models.Key {
	return b.Selection.Selected(b.keys())
}

func (b *Board) StartDrag(index int) error {
	v := b.View()
	return b.Drag.Start(index, v, b.Selection.Selected(models.KeysOf(v)))
}

func (b *Board) Drop(ctx context.Context, target int) error {
	return b.Drag.Drop(ctx, target, b.View())
}

func (b *Board) DropOnScope(ctx context.Context, dest models.Scope) error {
	err := b.Drag.DropOnScope(ctx, dest)
	b.retain()
	return err
}

// MoveSelected moves the displayed selection to dest.
func (b *Board) MoveSelected(ctx context.Context, dest models.Scope) (int, error) {
	if b.scoped == nil {
		return 0, ErrNotScoped
	}
	keys := b.Selected()
	if len(keys) == 0 {
		return 0, nil
	}
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = string(k)
	}
	err := b.scoped.BulkMove(ctx, ids, dest)
	b.retain()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (b *Board) Scope() (models.Scope, bool) {
	if b.scoped == nil {
		return models.Scope{}, false
	}
	return b.scoped.Scope(), true
}

// SetScope switches project or folder; the selection does not carry over.
func (b *Board) SetScope(ctx context.Context, scope models.Scope) error {
	if b.scoped == nil {
		return ErrNotScoped
	}
	b.Selection.DeselectAll()
	return b.scoped.SetScope(ctx, scope)
}

// Refresh refetches the active scope on the pro tier.
func (b *Board) Refresh(ctx context.Context) error {
	if b.scoped == nil {
		return nil
	}
	err := b.scoped.Refetch(ctx)
	b.retain()
	return err
}

func (b *Board) SetSortMode(mode models.SortMode) error {
	return b.Modes.Set(mode)
}

func (b *Board) retain() {
	b.Selection.Retain(b.keys())
}
