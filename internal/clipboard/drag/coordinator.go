// Package drag turns a drag-and-drop gesture over the displayed list into a
// reorder of the list or a move of the dragged rows to another scope.
//
// The coordinator is a two-state machine: idle, or dragging a row captured
// at Start. The row is tracked by key, so a view that changed while dragging
// still moves the right row. Drop, DropOnScope and Cancel all return it to
// idle.
package drag

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/sortmode"
	"github.com/Spielbergo/clipifyit-sub000/internal/common"
)

// Reorderer persists a new arrangement of displayed keys, top first.
type Reorderer interface {
	Reorder(ctx context.Context, displayed []models.Key) error
}

// Mover moves rows to another scope.
type Mover interface {
	BulkMove(ctx context.Context, ids []string, dest models.Scope) error
}

// State is a snapshot of the coordinator.
type State struct {
	Dragging bool
	Source   int
	Key      models.Key
	// Payload holds the keys carried to a cross-scope drop: the whole
	// selection when the dragged row is part of it, else just that row.
	Payload []models.Key
}

type Coordinator struct {
	reorder Reorderer
	mover   Mover
	modes   *sortmode.Store

	mu    sync.Mutex
	state State
}

// NewCoordinator wires the coordinator. mover is nil on the free tier,
// where cross-scope drops are unsupported.
func NewCoordinator(r Reorderer, mover Mover, modes *sortmode.Store) *Coordinator {
	return &Coordinator{reorder: r, mover: mover, modes: modes, state: State{Source: -1}}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Payload = slices.Clone(s.Payload)
	return s
}

// Start begins dragging view[index]. Starting again replaces the previous
// drag.
func (c *Coordinator) Start(index int, view []models.Entry, selected []models.Key) error {
	if index < 0 || index >= len(view) {
		return common.ErrInvalidIndex
	}
	key := models.KeyOf(view[index])
	payload := []models.Key{key}
	if slices.Contains(selected, key) {
		payload = slices.Clone(selected)
	}

	c.mu.Lock()
	c.state = State{Dragging: true, Source: index, Key: key, Payload: payload}
	c.mu.Unlock()
	return nil
}

// Cancel ends the drag without any effect.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	c.state = State{Source: -1}
	c.mu.Unlock()
}

// Drop moves the dragged row to target within view and persists the new
// arrangement. On success the sort mode becomes custom. Dropping the row
// where it already is changes nothing; a row no longer in view is
// common.ErrInvalidIndex.
func (c *Coordinator) Drop(ctx context.Context, target int, view []models.Entry) error {
	st, err := c.finish()
	if err != nil {
		return err
	}
	keys := models.KeysOf(view)
	source := slices.Index(keys, st.Key)
	if source < 0 {
		return common.ErrInvalidIndex
	}
	target = min(max(target, 0), len(view)-1)
	if target == source {
		return nil
	}

	keys = Move(keys, source, target)
	if err := c.reorder.Reorder(ctx, keys); err != nil {
		return err
	}
	c.modes.ManualReorder()
	return nil
}

// DropOnScope moves the drag payload into dest, such as a folder outside
// the list.
func (c *Coordinator) DropOnScope(ctx context.Context, dest models.Scope) error {
	st, err := c.finish()
	if err != nil {
		return err
	}
	if c.mover == nil {
		return errors.ErrUnsupported
	}
	ids := make([]string, len(st.Payload))
	for i, k := range st.Payload {
		ids[i] = string(k)
	}
	return c.mover.BulkMove(ctx, ids, dest)
}

func (c *Coordinator) finish() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	c.state = State{Source: -1}
	if !st.Dragging {
		return st, common.ErrNoDrag
	}
	return st, nil
}

// Move returns a copy of keys with the element at from moved to to.
func Move(keys []models.Key, from, to int) []models.Key {
	out := slices.Clone(keys)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	k := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, k)
}
