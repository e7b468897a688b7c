// Package local implements the free tier: the clipboard is one ordered list
// of unique strings, oldest first, persisted to a key-value store together
// with per-entry label maps keyed by text.
//
// Every operation computes the next state from a copy, persists all four
// keys in one batch and only then swaps the in-memory state, so a failed
// write leaves the engine exactly as it was.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/Spielbergo/clipifyit-sub000/internal/client/repositories/kv"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
	"github.com/Spielbergo/clipifyit-sub000/internal/common"
	"github.com/Spielbergo/clipifyit-sub000/internal/logging"
)

// Keys in the key-value store.
const (
	KeyHistory   = "clipboardHistory"
	KeyNames     = "clipboardNames"
	KeyColors    = "clipboardColors"
	KeyCompleted = "clipboardCompleted"
)

type state struct {
	texts     []string
	names     map[string]string
	colors    map[string]string
	completed map[string]bool
}

func emptyState() state {
	return state{
		names:     map[string]string{},
		colors:    map[string]string{},
		completed: map[string]bool{},
	}
}

func (s state) clone() state {
	return state{
		texts:     slices.Clone(s.texts),
		names:     maps.Clone(s.names),
		colors:    maps.Clone(s.colors),
		completed: maps.Clone(s.completed),
	}
}

func (s state) index(key models.Key) int {
	return slices.Index(s.texts, string(key))
}

// forget drops every label stored under text.
func (s state) forget(text string) {
	delete(s.names, text)
	delete(s.colors, text)
	delete(s.completed, text)
}

// rename moves labels from one key to another; empty labels are dropped.
func (s state) rename(from, to string) {
	if from == to {
		return
	}
	if v := s.names[from]; v != "" {
		s.names[to] = v
	}
	if v := s.colors[from]; v != "" {
		s.colors[to] = v
	}
	if s.completed[from] {
		s.completed[to] = true
	}
	s.forget(from)
}

// Engine is the free-tier mutation engine. It is safe for concurrent use.
type Engine struct {
	mu    sync.Mutex
	store kv.Repository
	log   logging.Logger
	state state
}

func NewEngine(store kv.Repository, log logging.Logger) *Engine {
	return &Engine{store: store, log: log, state: emptyState()}
}

// Load replaces the in-memory state with what the store holds. Missing keys
// load as empty.
func (e *Engine) Load(ctx context.Context) error {
	next := emptyState()
	for key, dst := range map[string]any{
		KeyHistory:   &next.texts,
		KeyNames:     &next.names,
		KeyColors:    &next.colors,
		KeyCompleted: &next.completed,
	} {
		raw, err := e.store.Get(ctx, key)
		if err != nil {
			e.log.Error(ctx, "load failed", "key", key, "error", err)
			return fmt.Errorf("load %s: %w", key, err)
		}
		if raw == nil {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}
	// A null map decodes to nil.
	if next.names == nil {
		next.names = map[string]string{}
	}
	if next.colors == nil {
		next.colors = map[string]string{}
	}
	if next.completed == nil {
		next.completed = map[string]bool{}
	}

	e.mu.Lock()
	e.state = next
	e.mu.Unlock()
	return nil
}

// Add appends text as the newest entry. Text already present verbatim is
// rejected with common.ErrDuplicateEntry.
func (e *Engine) Add(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return common.ErrEmptyText
	}
	return e.mutate(ctx, func(s *state) error {
		if slices.Contains(s.texts, text) {
			return common.ErrDuplicateEntry
		}
		s.texts = append(s.texts, text)
		return nil
	})
}

// Remove deletes the entry with the given key. A missing key is a no-op.
func (e *Engine) Remove(ctx context.Context, key models.Key) error {
	return e.BulkDelete(ctx, []models.Key{key})
}

// Edit replaces an entry's text and optional labels. Changing the text
// re-keys the entry, so its labels move with it.
func (e *Engine) Edit(ctx context.Context, key models.Key, edit models.Edit) error {
	if strings.TrimSpace(edit.Text) == "" {
		return common.ErrEmptyText
	}
	return e.mutate(ctx, func(s *state) error {
		i := s.index(key)
		if i < 0 {
			return fmt.Errorf("entry %q: %w", key, common.ErrorNotFound)
		}
		old := s.texts[i]
		if edit.Text != old && slices.Contains(s.texts, edit.Text) {
			return common.ErrDuplicateEntry
		}
		s.texts[i] = edit.Text
		s.rename(old, edit.Text)

		if edit.Name != nil {
			setOrDelete(s.names, edit.Text, *edit.Name)
		}
		if edit.LabelColor != nil {
			setOrDelete(s.colors, edit.Text, *edit.LabelColor)
		}
		if edit.Completed != nil {
			if *edit.Completed {
				s.completed[edit.Text] = true
			} else {
				delete(s.completed, edit.Text)
			}
		}
		return nil
	})
}

// Reorder replaces the list with the displayed arrangement. Keys that no
// longer exist are skipped and entries that were not displayed keep their
// relative order after the displayed ones.
func (e *Engine) Reorder(ctx context.Context, displayed []models.Key) error {
	return e.mutate(ctx, func(s *state) error {
		seen := make(map[string]bool, len(displayed))
		next := make([]string, 0, len(s.texts))
		for _, k := range displayed {
			t := string(k)
			if seen[t] || !slices.Contains(s.texts, t) {
				continue
			}
			seen[t] = true
			next = append(next, t)
		}
		for _, t := range s.texts {
			if !seen[t] {
				next = append(next, t)
			}
		}
		s.texts = next
		return nil
	})
}

// BulkDelete removes every entry whose key is listed, along with its labels.
func (e *Engine) BulkDelete(ctx context.Context, keys []models.Key) error {
	if len(keys) == 0 {
		return nil
	}
	return e.mutate(ctx, func(s *state) error {
		drop := make(map[string]bool, len(keys))
		for _, k := range keys {
			drop[string(k)] = true
		}
		s.texts = slices.DeleteFunc(s.texts, func(t string) bool { return drop[t] })
		for t := range drop {
			s.forget(t)
		}
		return nil
	})
}

// Entries returns the list oldest first with labels filled in.
func (e *Engine) Entries() []models.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.Entry, len(e.state.texts))
	for i, t := range e.state.texts {
		out[i] = models.LocalEntry{
			Text:       t,
			Name:       e.state.names[t],
			LabelColor: e.state.colors[t],
			Completed:  e.state.completed[t],
		}
	}
	return out
}

func (e *Engine) mutate(ctx context.Context, fn func(*state) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.state.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := e.persist(ctx, next); err != nil {
		e.log.Error(ctx, "save failed", "error", err)
		return err
	}
	e.state = next
	return nil
}

func (e *Engine) persist(ctx context.Context, s state) error {
	texts := s.texts
	if texts == nil {
		texts = []string{}
	}
	values := make(map[string][]byte, 4)
	for key, v := range map[string]any{
		KeyHistory:   texts,
		KeyNames:     s.names,
		KeyColors:    s.colors,
		KeyCompleted: s.completed,
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		values[key] = raw
	}
	if err := e.store.SetMany(ctx, values); err != nil {
		return fmt.Errorf("save clipboard: %w", err)
	}
	return nil
}

func setOrDelete(m map[string]string, key, value string) {
	if value == "" {
		delete(m, key)
		return
	}
	m[key] = value
}
