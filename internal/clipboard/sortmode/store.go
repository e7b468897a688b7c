// Package sortmode holds the active sort mode and broadcasts every change to
// subscribers, so a sort selector and the list it controls stay in step
// without global events.
package sortmode

import (
	"sync"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
	"github.com/Spielbergo/clipifyit-sub000/internal/common"
)

// Cause says why the mode changed.
type Cause string

const (
	CauseUser          Cause = "user"
	CauseManualReorder Cause = "manual_reorder"
	CauseAdd           Cause = "add"
)

// Change is delivered to subscribers after the mode changed.
type Change struct {
	From  models.SortMode
	To    models.SortMode
	Cause Cause
}

// Store is safe for concurrent use. Listeners run synchronously on the
// goroutine that made the change, outside the store's lock.
type Store struct {
	mu        sync.Mutex
	mode      models.SortMode
	nextID    int
	listeners map[int]func(Change)
}

func NewStore(initial models.SortMode) *Store {
	if _, err := models.ParseSortMode(string(initial)); err != nil {
		initial = models.SortNewest
	}
	return &Store{mode: initial, listeners: make(map[int]func(Change))}
}

func (s *Store) Mode() models.SortMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Set switches to mode on behalf of the user.
func (s *Store) Set(mode models.SortMode) error {
	if _, err := models.ParseSortMode(string(mode)); err != nil {
		return common.ErrInvalidSortMode
	}
	s.transition(mode, CauseUser)
	return nil
}

// ManualReorder is the transition taken after any drag reorder: the list
// now shows stored order, so the mode becomes custom.
func (s *Store) ManualReorder() {
	s.transition(models.SortCustom, CauseManualReorder)
}

// Added is the transition taken after a paid-tier add, whose new row is
// placed on top by order.
func (s *Store) Added() {
	s.transition(models.SortCustom, CauseAdd)
}

// Subscribe registers fn for future changes and returns a cancel func.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) transition(to models.SortMode, cause Cause) {
	s.mu.Lock()
	from := s.mode
	if from == to {
		s.mu.Unlock()
		return
	}
	s.mode = to
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	ch := Change{From: from, To: to, Cause: cause}
	for _, fn := range fns {
		fn(ch)
	}
}
