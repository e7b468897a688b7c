// Package models defines clipboard entries for both tiers, their stable keys,
// scopes, sort modes and realtime change events.
package models

import (
	"strings"
	"time"

	"github.com/Spielbergo/clipifyit-sub000/internal/common"
)

// Tier selects the persistence model behind a clipboard list.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierFree:
		return TierFree, nil
	case TierPro:
		return TierPro, nil
	}
	return "", common.ErrInvalidTier
}

// Status tracks whether a row's local state has been confirmed by the store.
// The zero value is StatusConfirmed so rows read back from the store need no
// extra bookkeeping.
type Status uint8

const (
	StatusConfirmed Status = iota
	StatusPending
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFailed:
		return "failed"
	default:
		return "confirmed"
	}
}

// Entry is one clipboard item. It is either a LocalEntry (free tier) or a
// RemoteEntry (paid tier); the interface is sealed.
type Entry interface {
	entryText() string
	isEntry()
}

// LocalEntry is a free-tier item. Text doubles as its identity; the optional
// label fields live in side maps keyed by text and are copied in for display.
type LocalEntry struct {
	Text       string
	Name       string
	LabelColor string
	Completed  bool
}

func (LocalEntry) isEntry()            {}
func (e LocalEntry) entryText() string { return e.Text }

// RemoteEntry is a paid-tier item backed by a stored row.
type RemoteEntry struct {
	Row
}

func (RemoteEntry) isEntry()            {}
func (e RemoteEntry) entryText() string { return e.Text }

// Row is a stored clipboard item. Within one scope, a larger Order sits
// higher in the list.
type Row struct {
	ID         string
	ProjectID  string
	FolderID   *string
	Text       string
	Name       string
	LabelColor string
	Completed  bool
	Order      int64
	CreatedAt  time.Time
	Status     Status
}

// Clone returns a copy that shares no pointers with r.
func (r Row) Clone() Row {
	if r.FolderID != nil {
		f := *r.FolderID
		r.FolderID = &f
	}
	return r
}

// Scope returns the (project, folder) pair the row belongs to.
func (r Row) Scope() Scope {
	return Scope{ProjectID: r.ProjectID, FolderID: r.FolderID}
}

// TextOf returns the clipboard text of any entry.
func TextOf(e Entry) string {
	if e == nil {
		return ""
	}
	return e.entryText()
}

// RowOf returns the row behind a paid-tier entry.
func RowOf(e Entry) (Row, bool) {
	switch v := e.(type) {
	case RemoteEntry:
		return v.Row, true
	case *RemoteEntry:
		if v != nil {
			return v.Row, true
		}
	}
	return Row{}, false
}

// RemoteEntries wraps rows for rendering and projection.
func RemoteEntries(rows []Row) []Entry {
	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = RemoteEntry{Row: r}
	}
	return out
}

// Patch carries a partial row update. Nil fields are left untouched.
type Patch struct {
	Text       *string
	Name       *string
	LabelColor *string
	Completed  *bool
	Order      *int64
	Scope      *Scope
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Text == nil && p.Name == nil && p.LabelColor == nil &&
		p.Completed == nil && p.Order == nil && p.Scope == nil
}

// Apply returns r with the patch applied.
func (p Patch) Apply(r Row) Row {
	if p.Text != nil {
		r.Text = *p.Text
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.LabelColor != nil {
		r.LabelColor = *p.LabelColor
	}
	if p.Completed != nil {
		r.Completed = *p.Completed
	}
	if p.Order != nil {
		r.Order = *p.Order
	}
	if p.Scope != nil {
		r.ProjectID = p.Scope.ProjectID
		r.FolderID = p.Scope.FolderID
	}
	return r
}

// Edit is a user edit of one entry. Text is always applied; the label fields
// only when non-nil.
type Edit struct {
	Text       string
	Name       *string
	LabelColor *string
	Completed  *bool
}
