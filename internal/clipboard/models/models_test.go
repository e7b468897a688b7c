package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/Spielbergo/clipifyit-sub000/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOf(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  Key
	}{
		{name: "local uses text", entry: LocalEntry{Text: "hello"}, want: "hello"},
		{name: "local pointer", entry: &LocalEntry{Text: "ptr"}, want: "ptr"},
		{name: "remote uses id", entry: RemoteEntry{Row: Row{ID: "r1", Text: "hello"}}, want: "r1"},
		{name: "remote without id falls back to text", entry: RemoteEntry{Row: Row{Text: "draft"}}, want: "draft"},
		{name: "nil", entry: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyOf(tt.entry))
		})
	}
}

func TestKeyOf_StableAcrossCopies(t *testing.T) {
	row := Row{ID: "id-1", Text: "x", Order: 3}
	a := RemoteEntry{Row: row}
	row.Text = "changed"
	b := RemoteEntry{Row: row}
	assert.Equal(t, KeyOf(a), KeyOf(b))
}

func TestKeysOf_UniqueForDistinctRows(t *testing.T) {
	var rows []Row
	for i := 0; i < 50; i++ {
		// identical text on purpose: ids alone must keep keys apart
		rows = append(rows, Row{ID: fmt.Sprintf("id-%d", i), Text: "same"})
	}
	seen := map[Key]bool{}
	for _, k := range KeysOf(RemoteEntries(rows)) {
		require.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}

	var local []Entry
	for i := 0; i < 50; i++ {
		local = append(local, LocalEntry{Text: fmt.Sprintf("text-%d", i)})
	}
	seen = map[Key]bool{}
	for _, k := range KeysOf(local) {
		require.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
}

func TestIndexOf(t *testing.T) {
	entries := []Entry{LocalEntry{Text: "a"}, LocalEntry{Text: "b"}}
	assert.Equal(t, 1, IndexOf(entries, "b"))
	assert.Equal(t, -1, IndexOf(entries, "zzz"))
}

func TestScope(t *testing.T) {
	root := NewScope("p1", "")
	inbox := NewScope("p1", "inbox")
	inbox2 := NewScope("p1", "inbox")

	assert.Nil(t, root.FolderID)
	assert.Equal(t, "inbox", inbox.Folder())
	assert.True(t, inbox.Equal(inbox2))
	assert.False(t, inbox.Equal(root))
	assert.False(t, root.Equal(NewScope("p2", "")))

	f := "inbox"
	assert.True(t, inbox.Contains(Row{ProjectID: "p1", FolderID: &f}))
	assert.False(t, root.Contains(Row{ProjectID: "p1", FolderID: &f}))
	assert.True(t, root.Contains(Row{ProjectID: "p1"}))
	assert.Equal(t, "p1/inbox", inbox.String())
	assert.Equal(t, "p1/", root.String())
}

func TestRowClone_DetachesFolder(t *testing.T) {
	f := "a"
	r := Row{ID: "1", FolderID: &f}
	c := r.Clone()
	*c.FolderID = "b"
	assert.Equal(t, "a", *r.FolderID)
}

func TestPatch(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())

	text, name := "new", "label"
	done := true
	order := int64(9)
	p := Patch{Text: &text, Name: &name, Completed: &done, Order: &order}
	assert.False(t, p.IsEmpty())

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	got := p.Apply(Row{ID: "x", Text: "old", LabelColor: "red", CreatedAt: created})
	assert.Equal(t, Row{ID: "x", Text: "new", Name: "label", LabelColor: "red", Completed: true, Order: 9, CreatedAt: created}, got)

	dest := NewScope("p2", "f2")
	moved := Patch{Scope: &dest}.Apply(Row{ProjectID: "p1"})
	assert.Equal(t, "p2", moved.ProjectID)
	assert.Equal(t, "f2", *moved.FolderID)
}

func TestParseSortMode(t *testing.T) {
	for _, m := range SortModes {
		got, err := ParseSortMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := ParseSortMode(" AZ ")
	require.NoError(t, err)
	assert.Equal(t, SortAZ, got)

	_, err = ParseSortMode("random")
	assert.ErrorIs(t, err, common.ErrInvalidSortMode)
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("PRO")
	require.NoError(t, err)
	assert.Equal(t, TierPro, tier)

	_, err = ParseTier("enterprise")
	assert.ErrorIs(t, err, common.ErrInvalidTier)
}

func TestTextOfAndRowOf(t *testing.T) {
	assert.Equal(t, "a", TextOf(LocalEntry{Text: "a"}))
	assert.Equal(t, "b", TextOf(RemoteEntry{Row: Row{Text: "b"}}))
	assert.Equal(t, "", TextOf(nil))

	r, ok := RowOf(RemoteEntry{Row: Row{ID: "1"}})
	assert.True(t, ok)
	assert.Equal(t, "1", r.ID)

	_, ok = RowOf(LocalEntry{Text: "a"})
	assert.False(t, ok)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "confirmed", StatusConfirmed.String())
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "failed", StatusFailed.String())
}
