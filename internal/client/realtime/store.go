package realtime

import (
	"context"

	"github.com/Spielbergo/clipifyit-sub000/internal/client/repositories/rows"
	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
	"github.com/Spielbergo/clipifyit-sub000/internal/logging"
)

// PublishingStore wraps a rows.Repository and publishes a change event after
// each successful write. Publish failures are logged; the write stands.
type PublishingStore struct {
	rows.Repository
	pub Publisher
	log logging.Logger
}

var _ rows.Repository = (*PublishingStore)(nil)

func NewPublishingStore(repo rows.Repository, pub Publisher, log logging.Logger) *PublishingStore {
	return &PublishingStore{Repository: repo, pub: pub, log: log}
}

func (s *PublishingStore) Insert(ctx context.Context, row models.Row) (models.Row, error) {
	stored, err := s.Repository.Insert(ctx, row)
	if err != nil {
		return stored, err
	}
	s.publish(ctx, models.Event{Type: models.EventInsert, Row: stored})
	return stored, nil
}

// Update reads the row first so the event carries the full row and a move
// between projects reaches both channels.
func (s *PublishingStore) Update(ctx context.Context, id string, p models.Patch) error {
	before, found := s.lookup(ctx, id)
	if err := s.Repository.Update(ctx, id, p); err != nil {
		return err
	}
	if found {
		s.publishPatch(ctx, before, p)
	}
	return nil
}

// UpdateMany publishes once the whole batch is written; a failed batch
// publishes nothing.
func (s *PublishingStore) UpdateMany(ctx context.Context, updates []rows.Update) error {
	ids := make([]string, len(updates))
	for i, u := range updates {
		ids[i] = u.ID
	}
	var known []models.Row
	if len(ids) > 0 {
		var err error
		if known, err = s.Repository.Select(ctx, rows.IDFilter(ids...)); err != nil {
			s.log.Warn(ctx, "cannot resolve rows before update; no events published", "error", err)
			known = nil
		}
	}
	if err := s.Repository.UpdateMany(ctx, updates); err != nil {
		return err
	}

	before := make(map[string]models.Row, len(known))
	for _, r := range known {
		before[r.ID] = r
	}
	for _, u := range updates {
		if r, ok := before[u.ID]; ok {
			s.publishPatch(ctx, r, u.Patch)
		}
	}
	return nil
}

// publishPatch announces before with p applied. A move between projects
// reaches both channels as delete and insert.
func (s *PublishingStore) publishPatch(ctx context.Context, before models.Row, p models.Patch) {
	after := p.Apply(before)
	if after.ProjectID != before.ProjectID {
		s.publish(ctx, models.Event{Type: models.EventDelete, Row: before})
		s.publish(ctx, models.Event{Type: models.EventInsert, Row: after})
		return
	}
	s.publish(ctx, models.Event{Type: models.EventUpdate, Row: after})
}

func (s *PublishingStore) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	existing, err := s.Repository.Select(ctx, rows.IDFilter(ids...))
	if err != nil {
		s.log.Warn(ctx, "cannot resolve rows before delete; no events published", "error", err)
		existing = nil
	}
	if err := s.Repository.Delete(ctx, ids...); err != nil {
		return err
	}
	for _, r := range existing {
		s.publish(ctx, models.Event{Type: models.EventDelete, Row: models.Row{ID: r.ID, ProjectID: r.ProjectID, FolderID: r.FolderID}})
	}
	return nil
}

func (s *PublishingStore) lookup(ctx context.Context, id string) (models.Row, bool) {
	found, err := s.Repository.Select(ctx, rows.IDFilter(id))
	if err != nil {
		s.log.Warn(ctx, "cannot resolve row before update", "id", id, "error", err)
		return models.Row{}, false
	}
	if len(found) == 0 {
		return models.Row{}, false
	}
	return found[0], true
}

func (s *PublishingStore) publish(ctx context.Context, ev models.Event) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Warn(ctx, "realtime publish failed", "type", ev.Type, "id", ev.Row.ID, "error", err)
	}
}
