package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Spielbergo/clipifyit-sub000/internal/clipboard/models"
)

const channelPrefix = "clipboard:"

// Channel is the Pub/Sub channel carrying changes for one project.
func Channel(projectID string) string {
	return channelPrefix + projectID
}

type wireRow struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	FolderID   *string    `json:"folder_id"`
	Text       string     `json:"text,omitempty"`
	Name       string     `json:"name,omitempty"`
	LabelColor string     `json:"label_color,omitempty"`
	Completed  bool       `json:"completed,omitempty"`
	Order      int64      `json:"order"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

type wireEvent struct {
	Type models.EventType `json:"type"`
	Row  wireRow          `json:"row"`
}

func encodeEvent(ev models.Event) ([]byte, error) {
	r := ev.Row
	w := wireEvent{
		Type: ev.Type,
		Row: wireRow{
			ID:         r.ID,
			ProjectID:  r.ProjectID,
			FolderID:   r.FolderID,
			Text:       r.Text,
			Name:       r.Name,
			LabelColor: r.LabelColor,
			Completed:  r.Completed,
			Order:      r.Order,
		},
	}
	if !r.CreatedAt.IsZero() {
		t := r.CreatedAt.UTC()
		w.Row.CreatedAt = &t
	}
	return json.Marshal(w)
}

func decodeEvent(data []byte) (models.Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return models.Event{}, err
	}
	switch w.Type {
	case models.EventInsert, models.EventUpdate, models.EventDelete:
	default:
		return models.Event{}, &UnknownEventError{Type: string(w.Type)}
	}
	row := models.Row{
		ID:         w.Row.ID,
		ProjectID:  w.Row.ProjectID,
		FolderID:   w.Row.FolderID,
		Text:       w.Row.Text,
		Name:       w.Row.Name,
		LabelColor: w.Row.LabelColor,
		Completed:  w.Row.Completed,
		Order:      w.Row.Order,
	}
	if w.Row.CreatedAt != nil {
		row.CreatedAt = *w.Row.CreatedAt
	}
	return models.Event{Type: w.Type, Row: row}, nil
}

// UnknownEventError reports an event type this client does not understand.
type UnknownEventError struct {
	Type string
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown event type %q", e.Type)
}
