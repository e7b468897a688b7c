package models

// EventType is the kind of a realtime row change.
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event is one pushed row change. Delete events may carry only the row id.
type Event struct {
	Type EventType
	Row  Row
}
