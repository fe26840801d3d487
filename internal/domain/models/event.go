package models

import "time"

// Record lifecycle event types published to the notification webhook.
const (
	EventRecordCreated     = "record.created"
	EventRecordUpdated     = "record.updated"
	EventRecordSoftDeleted = "record.soft_deleted"
	EventRecordRestored    = "record.restored"
	EventRecordPurged      = "record.purged"
)

// Event describes a single record lifecycle change.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	RecordID   string    `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
