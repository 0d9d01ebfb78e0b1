// Package events defines the payloads published for volunteer activity changes.
package events

import "time"

// Event type names. They double as outbox routing keys.
const (
	TypeActivityCreated    = "activity.created"
	TypeActivityDeleted    = "activity.deleted"
	TypeSignatureRequested = "signature.requested"
	TypeActivitySigned     = "activity.signed"
)

// ActivityCreated is emitted when a user logs a new volunteer activity.
type ActivityCreated struct {
	ActivityID string    `json:"activity_id"`
	Owner      string    `json:"owner"`
	Name       string    `json:"name"`
	Date       string    `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Location   string    `json:"location"`
	Hours      float64   `json:"hours"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ActivityDeleted is emitted when the owner removes an activity.
type ActivityDeleted struct {
	ActivityID string    `json:"activity_id"`
	Owner      string    `json:"owner"`
	WasSigned  bool      `json:"was_signed"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Kafka topics the outbox routes events to.
const (
	TopicActivity  = "volunteerhub.activity.v1"
	TopicSignature = "volunteerhub.signature.v1"
)
