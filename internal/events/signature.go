package events

import "time"

// SignatureRequested is emitted once a signature token has been recorded for an activity.
// The token itself is never part of the payload.
type SignatureRequested struct {
	ActivityID      string    `json:"activity_id"`
	Owner           string    `json:"owner"`
	SupervisorEmail string    `json:"supervisor_email"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// ActivitySigned is emitted when a supervisor confirms an activity.
type ActivitySigned struct {
	ActivityID string    `json:"activity_id"`
	Owner      string    `json:"owner"`
	Hours      float64   `json:"hours"`
	OccurredAt time.Time `json:"occurred_at"`
}
