package domain

import (
	"encoding/json"
	"time"
)

// SignatureState is the position of an activity in the confirmation workflow.
type SignatureState string

const (
	SignatureStateUnsubmitted SignatureState = "unsubmitted"
	SignatureStateRequested   SignatureState = "requested"
	SignatureStateSigned      SignatureState = "signed"
)

// Activity is one logged volunteer session. JSON names follow the wire format existing clients use.
type Activity struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Date            string          `json:"date"`
	StartTime       string          `json:"start_time"`
	EndTime         string          `json:"end_time"`
	Location        string          `json:"location"`
	SupervisorName  string          `json:"supervisorName"`
	SupervisorEmail string          `json:"supervisorEmail"`
	Approved        bool            `json:"approved"`
	SignatureToken  *string         `json:"signatureToken,omitempty"`
	Signed          bool            `json:"signed"`
	SignatureData   json.RawMessage `json:"signatureData,omitempty"`
}

// State derives the workflow state from the token and signed flag.
func (a Activity) State() SignatureState {
	switch {
	case a.Signed:
		return SignatureStateSigned
	case a.SignatureToken != nil && *a.SignatureToken != "":
		return SignatureStateRequested
	default:
		return SignatureStateUnsubmitted
	}
}

// HasPendingToken reports whether token can still be used to confirm this activity.
func (a Activity) HasPendingToken(token string) bool {
	return !a.Signed && a.SignatureToken != nil && *a.SignatureToken == token
}

// matches reports whether the identifying tuple of a equals the given fields.
func (a Activity) matches(f ActivityFields) bool {
	return a.Name == f.Name &&
		a.Date == f.Date &&
		a.StartTime == f.StartTime &&
		a.EndTime == f.EndTime &&
		a.Location == f.Location
}

// ActivityFields is the user-supplied part of an activity.
type ActivityFields struct {
	Name            string `json:"name" validate:"required"`
	Date            string `json:"date" validate:"required"`
	StartTime       string `json:"start_time" validate:"required"`
	EndTime         string `json:"end_time" validate:"required"`
	Location        string `json:"location" validate:"required"`
	SupervisorName  string `json:"supervisorName" validate:"required"`
	SupervisorEmail string `json:"supervisorEmail" validate:"required"`
}

// ActivityCollection is the per-user document holding activities in insertion order.
// Version is zero for a collection that has never been stored.
type ActivityCollection struct {
	Username   string
	Activities []Activity
	Version    int64
}

// Exists reports whether the collection was loaded from the store.
func (c ActivityCollection) Exists() bool {
	return c.Version > 0
}

func (c ActivityCollection) clone() ActivityCollection {
	out := c
	out.Activities = append([]Activity(nil), c.Activities...)
	return out
}

// Event is a domain event persisted alongside the collection write that produced it.
type Event struct {
	Type       string
	ActivityID string
	Owner      string
	OccurredAt time.Time
	Payload    any
}
