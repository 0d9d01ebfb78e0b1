package outbox

import "github.com/AERESAL/VolunteerHub-Backend/internal/events"

// SchemaCatalogEntry maps event type to schema definition.
type SchemaCatalogEntry struct {
	Schema string
}

var schemaCatalog = map[string]SchemaCatalogEntry{
	events.TypeActivityCreated:    {Schema: activityCreatedSchema},
	events.TypeActivityDeleted:    {Schema: activityDeletedSchema},
	events.TypeSignatureRequested: {Schema: signatureRequestedSchema},
	events.TypeActivitySigned:     {Schema: activitySignedSchema},
}

const activityCreatedSchema = `{
  "type": "object",
  "title": "ActivityCreated",
  "properties": {
    "activity_id": {"type": "string"},
    "owner": {"type": "string"},
    "name": {"type": "string"},
    "date": {"type": "string"},
    "start_time": {"type": "string"},
    "end_time": {"type": "string"},
    "location": {"type": "string"},
    "hours": {"type": "number"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["activity_id", "owner", "name", "date", "start_time", "end_time", "location", "hours", "occurred_at"],
  "additionalProperties": false
}`

const activityDeletedSchema = `{
  "type": "object",
  "title": "ActivityDeleted",
  "properties": {
    "activity_id": {"type": "string"},
    "owner": {"type": "string"},
    "was_signed": {"type": "boolean"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["activity_id", "owner", "was_signed", "occurred_at"],
  "additionalProperties": false
}`

const signatureRequestedSchema = `{
  "type": "object",
  "title": "SignatureRequested",
  "properties": {
    "activity_id": {"type": "string"},
    "owner": {"type": "string"},
    "supervisor_email": {"type": "string"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["activity_id", "owner", "supervisor_email", "occurred_at"],
  "additionalProperties": false
}`

const activitySignedSchema = `{
  "type": "object",
  "title": "ActivitySigned",
  "properties": {
    "activity_id": {"type": "string"},
    "owner": {"type": "string"},
    "hours": {"type": "number"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["activity_id", "owner", "hours", "occurred_at"],
  "additionalProperties": false
}`
