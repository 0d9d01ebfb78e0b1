package consumer

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
	"github.com/AERESAL/VolunteerHub-Backend/internal/events"
)

// AuditHandler writes consumed events into the activity_event_log table. Redelivered records
// are ignored by the (topic, partition, record_offset) key.
type AuditHandler struct {
	pool *pgxpool.Pool
}

// NewAuditHandler constructs a handler backed by the provided pool.
func NewAuditHandler(pool *pgxpool.Pool) *AuditHandler {
	return &AuditHandler{pool: pool}
}

// Handle stores the event payload.
func (h *AuditHandler) Handle(ctx context.Context, msg Message) error {
	ref := payloadRef(msg)

	_, err := h.pool.Exec(ctx,
		`INSERT INTO activity_event_log (event_type, owner, activity_id, schema_id, schema_subject, topic, partition, record_offset, payload, received_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
         ON CONFLICT (topic, partition, record_offset) DO NOTHING`,
		msg.EventType,
		ref.Owner,
		ref.ActivityID,
		msg.SchemaID,
		msg.SchemaSubject,
		msg.Topic,
		msg.Partition,
		msg.Offset,
		msg.Payload,
		msg.Timestamp,
	)
	return err
}

// CacheInvalidator drops the cached leaderboard whenever an event changes somebody's hours.
// API instances invalidate on their own writes; this covers writes made by other instances.
type CacheInvalidator struct {
	cache domain.LeaderboardCache
}

// NewCacheInvalidator constructs a CacheInvalidator.
func NewCacheInvalidator(cache domain.LeaderboardCache) *CacheInvalidator {
	return &CacheInvalidator{cache: cache}
}

// Handle invalidates the cache for created, deleted and signed activities.
func (c *CacheInvalidator) Handle(ctx context.Context, msg Message) error {
	switch msg.EventType {
	case events.TypeActivityCreated, events.TypeActivityDeleted, events.TypeActivitySigned:
		return c.cache.Invalidate(ctx)
	default:
		return nil
	}
}

type eventRef struct {
	ActivityID string `json:"activity_id"`
	Owner      string `json:"owner"`
}

// payloadRef extracts the owner and activity id shared by every event payload.
// The owner header wins over the payload when both are present.
func payloadRef(msg Message) eventRef {
	var ref eventRef
	if err := json.Unmarshal(msg.Payload, &ref); err != nil {
		log.Debug().Err(err).Str("event_type", msg.EventType).Msg("consumer: payload without activity reference")
	}
	if msg.Owner != "" {
		ref.Owner = msg.Owner
	}
	return ref
}
