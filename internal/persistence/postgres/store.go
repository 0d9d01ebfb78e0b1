// Package postgres stores activity collections, users and outbox events in Postgres.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
	"github.com/AERESAL/VolunteerHub-Backend/internal/events"
)

// Store provides Postgres-backed persistence. Each collection is one JSONB document guarded
// by a version column; pending signature tokens are indexed in the same transaction.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GetCollection implements domain.ActivityStore.
func (s *Store) GetCollection(ctx context.Context, username string) (*domain.ActivityCollection, error) {
	const query = `SELECT activities, version FROM activity_collections WHERE username=$1`

	var (
		raw     []byte
		version int64
	)
	if err := s.pool.QueryRow(ctx, query, username).Scan(&raw, &version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	activities, err := decodeActivities(raw)
	if err != nil {
		return nil, fmt.Errorf("decode activities for %s: %w", username, err)
	}
	return &domain.ActivityCollection{Username: username, Activities: activities, Version: version}, nil
}

// SaveCollection implements domain.ActivityStore.
func (s *Store) SaveCollection(ctx context.Context, col domain.ActivityCollection, evts ...domain.Event) error {
	body, err := json.Marshal(nonNil(col.Activities))
	if err != nil {
		return err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	var ct pgconn.CommandTag
	if col.Version == 0 {
		ct, err = tx.Exec(ctx,
			`INSERT INTO activity_collections (username, activities, version) VALUES ($1,$2,1)
             ON CONFLICT (username) DO NOTHING`,
			col.Username, body)
	} else {
		ct, err = tx.Exec(ctx,
			`UPDATE activity_collections SET activities=$2, version=version+1, updated_at=NOW()
             WHERE username=$1 AND version=$3`,
			col.Username, body, col.Version)
	}
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		err = domain.ErrVersionConflict
		return err
	}

	if err = s.reindexTokens(ctx, tx, col); err != nil {
		return err
	}

	for _, evt := range evts {
		if err = insertOutbox(ctx, tx, evt); err != nil {
			return err
		}
	}

	err = tx.Commit(ctx)
	return err
}

// ListCollections implements domain.ActivityStore. Collections come back in username order.
func (s *Store) ListCollections(ctx context.Context) ([]domain.ActivityCollection, error) {
	rows, err := s.pool.Query(ctx, `SELECT username, activities, version FROM activity_collections ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ActivityCollection, 0)
	for rows.Next() {
		var (
			col domain.ActivityCollection
			raw []byte
		)
		if err := rows.Scan(&col.Username, &raw, &col.Version); err != nil {
			return nil, err
		}
		if col.Activities, err = decodeActivities(raw); err != nil {
			return nil, fmt.Errorf("decode activities for %s: %w", col.Username, err)
		}
		out = append(out, col)
	}
	return out, rows.Err()
}

// OwnerOfToken implements domain.TokenIndex.
func (s *Store) OwnerOfToken(ctx context.Context, token string) (string, error) {
	var owner string
	err := s.pool.QueryRow(ctx, `SELECT username FROM signature_tokens WHERE token=$1`, token).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return owner, err
}

func (s *Store) reindexTokens(ctx context.Context, tx pgx.Tx, col domain.ActivityCollection) error {
	if _, err := tx.Exec(ctx, `DELETE FROM signature_tokens WHERE username=$1`, col.Username); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, a := range col.Activities {
		if a.State() != domain.SignatureStateRequested {
			continue
		}
		batch.Queue(`INSERT INTO signature_tokens (token, username, activity_id) VALUES ($1,$2,$3)`,
			*a.SignatureToken, col.Username, a.ID)
	}
	if batch.Len() == 0 {
		return nil
	}
	return tx.SendBatch(ctx, batch).Close()
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic         string
	SchemaSubject string
}

var eventCatalog = map[string]EventMetadata{
	events.TypeActivityCreated: {
		Topic:         events.TopicActivity,
		SchemaSubject: events.TopicActivity + "-activity.created",
	},
	events.TypeActivityDeleted: {
		Topic:         events.TopicActivity,
		SchemaSubject: events.TopicActivity + "-activity.deleted",
	},
	events.TypeSignatureRequested: {
		Topic:         events.TopicSignature,
		SchemaSubject: events.TopicSignature + "-signature.requested",
	},
	events.TypeActivitySigned: {
		Topic:         events.TopicSignature,
		SchemaSubject: events.TopicSignature + "-activity.signed",
	},
}

// insertOutbox records evt for the dispatcher. Events for one owner share a partition key
// so consumers see them in order.
func insertOutbox(ctx context.Context, tx pgx.Tx, evt domain.Event) error {
	meta, ok := eventCatalog[evt.Type]
	if !ok {
		return fmt.Errorf("unknown event type: %s", evt.Type)
	}

	body, err := json.Marshal(evt.Payload)
	if err != nil {
		return err
	}

	const stmt = `INSERT INTO outbox (owner, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err = tx.Exec(ctx, stmt,
		evt.Owner,
		"activity",
		evt.ActivityID,
		evt.Type,
		meta.Topic,
		meta.SchemaSubject,
		evt.Owner,
		body,
	)
	return err
}

func decodeActivities(raw []byte) ([]domain.Activity, error) {
	var activities []domain.Activity
	if len(raw) == 0 {
		return activities, nil
	}
	if err := json.Unmarshal(raw, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func nonNil(activities []domain.Activity) []domain.Activity {
	if activities == nil {
		return []domain.Activity{}
	}
	return activities
}
