// Package domain holds the activity ledger, the signature workflow and the leaderboard.
package domain

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/AERESAL/VolunteerHub-Backend/internal/events"
	"github.com/AERESAL/VolunteerHub-Backend/internal/observability"
)

// Option configures the services in this package.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
	cache LeaderboardCache
}

func defaultOptions(opts []Option) options {
	o := options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: newUUID,
		cache: NoopLeaderboardCache{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides how activity ids and signature tokens are generated.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// WithLeaderboardCache sets the cache invalidated after hour-changing writes.
func WithLeaderboardCache(cache LeaderboardCache) Option {
	return func(o *options) {
		if cache != nil {
			o.cache = cache
		}
	}
}

// Ledger owns the create, list and delete rules for a user's activities.
type Ledger struct {
	store    ActivityStore
	validate *validator.Validate
	opts     options
}

// NewLedger constructs a Ledger.
func NewLedger(store ActivityStore, opts ...Option) *Ledger {
	return &Ledger{store: store, validate: newValidator(), opts: defaultOptions(opts)}
}

// AddActivity validates the fields and appends a new unsigned activity to the owner's collection.
func (l *Ledger) AddActivity(ctx context.Context, owner string, fields ActivityFields) (*Activity, error) {
	if err := validateStruct(l.validate, fields); err != nil {
		return nil, err
	}

	activity := Activity{
		ID:              l.opts.newID(),
		Name:            fields.Name,
		Date:            fields.Date,
		StartTime:       fields.StartTime,
		EndTime:         fields.EndTime,
		Location:        fields.Location,
		SupervisorName:  fields.SupervisorName,
		SupervisorEmail: fields.SupervisorEmail,
	}

	_, err := updateCollection(ctx, l.store, owner, func(col *ActivityCollection) (bool, []Event, error) {
		backfillIDs(col.Activities, l.opts.newID)
		for lo.ContainsBy(col.Activities, func(a Activity) bool { return a.ID == activity.ID }) {
			activity.ID = l.opts.newID()
		}
		col.Activities = append(col.Activities, activity)

		now := l.opts.now()
		return true, []Event{{
			Type:       events.TypeActivityCreated,
			ActivityID: activity.ID,
			Owner:      owner,
			OccurredAt: now,
			Payload: events.ActivityCreated{
				ActivityID: activity.ID,
				Owner:      owner,
				Name:       activity.Name,
				Date:       activity.Date,
				StartTime:  activity.StartTime,
				EndTime:    activity.EndTime,
				Location:   activity.Location,
				Hours:      RoundHours(activity.Hours()),
				OccurredAt: now,
			},
		}}, nil
	})
	if err != nil {
		return nil, err
	}

	observability.RecordActivityCreated(l.opts.now())
	l.invalidateLeaderboard(ctx)
	return &activity, nil
}

// ListActivities returns the owner's activities in insertion order, backfilling missing ids first.
func (l *Ledger) ListActivities(ctx context.Context, owner string) ([]Activity, error) {
	col, err := updateCollection(ctx, l.store, owner, l.backfill)
	if err != nil {
		return nil, err
	}
	if col.Activities == nil {
		return []Activity{}, nil
	}
	return col.Activities, nil
}

// DeleteActivity removes the activity with the given id. A pending signature token disappears with it.
func (l *Ledger) DeleteActivity(ctx context.Context, owner, activityID string) error {
	var removed Activity
	_, err := updateCollection(ctx, l.store, owner, func(col *ActivityCollection) (bool, []Event, error) {
		if !col.Exists() {
			return false, nil, ErrNotFound
		}
		backfilled := backfillIDs(col.Activities, l.opts.newID)

		_, idx, found := lo.FindIndexOf(col.Activities, func(a Activity) bool { return a.ID == activityID })
		if !found {
			if backfilled {
				// Keep the backfilled ids even though nothing is deleted.
				if err := l.store.SaveCollection(ctx, *col); err != nil {
					log.Warn().Err(err).Str("owner", owner).Msg("domain: ledger: failed to persist id backfill")
				}
			}
			return false, nil, ErrNotFound
		}

		removed = col.Activities[idx]
		col.Activities = append(col.Activities[:idx:idx], col.Activities[idx+1:]...)

		now := l.opts.now()
		return true, []Event{{
			Type:       events.TypeActivityDeleted,
			ActivityID: removed.ID,
			Owner:      owner,
			OccurredAt: now,
			Payload: events.ActivityDeleted{
				ActivityID: removed.ID,
				Owner:      owner,
				WasSigned:  removed.Signed,
				OccurredAt: now,
			},
		}}, nil
	})
	if err != nil {
		return err
	}

	observability.RecordActivityDeleted()
	l.invalidateLeaderboard(ctx)
	return nil
}

// BackfillAll assigns ids to legacy activities across every collection and returns
// the number of collections that were rewritten.
func (l *Ledger) BackfillAll(ctx context.Context) (int, error) {
	cols, err := l.store.ListCollections(ctx)
	if err != nil {
		return 0, dependency("list activities", err)
	}

	fixed := 0
	for _, stored := range cols {
		if !lo.ContainsBy(stored.Activities, func(a Activity) bool { return a.ID == "" }) {
			continue
		}
		if _, err := updateCollection(ctx, l.store, stored.Username, l.backfill); err != nil {
			return fixed, err
		}
		fixed++
	}
	return fixed, nil
}

func (l *Ledger) backfill(col *ActivityCollection) (bool, []Event, error) {
	if !col.Exists() {
		return false, nil, nil
	}
	changed := backfillIDs(col.Activities, l.opts.newID)
	if changed {
		observability.RecordIDBackfill()
	}
	return changed, nil, nil
}

func (l *Ledger) invalidateLeaderboard(ctx context.Context) {
	if err := l.opts.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("domain: leaderboard cache invalidation failed")
	}
}
