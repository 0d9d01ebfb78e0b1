package domain

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AERESAL/VolunteerHub-Backend/internal/observability"
)

// LeaderboardEntry is the derived per-user hour total.
type LeaderboardEntry struct {
	Username        string  `json:"username"`
	DisplayName     string  `json:"displayName"`
	ApprovedHours   float64 `json:"approvedHours"`
	UnapprovedHours float64 `json:"unapprovedHours"`
}

// LeaderboardAggregator ranks users by confirmed volunteer hours.
type LeaderboardAggregator struct {
	store ActivityStore
	users UserStore
	opts  options
}

// NewLeaderboardAggregator constructs a LeaderboardAggregator.
func NewLeaderboardAggregator(store ActivityStore, users UserStore, opts ...Option) *LeaderboardAggregator {
	return &LeaderboardAggregator{store: store, users: users, opts: defaultOptions(opts)}
}

// Leaderboard serves the cached ranking when present and recomputes it otherwise. The
// generation is read before computing so an invalidation racing the computation wins.
func (a *LeaderboardAggregator) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	generation, err := a.opts.cache.Generation(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("domain: leaderboard cache generation read failed")
		return a.Compute(ctx)
	}

	cached, ok, err := a.opts.cache.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("domain: leaderboard cache read failed")
	} else if ok {
		return cached, nil
	}

	entries, err := a.Compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.opts.cache.Set(ctx, generation, entries); err != nil {
		log.Warn().Err(err).Msg("domain: leaderboard cache write failed")
	}
	return entries, nil
}

// Compute scans every collection and returns one entry per user that has one, sorted by
// approved hours descending and then by username.
func (a *LeaderboardAggregator) Compute(ctx context.Context) ([]LeaderboardEntry, error) {
	start := time.Now()
	defer func() { observability.ObserveLeaderboardCompute(time.Since(start)) }()

	cols, err := a.store.ListCollections(ctx)
	if err != nil {
		return nil, dependency("list activities", err)
	}

	entries := make([]LeaderboardEntry, 0, len(cols))
	for _, col := range cols {
		var approved, unapproved float64
		for _, activity := range col.Activities {
			if activity.Signed {
				approved += activity.Hours()
			} else {
				unapproved += activity.Hours()
			}
		}
		entries = append(entries, LeaderboardEntry{
			Username:        col.Username,
			ApprovedHours:   RoundHours(approved),
			UnapprovedHours: RoundHours(unapproved),
		})
	}

	slices.SortStableFunc(entries, func(x, y LeaderboardEntry) int {
		if c := cmp.Compare(y.ApprovedHours, x.ApprovedHours); c != 0 {
			return c
		}
		return strings.Compare(x.Username, y.Username)
	})

	for i := range entries {
		entries[i].DisplayName = a.displayName(ctx, entries[i].Username)
	}
	return entries, nil
}

// displayName never fails: any lookup problem falls back to the username.
func (a *LeaderboardAggregator) displayName(ctx context.Context, username string) string {
	user, err := a.users.GetUser(ctx, username)
	if err != nil {
		log.Warn().Err(err).Str("username", username).Msg("domain: leaderboard profile lookup failed")
		return username
	}
	if user == nil {
		return username
	}
	if name := strings.TrimSpace(user.FirstName + " " + user.LastName); name != "" {
		return name
	}
	return username
}
