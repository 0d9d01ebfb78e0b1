package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
	"github.com/AERESAL/VolunteerHub-Backend/internal/events"
	"github.com/AERESAL/VolunteerHub-Backend/internal/persistence/memory"
)

func TestAddActivityAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := domain.NewLedger(store)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		activity, err := ledger.AddActivity(ctx, "alice", sampleFields())
		require.NoError(t, err)
		require.NotEmpty(t, activity.ID)
		require.False(t, seen[activity.ID], "duplicate id %s", activity.ID)
		seen[activity.ID] = true
		require.False(t, activity.Signed)
		require.False(t, activity.Approved)
		require.Nil(t, activity.SignatureToken)
	}

	list, err := ledger.ListActivities(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 5)
}

func TestAddActivityRegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ids := []string{"dup", "dup", "fresh"}
	next := func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	ledger := domain.NewLedger(store, domain.WithIDGenerator(next))

	first, err := ledger.AddActivity(ctx, "alice", sampleFields())
	require.NoError(t, err)
	second, err := ledger.AddActivity(ctx, "alice", sampleFields())
	require.NoError(t, err)

	require.Equal(t, "dup", first.ID)
	require.Equal(t, "fresh", second.ID)
}

func TestAddActivityRejectsMissingFields(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := domain.NewLedger(store)

	fields := sampleFields()
	fields.Location = ""
	fields.SupervisorEmail = ""

	_, err := ledger.AddActivity(ctx, "alice", fields)
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"location", "supervisorEmail"}, verr.Fields)

	col, err := store.GetCollection(ctx, "alice")
	require.NoError(t, err)
	require.Nil(t, col)
}

func TestAddActivityRecordsCreatedEvent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := domain.NewLedger(store)

	activity, err := ledger.AddActivity(ctx, "alice", sampleFields())
	require.NoError(t, err)

	recorded := store.Events()
	require.Len(t, recorded, 1)
	require.Equal(t, events.TypeActivityCreated, recorded[0].Type)
	payload, ok := recorded[0].Payload.(events.ActivityCreated)
	require.True(t, ok)
	require.Equal(t, activity.ID, payload.ActivityID)
	require.Equal(t, 8.5, payload.Hours)
}

func TestListActivitiesEmptyForUnknownUser(t *testing.T) {
	ledger := domain.NewLedger(memory.NewStore())

	list, err := ledger.ListActivities(context.Background(), "nobody")
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestListActivitiesBackfillsLegacyIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, seedLegacy(ctx, store, "alice",
		domain.Activity{Name: "legacy one", StartTime: "10:00", EndTime: "11:00"},
		domain.Activity{ID: "kept", Name: "has id"},
		domain.Activity{Name: "legacy two"},
	))

	ledger := domain.NewLedger(store, domain.WithIDGenerator(sequentialIDs("gen")))
	list, err := ledger.ListActivities(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"gen-1", "kept", "gen-2"}, []string{list[0].ID, list[1].ID, list[2].ID})

	col, err := store.GetCollection(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "gen-1", col.Activities[0].ID)
	require.Equal(t, "gen-2", col.Activities[2].ID)

	again, err := ledger.ListActivities(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, list, again)
}

func TestDeleteActivityPreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := domain.NewLedger(store, domain.WithIDGenerator(sequentialIDs("act")))

	for _, name := range []string{"first", "second", "third"} {
		fields := sampleFields()
		fields.Name = name
		_, err := ledger.AddActivity(ctx, "alice", fields)
		require.NoError(t, err)
	}

	require.NoError(t, ledger.DeleteActivity(ctx, "alice", "act-2"))

	list, err := ledger.ListActivities(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "first", list[0].Name)
	require.Equal(t, "third", list[1].Name)

	last := store.Events()[len(store.Events())-1]
	require.Equal(t, events.TypeActivityDeleted, last.Type)
	require.Equal(t, "act-2", last.ActivityID)
}

func TestDeleteMissingActivityLeavesCollectionUntouched(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := domain.NewLedger(store)

	_, err := ledger.AddActivity(ctx, "alice", sampleFields())
	require.NoError(t, err)
	before, err := store.GetCollection(ctx, "alice")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		err = ledger.DeleteActivity(ctx, "alice", "does-not-exist")
		require.ErrorIs(t, err, domain.ErrNotFound)
	}

	after, err := store.GetCollection(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestDeleteActivityWithoutCollection(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := domain.NewLedger(store)

	err := ledger.DeleteActivity(ctx, "ghost", "any")
	require.ErrorIs(t, err, domain.ErrNotFound)

	col, err := store.GetCollection(ctx, "ghost")
	require.NoError(t, err)
	require.Nil(t, col)
}

func TestDeleteActivityKeepsBackfillOnNotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, seedLegacy(ctx, store, "alice", domain.Activity{Name: "legacy"}))

	ledger := domain.NewLedger(store, domain.WithIDGenerator(sequentialIDs("gen")))
	err := ledger.DeleteActivity(ctx, "alice", "unknown")
	require.ErrorIs(t, err, domain.ErrNotFound)

	col, err := store.GetCollection(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, col.Activities, 1)
	require.Equal(t, "gen-1", col.Activities[0].ID)
}

func TestAddActivityRetriesOnVersionConflict(t *testing.T) {
	ctx := context.Background()
	store := &racingStore{
		Store: memory.NewStore(),
		races: 1,
		compete: func(ctx context.Context, inner *memory.Store) {
			// Another writer appends an activity between our read and our write.
			col, err := inner.GetCollection(ctx, "alice")
			if err != nil {
				panic(err)
			}
			next := domain.ActivityCollection{Username: "alice"}
			if col != nil {
				next = *col
			}
			next.Activities = append(next.Activities, domain.Activity{ID: "concurrent", Name: "other writer"})
			if err := inner.SaveCollection(ctx, next); err != nil {
				panic(err)
			}
		},
	}
	ledger := domain.NewLedger(store)

	activity, err := ledger.AddActivity(ctx, "alice", sampleFields())
	require.NoError(t, err)
	require.Equal(t, 2, store.saves)

	list, err := ledger.ListActivities(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "concurrent", list[0].ID)
	require.Equal(t, activity.ID, list[1].ID)
}

func TestAddActivityGivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := context.Background()
	counter := 0
	store := &racingStore{
		Store: memory.NewStore(),
		races: 10,
		compete: func(ctx context.Context, inner *memory.Store) {
			counter++
			col, _ := inner.GetCollection(ctx, "alice")
			next := domain.ActivityCollection{Username: "alice"}
			if col != nil {
				next = *col
			}
			next.Activities = append(next.Activities, domain.Activity{ID: "x" + string(rune('a'+counter))})
			_ = inner.SaveCollection(ctx, next)
		},
	}
	ledger := domain.NewLedger(store)

	_, err := ledger.AddActivity(ctx, "alice", sampleFields())
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrVersionConflict)

	var dep *domain.DependencyError
	require.True(t, errors.As(err, &dep))
	require.Equal(t, 3, store.saves)
}

func TestBackfillAll(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, seedLegacy(ctx, store, "alice", domain.Activity{Name: "legacy"}))
	require.NoError(t, seedLegacy(ctx, store, "bob", domain.Activity{ID: "ok"}))
	require.NoError(t, seedLegacy(ctx, store, "carol", domain.Activity{}, domain.Activity{}))

	ledger := domain.NewLedger(store)
	fixed, err := ledger.BackfillAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, fixed)

	cols, err := store.ListCollections(ctx)
	require.NoError(t, err)
	for _, col := range cols {
		for _, a := range col.Activities {
			require.NotEmpty(t, a.ID, "user %s", col.Username)
		}
	}

	fixed, err = ledger.BackfillAll(ctx)
	require.NoError(t, err)
	require.Zero(t, fixed)
}
