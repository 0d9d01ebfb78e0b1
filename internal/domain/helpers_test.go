package domain_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
	"github.com/AERESAL/VolunteerHub-Backend/internal/persistence/memory"
)

func sampleFields() domain.ActivityFields {
	return domain.ActivityFields{
		Name:            "Food bank shift",
		Date:            "2024-03-02",
		StartTime:       "09:00",
		EndTime:         "17:30",
		Location:        "Community Center",
		SupervisorName:  "Dana Supervisor",
		SupervisorEmail: "dana@example.org",
	}
}

// sequentialIDs returns a generator producing prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []domain.SignatureRequestNotice
	err     error
}

func (n *recordingNotifier) NotifySignatureRequest(_ context.Context, notice domain.SignatureRequestNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return n.err
}

func (n *recordingNotifier) last() domain.SignatureRequestNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.notices[len(n.notices)-1]
}

// scanOnlyStore hides the memory store's token index so lookups fall back to a full scan.
type scanOnlyStore struct {
	inner *memory.Store
}

func (s scanOnlyStore) GetCollection(ctx context.Context, username string) (*domain.ActivityCollection, error) {
	return s.inner.GetCollection(ctx, username)
}

func (s scanOnlyStore) SaveCollection(ctx context.Context, col domain.ActivityCollection, events ...domain.Event) error {
	return s.inner.SaveCollection(ctx, col, events...)
}

func (s scanOnlyStore) ListCollections(ctx context.Context) ([]domain.ActivityCollection, error) {
	return s.inner.ListCollections(ctx)
}

// racingStore lets a competing writer commit just before each of the first `races` saves,
// forcing a version conflict on those saves.
type racingStore struct {
	*memory.Store
	races   int
	compete func(ctx context.Context, store *memory.Store)
	saves   int
}

func (s *racingStore) SaveCollection(ctx context.Context, col domain.ActivityCollection, events ...domain.Event) error {
	s.saves++
	if s.races > 0 {
		s.races--
		s.compete(ctx, s.Store)
	}
	return s.Store.SaveCollection(ctx, col, events...)
}

// failingUsers fails every lookup.
type failingUsers struct{}

var errUsersDown = errors.New("users unavailable")

func (failingUsers) GetUser(context.Context, string) (*domain.User, error) {
	return nil, errUsersDown
}

func (failingUsers) CreateUser(context.Context, domain.User) error { return errUsersDown }

func (failingUsers) UpdateUser(context.Context, domain.User) error { return errUsersDown }

func (failingUsers) ListUsernames(context.Context) ([]string, error) { return nil, errUsersDown }

func (failingUsers) AddFriend(context.Context, string, string) error { return errUsersDown }

// seedLegacy stores activities verbatim, as records written before ids existed.
func seedLegacy(ctx context.Context, store *memory.Store, username string, activities ...domain.Activity) error {
	return store.SaveCollection(ctx, domain.ActivityCollection{Username: username, Activities: activities})
}
