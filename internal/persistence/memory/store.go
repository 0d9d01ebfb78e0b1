// Package memory provides an in-process store for local development and tests.
package memory

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
)

type collection struct {
	activities []domain.Activity
	version    int64
}

// Store keeps activity collections, users and emitted events in memory.
// It implements domain.ActivityStore, domain.TokenIndex and domain.UserStore.
type Store struct {
	mu          sync.RWMutex
	order       []string
	collections map[string]*collection
	tokens      map[string]string
	users       map[string]domain.User
	events      []domain.Event
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]*collection),
		tokens:      make(map[string]string),
		users:       make(map[string]domain.User),
	}
}

// GetCollection implements domain.ActivityStore.
func (s *Store) GetCollection(_ context.Context, username string) (*domain.ActivityCollection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.collections[username]
	if !ok {
		return nil, nil
	}
	return &domain.ActivityCollection{
		Username:   username,
		Activities: copyActivities(stored.activities),
		Version:    stored.version,
	}, nil
}

// SaveCollection implements domain.ActivityStore.
func (s *Store) SaveCollection(_ context.Context, col domain.ActivityCollection, events ...domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.collections[col.Username]
	switch {
	case !ok && col.Version != 0:
		return domain.ErrVersionConflict
	case ok && stored.version != col.Version:
		return domain.ErrVersionConflict
	}

	if !ok {
		stored = &collection{}
		s.collections[col.Username] = stored
		s.order = append(s.order, col.Username)
	}
	stored.activities = copyActivities(col.Activities)
	stored.version = col.Version + 1

	s.reindex(col.Username, stored.activities)
	s.events = append(s.events, events...)
	return nil
}

// ListCollections implements domain.ActivityStore. Collections are returned in creation order.
func (s *Store) ListCollections(_ context.Context) ([]domain.ActivityCollection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ActivityCollection, 0, len(s.order))
	for _, username := range s.order {
		stored := s.collections[username]
		out = append(out, domain.ActivityCollection{
			Username:   username,
			Activities: copyActivities(stored.activities),
			Version:    stored.version,
		})
	}
	return out, nil
}

// OwnerOfToken implements domain.TokenIndex.
func (s *Store) OwnerOfToken(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[token], nil
}

// Events returns a copy of every event recorded so far.
func (s *Store) Events() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Event(nil), s.events...)
}

// GetUser implements domain.UserStore.
func (s *Store) GetUser(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	user.Friends = slices.Clone(user.Friends)
	return &user, nil
}

// CreateUser implements domain.UserStore.
func (s *Store) CreateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return domain.ErrUsernameTaken
	}
	if s.emailTaken(user.Email, "") {
		return domain.ErrEmailTaken
	}
	user.Friends = slices.Clone(user.Friends)
	s.users[user.Username] = user
	return nil
}

// UpdateUser implements domain.UserStore.
func (s *Store) UpdateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.Username]
	if !ok {
		return domain.ErrNotFound
	}
	if s.emailTaken(user.Email, user.Username) {
		return domain.ErrEmailTaken
	}
	user.Friends = stored.Friends
	user.PasswordHash = stored.PasswordHash
	s.users[user.Username] = user
	return nil
}

// ListUsernames implements domain.UserStore.
func (s *Store) ListUsernames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.users))
	for username := range s.users {
		names = append(names, username)
	}
	slices.Sort(names)
	return names, nil
}

// AddFriend implements domain.UserStore.
func (s *Store) AddFriend(_ context.Context, username, friend string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return domain.ErrNotFound
	}
	if slices.Contains(user.Friends, friend) {
		return domain.ErrAlreadyFriends
	}
	user.Friends = append(slices.Clone(user.Friends), friend)
	s.users[username] = user
	return nil
}

func (s *Store) emailTaken(email, except string) bool {
	for username, existing := range s.users {
		if username != except && strings.EqualFold(existing.Email, email) {
			return true
		}
	}
	return false
}

// reindex rebuilds the pending token entries for username. Caller holds the write lock.
func (s *Store) reindex(username string, activities []domain.Activity) {
	for token, owner := range s.tokens {
		if owner == username {
			delete(s.tokens, token)
		}
	}
	for _, a := range activities {
		if a.State() == domain.SignatureStateRequested {
			s.tokens[*a.SignatureToken] = username
		}
	}
}

func copyActivities(in []domain.Activity) []domain.Activity {
	if in == nil {
		return nil
	}
	out := make([]domain.Activity, len(in))
	for i, a := range in {
		if a.SignatureToken != nil {
			token := *a.SignatureToken
			a.SignatureToken = &token
		}
		if a.SignatureData != nil {
			a.SignatureData = append(json.RawMessage(nil), a.SignatureData...)
		}
		out[i] = a
	}
	return out
}
