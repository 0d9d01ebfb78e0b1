package domain

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Friends returns the usernames the user has added. Unknown users have none.
func (s *Accounts) Friends(ctx context.Context, username string) ([]string, error) {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		return nil, dependency("load user", err)
	}
	if user == nil || user.Friends == nil {
		return []string{}, nil
	}
	return user.Friends, nil
}

// SearchUsers matches query case-insensitively against every username, leaving out the
// caller and the caller's friends. An empty query matches nobody.
func (s *Accounts) SearchUsers(ctx context.Context, username, query string) ([]string, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []string{}, nil
	}

	friends, err := s.Friends(ctx, username)
	if err != nil {
		return nil, err
	}
	all, err := s.users.ListUsernames(ctx)
	if err != nil {
		return nil, dependency("list users", err)
	}

	return lo.Filter(all, func(candidate string, _ int) bool {
		return candidate != username &&
			!slices.Contains(friends, candidate) &&
			strings.Contains(strings.ToLower(candidate), query)
	}), nil
}

// AddFriend links friend to the user's list. Friendship is one-directional.
func (s *Accounts) AddFriend(ctx context.Context, username, friend string) error {
	friend = strings.TrimSpace(friend)
	if friend == "" {
		return &ValidationError{Fields: []string{"friend"}}
	}
	if friend == username {
		return ErrSelfFriend
	}

	target, err := s.users.GetUser(ctx, friend)
	if err != nil {
		return dependency("load user", err)
	}
	if target == nil {
		return ErrNotFound
	}

	if err := s.users.AddFriend(ctx, username, friend); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyFriends) {
			return err
		}
		return dependency("add friend", err)
	}
	return nil
}
