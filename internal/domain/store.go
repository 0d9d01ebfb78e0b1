package domain

import (
	"context"
	"time"
)

// ActivityStore persists one ActivityCollection document per user.
type ActivityStore interface {
	// GetCollection returns nil, nil when the user has no collection.
	GetCollection(ctx context.Context, username string) (*ActivityCollection, error)
	// SaveCollection writes the collection if the stored version still equals collection.Version
	// (zero meaning "not stored yet") and records events in the same write.
	// It returns ErrVersionConflict otherwise.
	SaveCollection(ctx context.Context, collection ActivityCollection, events ...Event) error
	// ListCollections enumerates every collection in the store's natural order.
	ListCollections(ctx context.Context) ([]ActivityCollection, error)
}

// TokenIndex is implemented by stores that keep a secondary index of pending signature tokens.
type TokenIndex interface {
	// OwnerOfToken returns "", nil when no collection holds the token unsigned.
	OwnerOfToken(ctx context.Context, token string) (string, error)
}

// User is a registered volunteer.
type User struct {
	Username     string    `json:"username"`
	UserID       string    `json:"userID"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber"`
	ZipCode      string    `json:"zipCode"`
	ProfilePic   string    `json:"profilePic,omitempty"`
	Friends      []string  `json:"friends"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserStore persists user profiles keyed by username.
type UserStore interface {
	// GetUser returns nil, nil when the user does not exist.
	GetUser(ctx context.Context, username string) (*User, error)
	// CreateUser fails with ErrUsernameTaken or ErrEmailTaken on duplicates.
	CreateUser(ctx context.Context, user User) error
	// UpdateUser writes the profile fields. Friends and the password hash are left as stored.
	UpdateUser(ctx context.Context, user User) error
	// ListUsernames returns every registered username in ascending order.
	ListUsernames(ctx context.Context) ([]string, error)
	// AddFriend appends friend to the user's list, failing with ErrNotFound for an unknown user
	// and ErrAlreadyFriends when friend is already listed.
	AddFriend(ctx context.Context, username, friend string) error
}

// SignatureRequestNotice carries everything needed to ask a supervisor for a signature.
type SignatureRequestNotice struct {
	Token           string
	Owner           string
	SubmitterName   string
	SubmitterEmail  string
	SupervisorName  string
	SupervisorEmail string
	Activity        Activity
}

// SignatureNotifier delivers signature requests to supervisors.
type SignatureNotifier interface {
	NotifySignatureRequest(ctx context.Context, notice SignatureRequestNotice) error
}

// LeaderboardCache stores the last computed leaderboard. Every Invalidate starts a new
// generation, and Set only stores a ranking computed within the current one, so a slow reader
// cannot overwrite the result of a newer write.
type LeaderboardCache interface {
	// Generation returns the current cache generation.
	Generation(ctx context.Context) (int64, error)
	// Get reports false when nothing is cached.
	Get(ctx context.Context) ([]LeaderboardEntry, bool, error)
	// Set stores entries when generation is still current and drops them otherwise.
	Set(ctx context.Context, generation int64, entries []LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

// NoopLeaderboardCache never caches.
type NoopLeaderboardCache struct{}

func (NoopLeaderboardCache) Generation(context.Context) (int64, error) { return 0, nil }

func (NoopLeaderboardCache) Get(context.Context) ([]LeaderboardEntry, bool, error) {
	return nil, false, nil
}

func (NoopLeaderboardCache) Set(context.Context, int64, []LeaderboardEntry) error { return nil }

func (NoopLeaderboardCache) Invalidate(context.Context) error { return nil }
