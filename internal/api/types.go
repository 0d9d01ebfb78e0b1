package api

import (
	"encoding/json"

	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
)

// MessageResponse is the generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateActivityResponse acknowledges a stored activity.
type CreateActivityResponse struct {
	Message  string          `json:"message"`
	Activity domain.Activity `json:"activity"`
}

// ActivitiesResponse lists a user's activities.
type ActivitiesResponse struct {
	Activities []domain.Activity `json:"activities"`
}

// SignActivityRequest carries the opaque signature captured by the supervisor form.
type SignActivityRequest struct {
	Signature json.RawMessage `json:"signature"`
}

// LeaderboardResponse wraps the ranking.
type LeaderboardResponse struct {
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

type SignupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userID"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message  string `json:"message"`
	UserID   string `json:"userID"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// SessionResponse reports whether a session token is still valid.
type SessionResponse struct {
	Valid    bool   `json:"valid"`
	Message  string `json:"message,omitempty"`
	UserID   string `json:"userID,omitempty"`
	Username string `json:"username,omitempty"`
}

// ProfileResponse is the user's profile with their activities. The password hash is never serialised.
type ProfileResponse struct {
	domain.User
	Activities []domain.Activity `json:"activities"`
}

type FriendsResponse struct {
	Friends []string `json:"friends"`
}

type UserSearchResponse struct {
	Users []string `json:"users"`
}

type AddFriendRequest struct {
	Friend string `json:"friend"`
}

type AddFriendResponse struct {
	Message string `json:"message"`
	Friend  string `json:"friend"`
}
