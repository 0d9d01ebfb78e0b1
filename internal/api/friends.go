package api

import (
	"errors"
	"net/http"

	"github.com/AERESAL/VolunteerHub-Backend/internal/auth"
	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
)

func (h *Handler) listFriends(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", auth.ErrMissingToken.Error())
		return
	}

	friends, err := h.accounts.Friends(r.Context(), claims.Username)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FriendsResponse{Friends: friends})
}

func (h *Handler) searchFriends(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", auth.ErrMissingToken.Error())
		return
	}

	users, err := h.accounts.SearchUsers(r.Context(), claims.Username, r.URL.Query().Get("query"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserSearchResponse{Users: users})
}

func (h *Handler) addFriend(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", auth.ErrMissingToken.Error())
		return
	}

	var req AddFriendRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	err := h.accounts.AddFriend(r.Context(), claims.Username, req.Friend)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, AddFriendResponse{Message: "Friend added.", Friend: req.Friend})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", "Missing friend.")
	case errors.Is(err, domain.ErrSelfFriend):
		writeError(w, http.StatusBadRequest, "invalid_request", "Cannot add yourself.")
	case errors.Is(err, domain.ErrAlreadyFriends):
		writeError(w, http.StatusBadRequest, "duplicate", "Already friends.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "User not found.")
	default:
		writeDomainError(w, r, err)
	}
}
