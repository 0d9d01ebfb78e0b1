package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AERESAL/VolunteerHub-Backend/internal/auth"
	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
)

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var in domain.SignupInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	user, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, SignupResponse{Message: "User created successfully", UserID: user.UserID})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Username and password are required")
		return
	}

	session, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, LoginResponse{
		Message:  "Login successful",
		UserID:   session.UserID,
		Username: session.Username,
		Token:    session.Token,
	})
}

// logout expires the session cookie. Bearer tokens stay valid until they expire.
func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// validateSession accepts the token as a query parameter, bearer header or cookie.
func (h *Handler) validateSession(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		writeJSON(w, http.StatusBadRequest, SessionResponse{Valid: false, Message: "Token missing"})
		return
	}

	claims, err := auth.Parse(token, h.authCfg)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, SessionResponse{Valid: false, Message: "Invalid or expired token"})
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Valid: true, UserID: claims.Subject, Username: claims.Username})
}

func sessionToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", auth.ErrMissingToken.Error())
		return
	}

	user, err := h.accounts.Profile(r.Context(), claims.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		writeDomainError(w, r, err)
		return
	}

	activities, err := h.ledger.ListActivities(r.Context(), claims.Username)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{User: *user, Activities: activities})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", auth.ErrMissingToken.Error())
		return
	}

	var update domain.ProfileUpdate
	if !h.decodeJSON(w, r, &update) {
		return
	}

	if err := h.accounts.UpdateProfile(r.Context(), claims.Username, update); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Profile updated"})
}
