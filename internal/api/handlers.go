// Package api exposes the VolunteerHub HTTP handlers.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/AERESAL/VolunteerHub-Backend/internal/auth"
	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
)

// Config holds handler dependencies.
type Config struct {
	Ledger      *domain.Ledger
	Signatures  *domain.SignatureWorkflow
	Leaderboard *domain.LeaderboardAggregator
	Accounts    *domain.Accounts
	Auth        auth.Config

	// SignatureRatePerSecond and SignatureRateBurst bound signature requests per user.
	// A non-positive rate disables the limit.
	SignatureRatePerSecond float64
	SignatureRateBurst     int

	// MaxBodyBytes caps JSON request bodies. Zero selects 100 KiB.
	MaxBodyBytes int64
}

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	ledger       *domain.Ledger
	signatures   *domain.SignatureWorkflow
	leaderboard  *domain.LeaderboardAggregator
	accounts     *domain.Accounts
	authCfg      auth.Config
	limiter      *keyedLimiter
	maxBodyBytes int64
}

// NewHandler builds a Handler.
func NewHandler(cfg Config) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{
		ledger:       cfg.Ledger,
		signatures:   cfg.Signatures,
		leaderboard:  cfg.Leaderboard,
		accounts:     cfg.Accounts,
		authCfg:      cfg.Auth,
		limiter:      newKeyedLimiter(cfg.SignatureRatePerSecond, cfg.SignatureRateBurst),
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

var endpoints = []string{
	"POST /signup",
	"POST /login",
	"POST /logout",
	"GET /validate-session",
	"POST /activities",
	"GET /activities/{username}",
	"DELETE /activities/{id}",
	"POST /send-signature-request",
	"GET /activity-by-token/{token}",
	"POST /sign-activity/{token}",
	"GET /users",
	"PUT /users",
	"GET /leaderboard",
	"GET /api/friends",
	"GET /api/friends/search",
	"POST /api/friends/add",
}

// RegisterRoutes wires endpoints to the router. Routes in the protected group require a session token.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.index).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/signup", h.signup).Methods(http.MethodPost)
	r.HandleFunc("/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.logout).Methods(http.MethodPost)
	r.HandleFunc("/validate-session", h.validateSession).Methods(http.MethodGet)
	r.HandleFunc("/activity-by-token/{token}", h.activityByToken).Methods(http.MethodGet)
	r.HandleFunc("/sign-activity/{token}", h.signActivity).Methods(http.MethodPost)
	r.HandleFunc("/leaderboard", h.getLeaderboard).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()
	protected.Use(auth.NewMiddleware(h.authCfg, auth.SkipPreflight).Wrap)
	protected.HandleFunc("/activities", h.createActivity).Methods(http.MethodPost)
	protected.HandleFunc("/activities/{username}", h.listActivities).Methods(http.MethodGet)
	protected.HandleFunc("/activities/{id}", h.deleteActivity).Methods(http.MethodDelete)
	protected.HandleFunc("/send-signature-request", h.sendSignatureRequest).Methods(http.MethodPost)
	protected.HandleFunc("/users", h.getUser).Methods(http.MethodGet)
	protected.HandleFunc("/users", h.updateUser).Methods(http.MethodPut)
	protected.HandleFunc("/api/friends", h.listFriends).Methods(http.MethodGet)
	protected.HandleFunc("/api/friends/search", h.searchFriends).Methods(http.MethodGet)
	protected.HandleFunc("/api/friends/add", h.addFriend).Methods(http.MethodPost)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "VolunteerHub Backend API",
		"status":    "running",
		"endpoints": endpoints,
	})
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", auth.ErrMissingToken.Error())
		return
	}

	var fields domain.ActivityFields
	if !h.decodeJSON(w, r, &fields) {
		return
	}

	activity, err := h.ledger.AddActivity(r.Context(), claims.Username, fields)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateActivityResponse{
		Message:  "Activity added successfully",
		Activity: *activity,
	})
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	activities, err := h.ledger.ListActivities(r.Context(), username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("api: list activities failed")
		writeJSON(w, http.StatusInternalServerError, ActivitiesResponse{Activities: []domain.Activity{}})
		return
	}
	writeJSON(w, http.StatusOK, ActivitiesResponse{Activities: activities})
}

func (h *Handler) deleteActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", auth.ErrMissingToken.Error())
		return
	}
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Activity ID is required.")
		return
	}

	if err := h.ledger.DeleteActivity(r.Context(), claims.Username, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Activity not found.")
			return
		}
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Activity deleted successfully."})
}

func (h *Handler) sendSignatureRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", auth.ErrMissingToken.Error())
		return
	}
	if !h.limiter.Allow(claims.Username) {
		writeError(w, http.StatusTooManyRequests, "rate_limited", "Too many signature requests, try again later.")
		return
	}

	var req domain.SignatureRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.signatures.RequestSignature(r.Context(), claims.Username, req); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Activity not found.")
			return
		}
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Signature request email sent to supervisor."})
}

func (h *Handler) activityByToken(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.signatures.ResolveByToken(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}

func (h *Handler) signActivity(w http.ResponseWriter, r *http.Request) {
	var body SignActivityRequest
	if !h.decodeJSON(w, r, &body) {
		return
	}

	if err := h.signatures.Confirm(r.Context(), mux.Vars(r)["token"], body.Signature); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Signed!"})
}

func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboard.Leaderboard(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("api: leaderboard failed")
		writeJSON(w, http.StatusInternalServerError, LeaderboardResponse{Leaderboard: []domain.LeaderboardEntry{}})
		return
	}
	writeJSON(w, http.StatusOK, LeaderboardResponse{Leaderboard: entries})
}
