// Package httptransport builds the HTTP server and its middleware chain.
package httptransport

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// ServerConfig contains tunables for the HTTP server.
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// RouteRegistrar adds routes to a router.
type RouteRegistrar interface {
	RegisterRoutes(r *mux.Router)
}

// NewRouter returns a router with every registrar mounted behind recovery, request logging and CORS.
func NewRouter(cfg ServerConfig, registrars ...RouteRegistrar) http.Handler {
	router := mux.NewRouter()
	for _, reg := range registrars {
		reg.RegisterRoutes(router)
	}
	return Chain(Recovery, RequestID, Logger, CORS(cfg.CORSOrigins))(router)
}

// NewServer creates *http.Server with provided handler.
func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 15 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
