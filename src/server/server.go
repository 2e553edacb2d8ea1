// Package server exposes the simulator over HTTP: POST /api/simulation,
// POST /api/history, and GET /api/health. Handlers validate, load results
// from Postgres, run the simulation, and return chart-ready JSON. All
// cross-cutting behavior (timing logs, CORS, rate limiting, response
// caching) lives in middleware so the handlers stay pure request->response.
package server

import (
	"database/sql"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Simulation sizing. The full endpoint runs deep; history trades depth for
// twelve windows.
const (
	simulationCount        = 100_000
	historySimulationCount = 10_000
	historySteps           = 12

	maxCompetitors = 32
	minWindowDays  = 28
)

const (
	cacheTTL        = time.Hour
	cacheSweep      = 10 * time.Minute
	rateLimitPerSec = 5
	rateLimitBurst  = 10
)

// Config carries the server's tunables.
type Config struct {
	// AllowedOrigins lists the origins CORS will accept.
	AllowedOrigins []string
	// DisableRateLimit and DisableCache turn the respective middleware off
	// (used by tests and local development).
	DisableRateLimit bool
	DisableCache     bool
}

// Server holds the shared state behind the HTTP handlers.
type Server struct {
	db       *sql.DB
	cfg      Config
	cache    *gocache.Cache
	limiters *clientLimiters
}

// New builds a Server around an open database handle.
func New(db *sql.DB, cfg Config) *Server {
	return &Server{
		db:       db,
		cfg:      cfg,
		cache:    gocache.New(cacheTTL, cacheSweep),
		limiters: newClientLimiters(rateLimitPerSec, rateLimitBurst),
	}
}

// Handler assembles the route table with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/simulation", s.handleSimulation)
	mux.HandleFunc("/api/history", s.handleHistory)

	var h http.Handler = mux
	if !s.cfg.DisableCache {
		h = s.withCache(h)
	}
	if !s.cfg.DisableRateLimit {
		h = s.withRateLimit(h)
	}
	h = s.withTiming(h)
	h = s.withCORS(h)
	return h
}
