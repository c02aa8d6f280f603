// Package api provides the HTTP surface for the play-by-play engine.
//
// @title NBA Play-by-Play Engine API
// @version 1.0
// @BasePath /v1
//
// @tag.name ingest
// @tag.description Run the engine over a game's raw rows and persist the result
//
// @tag.name possessions
// @tag.description Read back a game's split possessions
//
// @tag.name stats
// @tag.description Grouped, cached aggregate statistics over a game's events
package api

import (
	_ "expvar"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	httpSwagger "github.com/swaggo/http-swagger"

	"nbapbp.dev/enginepbp/internal/cache"
	docs "nbapbp.dev/enginepbp/internal/docs"
	"nbapbp.dev/enginepbp/internal/echo"
	"nbapbp.dev/enginepbp/internal/middleware"
	"nbapbp.dev/enginepbp/internal/store"
)

type Server struct {
	handler http.Handler
}

// NewServer wires the engine's storage layer into the minimal HTTP surface
// named in §4.11: ingest, possessions, and grouped/cached stats. logger may
// be nil, in which case request logging falls back to log.Default().
func NewServer(db *store.DB, cacheClient *cache.Client, cacheTTLs CacheTTLs, logger *log.Logger) *Server {
	echo.Info("wiring play-by-play routes...")

	possessionStore := store.NewPossessionStore(db)
	aggregateCache := store.NewAggregateCache(cacheClient, cacheTTLs.Query, cacheTTLs.Miss)

	return newServer(
		logger,
		NewIngestRoutes(possessionStore),
		NewPossessionRoutes(possessionStore),
		NewStatsRoutes(possessionStore, aggregateCache),
	)
}

// CacheTTLs bundles the TTL classes the stats route needs from config.
type CacheTTLs struct {
	Query time.Duration
	Miss  time.Duration
}

// newServer wires registrars into one mux plus the health/metrics endpoints
// every server in this codebase exposes.
func newServer(logger *log.Logger, registrars ...Registrar) *Server {
	docs.SwaggerInfo.BasePath = "/v1"
	if logger == nil {
		logger = log.Default()
	}

	mux := http.NewServeMux()

	for _, r := range registrars {
		r.RegisterRoutes(mux)
	}

	// handleHealth godoc
	// @Summary Health check
	// @Description Check if the API server is running
	// @Tags health
	// @Produce json
	// @Success 200 {object} HealthResponse
	// @Router /health [get]
	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	})

	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/", http.StatusMovedPermanently)
	})

	mux.Handle("GET /debug/vars", http.DefaultServeMux)

	handler := middleware.MetricsMiddleware(middleware.DefaultRouteNamer)(mux)
	handler = middleware.Logger(logger)(handler)
	handler = middleware.TraceMiddleware(handler)
	return &Server{handler: handler}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
