// Package httpapi exposes the reconciled dataset and its derived views over
// HTTP for the presentation layer (map, tables, charts, exports).
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrometeo/pluvio-monitor/internal/dataset"
)

// DatasetProvider supplies cached datasets to the handlers.
type DatasetProvider interface {
	Get(ctx context.Context, mode dataset.Mode) (*dataset.Dataset, error)
	Invalidate()
	CheckReadiness(ctx context.Context) error
}

// Server exposes the query API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	provider   DatasetProvider
	logger     *slog.Logger
}

// NewServer creates the HTTP server and mounts all routes.
func NewServer(addr string, provider DatasetProvider, logger *slog.Logger) *Server {
	s := &Server{
		provider: provider,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dates", s.handleDates)
		r.Get("/stations", s.handleStations)
		r.Get("/daily", s.handleDaily)
		r.Get("/daily.csv", s.handleDailyCSV)
		r.Get("/monthly", s.handleMonthly)
		r.Get("/monthly.csv", s.handleMonthlyCSV)
		r.Get("/regional", s.handleRegional)
		r.Get("/series", s.handleSeries)
		r.Get("/series.csv", s.handleSeriesCSV)
		r.Get("/extremes", s.handleExtremes)
		r.Post("/refresh", s.handleRefresh)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.provider.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// getDataset resolves the dataset for the request's history mode and writes
// the error response itself on failure.
func (s *Server) getDataset(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, bool) {
	mode := dataset.ModeRecent
	if r.URL.Query().Get("history") == "full" {
		mode = dataset.ModeFull
	}

	ds, err := s.provider.Get(r.Context(), mode)
	if err != nil {
		var ingErr *dataset.IngestError
		if errors.As(err, &ingErr) {
			s.logger.Error("dataset unavailable", "feed", ingErr.Feed, "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "upstream data unavailable",
				"feed":  ingErr.Feed,
			})
			return nil, false
		}
		s.logger.Error("dataset fetch failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return nil, false
	}
	return ds, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
