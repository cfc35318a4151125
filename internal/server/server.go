// Package server exposes the display API plus health, readiness, and
// metrics HTTP endpoints. The display path performs on-demand fetches
// and never touches the dedup checkpoint or the notifier.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quakewatch/internal/classify"
	"quakewatch/internal/feed"
	"quakewatch/internal/model"
	"quakewatch/internal/notify"
)

// Fetcher fetches the current feed snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.SeismicEvent, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server serves the display API.
type Server struct {
	httpServer *http.Server
	feed       Fetcher
	clock      clockwork.Clock
	logger     *slog.Logger
}

// EventView is one classified event in a display response.
type EventView struct {
	ID        string     `json:"id,omitempty"`
	Magnitude float64    `json:"magnitude"`
	Place     string     `json:"place"`
	Time      int64      `json:"time"`
	Tsunami   bool       `json:"tsunami"`
	Longitude float64    `json:"longitude"`
	Latitude  float64    `json:"latitude"`
	Severity  model.Band `json:"severity"`
	Recent    bool       `json:"recent"`
	Summary   string     `json:"summary"`
}

// EventsResponse is the display API response body.
type EventsResponse struct {
	Filter model.FilterMode `json:"filter"`
	Count  int              `json:"count"`
	Events []EventView      `json:"events"`
}

// New creates a Server with /api/v1/events, /healthz, /readyz, and
// /metrics routes.
func New(addr string, f Fetcher, ready ReadinessChecker, clock clockwork.Clock, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 40 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		feed:   f,
		clock:  clock,
		logger: logger,
	}

	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

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

// handleEvents is the interactive refresh path: fetch, classify,
// filter, respond. Events with malformed coordinates are excluded
// here and only here.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	mode, ok := classify.ParseFilterMode(r.URL.Query().Get("filter"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown filter mode, expected one of: all, mag5, 24h",
		})
		return
	}

	events, err := s.feed.Fetch(r.Context())
	if err != nil {
		status := http.StatusBadGateway
		if !errors.Is(err, feed.ErrNetwork) && !errors.Is(err, feed.ErrParse) {
			status = http.StatusInternalServerError
		}
		s.logger.Error("display fetch failed", "error", err)
		writeJSON(w, status, map[string]string{"error": "feed temporarily unavailable"})
		return
	}

	now := s.clock.Now()
	views := make([]EventView, 0, len(events))
	for _, ev := range events {
		if !ev.HasCoordinates {
			continue
		}
		if !classify.PassesFilter(ev, mode, now) {
			continue
		}
		views = append(views, EventView{
			ID:        ev.ID,
			Magnitude: ev.Magnitude,
			Place:     ev.Place,
			Time:      ev.Time,
			Tsunami:   ev.Tsunami,
			Longitude: ev.Longitude,
			Latitude:  ev.Latitude,
			Severity:  classify.Severity(ev.Magnitude),
			Recent:    classify.IsRecent(ev.Time, now.UnixMilli()),
			Summary:   notify.FormatShareText(ev),
		})
	}

	writeJSON(w, http.StatusOK, EventsResponse{
		Filter: mode,
		Count:  len(views),
		Events: views,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
