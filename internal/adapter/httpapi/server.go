// Package httpapi exposes the read-only REST surface over the report service.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/flood-status-service/internal/domain"
	"github.com/couchcryptid/flood-status-service/internal/report"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// upstreamProbeTimeout bounds the health-check probe so a hung upstream
// cannot hold the health route open.
const upstreamProbeTimeout = 5 * time.Second

// ReportService is the aggregator surface the API serves. Implemented by
// report.Service; tests substitute a stub.
type ReportService interface {
	BuildReport(ctx context.Context, sel report.Selection) (domain.Report, error)
	LakeLevels(ctx context.Context) ([]domain.LakeLevel, error)
	RiverConditions(ctx context.Context) ([]domain.RiverCondition, error)
	FloodgateOperations(ctx context.Context) ([]domain.FloodgateOperation, error)
	NarrativeSummary(ctx context.Context) (domain.Narrative, error)
	CheckUpstream(ctx context.Context) error
}

// Server exposes the report routes plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	service    ReportService
	logger     *slog.Logger
}

// NewServer creates the API server and wires its routes.
func NewServer(addr string, service ReportService, logger *slog.Logger) *Server {
	s := &Server{
		service: service,
		logger:  logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/report", s.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/api/lake-levels", s.handleLakeLevels).Methods(http.MethodGet)
	r.HandleFunc("/api/river-conditions", s.handleRiverConditions).Methods(http.MethodGet)
	r.HandleFunc("/api/floodgate-operations", s.handleFloodgateOperations).Methods(http.MethodGet)
	r.HandleFunc("/api/narrative", s.handleNarrative).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	handler := handlers.RecoveryHandler(handlers.RecoveryLogger(&recoveryLogger{logger}))(r)
	handler = s.logRequests(handler)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
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

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r.URL.Query().Get("include"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rep, err := s.service.BuildReport(r.Context(), sel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleLakeLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.service.LakeLevels(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, levels)
}

func (s *Server) handleRiverConditions(w http.ResponseWriter, r *http.Request) {
	conditions, err := s.service.RiverConditions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conditions)
}

func (s *Server) handleFloodgateOperations(w http.ResponseWriter, r *http.Request) {
	operations, err := s.service.FloodgateOperations(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, operations)
}

func (s *Server) handleNarrative(w http.ResponseWriter, r *http.Request) {
	narrative, err := s.service.NarrativeSummary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, narrative)
}

// handleHealth probes upstream reachability: the service is healthy exactly
// when Hydromet answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), upstreamProbeTimeout)
	defer cancel()

	if err := s.service.CheckUpstream(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// writeError maps aggregation failures onto HTTP statuses: unreachable
// upstream is 503, a malformed upstream document is 502, anything else 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrMalformedPayload):
		status = http.StatusBadGateway
	}
	s.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// parseSelection converts the `include` query parameter into a Selection.
// Empty means everything.
func parseSelection(include string) (report.Selection, error) {
	if include == "" {
		return report.AllCategories(), nil
	}

	var sel report.Selection
	for _, name := range strings.Split(include, ",") {
		switch strings.TrimSpace(name) {
		case "lake_levels":
			sel.LakeLevels = true
		case "river_conditions":
			sel.RiverConditions = true
		case "floodgate_operations":
			sel.FloodgateOperations = true
		case "narrative":
			sel.Narrative = true
		case "":
		default:
			return report.Selection{}, errors.New("unknown category: " + strings.TrimSpace(name))
		}
	}
	if !sel.Any() {
		return report.Selection{}, errors.New("include selects no categories")
	}
	return sel, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// recoveryLogger adapts slog to gorilla's recovery handler interface.
type recoveryLogger struct {
	logger *slog.Logger
}

func (l *recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("panic recovered", "details", v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
