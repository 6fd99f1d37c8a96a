package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/selimozcann/urlrisk/internal/analyzer"
	"github.com/selimozcann/urlrisk/internal/model"
	"github.com/selimozcann/urlrisk/internal/observability"
)

const maxBodyBytes = 1 << 20

// Messages returned before the engine is consulted.
const (
	msgURLRequired = "URL is required and must be a valid string."
	msgBadJSON     = "Invalid JSON body."
)

// Server holds the dependencies of the REST routes.
type Server struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	analyze func(input any) model.Verdict
}

// NewServer wires the routes to the scoring engine. metrics may be nil.
func NewServer(logger *slog.Logger, metrics *observability.Metrics) *Server {
	return &Server{logger: logger, metrics: metrics, analyze: analyzer.Analyze}
}

// RegisterRoutes registers all REST API routes on the given ServeMux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", healthz)
	mux.HandleFunc("GET /readyz", readyz)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("POST /api/check", s.check)
}

type checkRequest struct {
	URL any `json:"url"`
}

func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large.")
			return
		}
		writeError(w, http.StatusBadRequest, msgBadJSON)
		return
	}

	raw, ok := req.URL.(string)
	if !ok || raw == "" {
		writeError(w, http.StatusBadRequest, msgURLRequired)
		return
	}

	v := s.analyze(raw)
	if s.metrics != nil {
		s.metrics.Observe(v)
	}
	if v.Failed() {
		s.logger.Debug("url rejected", "reason", v.ErrorMessage())
		writeError(w, http.StatusBadRequest, v.ErrorMessage())
		return
	}

	s.logger.Debug("url scored",
		"hostname", v.DomainInfo.Hostname,
		"score", v.Score,
		"risk_level", v.RiskLevel,
	)
	writeJSON(w, http.StatusOK, v)
}

func healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func readyz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
