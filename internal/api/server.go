package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"mempoolScope/internal/monitor"
)

const defaultRecentLimit = 50

// Server is the thin control surface over the pipeline: start/stop toggles,
// counters, and recent events. No auth; deploy behind a trusted boundary.
type Server struct {
	pipeline *monitor.Pipeline
	notifier monitor.Notifier
	logger   *zap.Logger
	server   *http.Server
}

// NewServer builds the control-surface HTTP server.
func NewServer(addr string, pipeline *monitor.Pipeline, notifier monitor.Notifier, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		pipeline: pipeline,
		notifier: notifier,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/", s.handleRoot)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/start-monitoring", s.handleStart)
	mux.HandleFunc("/api/stop-monitoring", s.handleStop)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/test-telegram", s.handleTestTelegram)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/" && r.URL.Path != "/api" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, map[string]string{
		"message": "Ethereum Mempool Monitor API",
		"status":  s.pipeline.State().String(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, s.pipeline.CurrentStats())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state, err := s.pipeline.Start(r.Context())
	if err != nil {
		s.logger.Error("start monitoring failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, map[string]string{
		"message": "Monitoring started",
		"status":  state.String(),
	})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.pipeline.Stop()
	s.writeJSON(w, map[string]string{
		"message": "Monitoring stopped",
		"status":  s.pipeline.State().String(),
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultRecentLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := s.pipeline.RecentEvents(r.Context(), limit)
	if err != nil {
		s.logger.Error("recent events query failed", zap.Error(err))
		http.Error(w, "failed to load events", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, events)
}

func (s *Server) handleTestTelegram(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	message := "🧪 *INTEGRATION TEST*\n\nNotification delivery is working."
	if err := s.notifier.Send(r.Context(), message); err != nil {
		s.logger.Error("test notification failed", zap.Error(err))
		http.Error(w, "failed to send test message", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, map[string]string{
		"message": "Test message sent successfully",
		"status":  "success",
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		s.logger.Warn("response encode failed", zap.Error(err))
	}
}
