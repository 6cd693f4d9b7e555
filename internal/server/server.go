// Package server exposes the agent over HTTP: POST /trigger-agent to
// submit a device event and GET /health for readiness probes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Cyclone1070/otagent/internal/agent"
	"github.com/Cyclone1070/otagent/internal/orchestrator"
	"github.com/rs/zerolog"
)

// EventHandler runs one agent run for one inbound event.
type EventHandler interface {
	HandleEvent(ctx context.Context, req agent.EventRequest) (*agent.RunResult, error)
}

// Server routes HTTP requests to the agent service.
type Server struct {
	handler EventHandler
	logger  zerolog.Logger
	mux     *http.ServeMux
}

// New creates a Server around the given event handler.
func New(handler EventHandler, logger zerolog.Logger) *Server {
	s := &Server{
		handler: handler,
		logger:  logger.With().Str("component", "server").Logger(),
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("/trigger-agent", s.handleTriggerAgent)
	s.mux.HandleFunc("/health", s.handleHealth)
	return s
}

// Handler returns the root HTTP handler with request logging attached.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

type triggerResponse struct {
	Success     bool   `json:"success"`
	AgentOutput string `json:"agent_output"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleTriggerAgent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req agent.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.handler.HandleEvent(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		s.logger.Error().Err(err).Int("status", status).Str("device_id", req.DeviceID).Msg("event handling failed")
		// The message is the whole external contract: no stack traces.
		s.writeError(w, status, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, triggerResponse{
		Success:     true,
		AgentOutput: result.Output,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// statusFor maps the error taxonomy onto HTTP: validation 400, oracle
// unavailability 502, anything else 500.
func statusFor(err error) int {
	var validationErr *agent.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrOracleUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("writing response failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

// logRequests is the zerolog request-logging middleware.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
