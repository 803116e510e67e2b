// Package server exposes synthesis over HTTP for callers that prefer a
// long-lived process to shelling out to the CLI.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tiktts/tiktts/internal/audio"
	"github.com/tiktts/tiktts/internal/config"
	"github.com/tiktts/tiktts/internal/observability"
	"github.com/tiktts/tiktts/internal/tts"
)

// SynthesizeRequest is the JSON body of POST /synthesize.
type SynthesizeRequest struct {
	Text    string `json:"text"`
	Speaker string `json:"speaker,omitempty"`
}

// errorResponse is the JSON body of failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// Engine is the synthesis surface the server needs.
type Engine interface {
	SynthesizeAll(ctx context.Context, input, speaker string) ([]byte, error)
	Chunks(input string) []string
}

// Server handles HTTP synthesis requests.
type Server struct {
	engine Engine
	cfg    *config.Config
	logger zerolog.Logger
}

// New creates a server over the given engine.
func New(engine Engine, cfg *config.Config, logger zerolog.Logger) *Server {
	return &Server{
		engine: engine,
		cfg:    cfg,
		logger: logger,
	}
}

// Routes builds the HTTP mux: synthesis, health, readiness, and metrics.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/synthesize", s.handleSynthesize)
	mux.HandleFunc("/health", observability.HealthCheckHandler())
	mux.HandleFunc("/ready", observability.ReadinessHandler(observability.Check{
		Name: "config",
		Fn:   s.configCheck,
	}))

	if s.cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	return mux
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	logger := s.logger.With().Str("correlation_id", observability.NewCorrelationID()).Logger()

	var req SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	metrics := observability.StartSynthesis()
	chunks := len(s.engine.Chunks(req.Text))

	data, err := s.engine.SynthesizeAll(r.Context(), req.Text, req.Speaker)
	if err != nil {
		metrics.End(false, chunks, 0)
		s.writeSynthesisError(w, logger, err)
		return
	}

	metrics.End(true, chunks, len(data))
	logger.Info().Int("bytes", len(data)).Int("chunks", chunks).Msg("synthesis complete")

	w.Header().Set("Content-Type", string(audio.Detect(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// writeSynthesisError maps synthesis error kinds onto HTTP statuses:
// client mistakes are 400, upstream and transport failures are 502, and
// undecodable envelopes are 500.
func (s *Server) writeSynthesisError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var (
		upstream  *tts.UpstreamError
		transport *tts.TransportError
		decode    *tts.DecodeError
	)

	switch {
	case errors.Is(err, tts.ErrEmptyText):
		observability.RecordError("input")
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &upstream):
		observability.RecordError("upstream")
		logger.Error().Err(err).Msg("upstream reported failure")
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &transport):
		observability.RecordError("transport")
		logger.Error().Err(err).Msg("transport failure")
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &decode):
		observability.RecordError("decode")
		logger.Error().Err(err).Msg("response could not be decoded")
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		observability.RecordError("internal")
		logger.Error().Err(err).Msg("synthesis failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// configCheck reports readiness based on credential presence.
func (s *Server) configCheck(ctx context.Context) (bool, error) {
	if err := s.cfg.Validate(); err != nil {
		return false, err
	}
	return true, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
