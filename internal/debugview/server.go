// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package debugview serves a read-mostly HTTP view of a running session:
// its snapshot, its track menus and the process metrics.
package debugview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/model"
	"github.com/ManuGH/sampleplayer/internal/domain/playback/session"
	"github.com/ManuGH/sampleplayer/internal/log"
	"github.com/ManuGH/sampleplayer/internal/trackmenu"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Session is the part of a playback session the debug view reads and drives.
type Session interface {
	Snapshot(ctx context.Context) (session.Snapshot, error)
	TrackMenu(ctx context.Context, t model.TrackType) (trackmenu.Menu, error)
	ApplyMenuChoice(ctx context.Context, t model.TrackType, entryID int) error
	Retry(ctx context.Context) error
	SetBackgroundAudio(ctx context.Context, enabled bool) error
}

// Config configures the debug server.
type Config struct {
	Addr            string
	RateLimit       int
	RateLimitWindow time.Duration
	ShutdownTimeout time.Duration
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// Server is the debug HTTP server.
type Server struct {
	cfg     Config
	sess    Session
	logger  zerolog.Logger
	handler http.Handler
}

// New builds the server and its routes.
func New(cfg Config, sess Session) *Server {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 120
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	s := &Server{cfg: cfg, sess: sess, logger: log.WithComponent("debugview")}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer)
	r.Use(requestID)
	r.Use(instrument)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/debug", func(r chi.Router) {
		r.Use(rateLimit(s.cfg.RateLimit, s.cfg.RateLimitWindow))
		r.Get("/session", s.handleSession)
		r.Post("/session/retry", s.handleRetry)
		r.Get("/tracks/{type}", s.handleTracks)
		r.Post("/tracks/{type}", s.handleSelectTrack)
		r.Post("/background-audio", s.handleBackgroundAudio)
		r.Post("/logging", s.handleLogging)
	})
	return traced(r, s.cfg.TracerProvider)
}

// ListenAndServe serves until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("debug listener: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str(log.FieldEvent, "debugview.listen").Str("addr", ln.Addr().String()).Msg("debug server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("debug server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sess.Snapshot(r.Context())
	if err != nil {
		writeSessionError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Retry(r.Context()); err != nil {
		writeSessionError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type menuResponse struct {
	Type      string            `json:"type"`
	Available bool              `json:"available"`
	Entries   []trackmenu.Entry `json:"entries"`
}

func (s *Server) trackType(w http.ResponseWriter, r *http.Request) (model.TrackType, bool) {
	t, err := model.ParseTrackType(chi.URLParam(r, "type"))
	if err != nil {
		writeProblem(w, r, http.StatusBadRequest, "INVALID_TRACK_TYPE", "Unknown track type", err.Error())
		return 0, false
	}
	return t, true
}

func (s *Server) writeMenu(w http.ResponseWriter, r *http.Request, t model.TrackType) {
	menu, err := s.sess.TrackMenu(r.Context(), t)
	if err != nil {
		writeSessionError(w, r, err, http.StatusInternalServerError)
		return
	}
	entries := menu.Entries
	if entries == nil {
		entries = []trackmenu.Entry{}
	}
	writeJSON(w, http.StatusOK, menuResponse{Type: t.String(), Available: menu.Available(), Entries: entries})
}

func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	t, ok := s.trackType(w, r)
	if !ok {
		return
	}
	s.writeMenu(w, r, t)
}

type selectRequest struct {
	ID *int `json:"id"`
}

func (s *Server) handleSelectTrack(w http.ResponseWriter, r *http.Request) {
	t, ok := s.trackType(w, r)
	if !ok {
		return
	}
	var req selectRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil || req.ID == nil {
		writeProblem(w, r, http.StatusBadRequest, "INVALID_BODY", `Body must be {"id": <menu entry id>}`)
		return
	}
	if err := s.sess.ApplyMenuChoice(r.Context(), t, *req.ID); err != nil {
		writeSessionError(w, r, err, http.StatusBadRequest)
		return
	}
	s.logger.Info().
		Str(log.FieldEvent, "debugview.select_track").
		Str(log.FieldTrackType, t.String()).
		Int("entry_id", *req.ID).
		Str(log.FieldCorrelationID, log.CorrelationIDFromContext(r.Context())).
		Msg("track selected via debug view")
	s.writeMenu(w, r, t)
}

// decodeToggle reads a {"<field>": bool} body strictly.
func decodeToggle(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

type backgroundAudioRequest struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) handleBackgroundAudio(w http.ResponseWriter, r *http.Request) {
	var req backgroundAudioRequest
	if err := decodeToggle(w, r, &req); err != nil || req.Enabled == nil {
		writeProblem(w, r, http.StatusBadRequest, "INVALID_BODY", `Body must be {"enabled": <bool>}`)
		return
	}
	if err := s.sess.SetBackgroundAudio(r.Context(), *req.Enabled); err != nil {
		writeSessionError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": *req.Enabled})
}

type loggingRequest struct {
	Verbose *bool `json:"verbose"`
}

func (s *Server) handleLogging(w http.ResponseWriter, r *http.Request) {
	var req loggingRequest
	if err := decodeToggle(w, r, &req); err != nil || req.Verbose == nil {
		writeProblem(w, r, http.StatusBadRequest, "INVALID_BODY", `Body must be {"verbose": <bool>}`)
		return
	}
	log.SetVerbose(*req.Verbose)
	s.logger.Info().
		Str(log.FieldEvent, "debugview.logging").
		Bool("verbose", *req.Verbose).
		Str(log.FieldCorrelationID, log.CorrelationIDFromContext(r.Context())).
		Msg("log verbosity changed via debug view")
	writeJSON(w, http.StatusOK, map[string]bool{"verbose": log.Verbose()})
}
