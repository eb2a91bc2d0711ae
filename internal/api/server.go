// Package api serves the scoring engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/resure-ai/resure/internal/config"
	"github.com/resure-ai/resure/internal/decision"
	"github.com/resure-ai/resure/internal/metrics"
	"github.com/resure-ai/resure/internal/pipeline"
	"github.com/resure-ai/resure/internal/store"
)

// Server holds the collaborators behind the HTTP routes. Store may be nil, in
// which case run persistence and the run endpoints are unavailable.
type Server struct {
	cfg      config.ServerConfig
	pipeline *pipeline.Pipeline
	decider  *decision.Engine
	store    store.Store
	recorder *metrics.Recorder
}

// New creates a Server.
func New(cfg config.ServerConfig, p *pipeline.Pipeline, d *decision.Engine, st store.Store, rec *metrics.Recorder) *Server {
	if rec == nil {
		rec = metrics.NewRecorder()
	}
	return &Server{cfg: cfg, pipeline: p, decider: d, store: st, recorder: rec}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(s.instrument)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.recorder.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(rateLimit(s.cfg.RateLimit, s.cfg.RateBurst))
		r.Use(maxBody(s.cfg.MaxBodyBytes))

		r.Post("/submissions/score", s.handleScore)
		r.Post("/submissions/decide", s.handleDecide)

		r.Route("/runs", func(r chi.Router) {
			r.Use(s.requireStore)
			r.Get("/", s.handleListRuns)
			r.Get("/stats", s.handleRunStats)
			r.Get("/{runID}", s.handleGetRun)
			r.Get("/{runID}/submissions", s.handleListSubmissions)
		})
	})
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("api: shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("api: shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("api: starting server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("api: write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
