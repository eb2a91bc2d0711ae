package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/resure-ai/resure/internal/ingest"
	"github.com/resure-ai/resure/internal/metrics"
	"github.com/resure-ai/resure/internal/model"
	"github.com/resure-ai/resure/internal/pipeline"
	"github.com/resure-ai/resure/internal/quality"
	"github.com/resure-ai/resure/internal/store"
)

const defaultStatsHours = 24

type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			zap.L().Warn("api: store ping failed", zap.Error(err))
			resp["status"] = "degraded"
			resp["store"] = "unavailable"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp["store"] = "ok"
	}
	writeJSON(w, http.StatusOK, resp)
}

type scoreResponse struct {
	RunID     string              `json:"run_id,omitempty"`
	Records   []map[string]any    `json:"records"`
	Decisions []model.Decision    `json:"decisions"`
	Report    *quality.Report     `json:"report"`
	Degraded  map[string]int      `json:"degraded"`
	Phases    []model.PhaseResult `json:"phases"`
}

// handleScore runs a JSON array of raw submissions through the pipeline.
// ?save=true persists the result as a run named by ?source.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, err := ingest.ReadJSON(ctx, r.Body)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	res, err := s.pipeline.Run(ctx, in)
	if err != nil {
		if errors.Is(err, pipeline.ErrMalformedTable) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		zap.L().Error("api: pipeline run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "scoring failed")
		return
	}

	decisions := s.decider.ForTable(res.Table)
	resp := scoreResponse{
		Records:   res.Table.Maps(),
		Decisions: decisions,
		Report:    res.Report,
		Degraded:  res.Degraded,
		Phases:    res.Phases,
	}

	if save, _ := strconv.ParseBool(r.URL.Query().Get("save")); save {
		if s.store == nil {
			writeError(w, http.StatusServiceUnavailable, "run storage is not configured")
			return
		}
		source := r.URL.Query().Get("source")
		if source == "" {
			source = "api"
		}
		run, err := store.SaveRun(ctx, s.store, source, res.Report, res.Table, decisions)
		if err != nil {
			zap.L().Error("api: save run failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "saving run failed")
			return
		}
		resp.RunID = run.ID
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleDecide maps one normalized record to an underwriting decision.
func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBodyError(w, err)
		return
	}
	if body == nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	rec := make(model.Record, len(body))
	for k, v := range body {
		rec[k] = model.FromAny(v)
	}
	writeJSON(w, http.StatusOK, s.decider.ForRecord(rec))
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RunFilter{
		Status: model.RunStatus(q.Get("status")),
		Source: q.Get("source"),
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit"), 0); err != nil {
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset"), 0); err != nil {
		writeError(w, http.StatusBadRequest, "offset must be an integer")
		return
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("api: list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "listing runs failed")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRunStats(w http.ResponseWriter, r *http.Request) {
	hours, err := intParam(r.URL.Query().Get("hours"), defaultStatsHours)
	if err != nil {
		writeError(w, http.StatusBadRequest, "hours must be an integer")
		return
	}
	snap, err := metrics.Snapshot(r.Context(), s.store, hours)
	if err != nil {
		zap.L().Error("api: run stats failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "collecting run stats failed")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if _, err := s.store.GetRun(r.Context(), runID); err != nil {
		writeStoreError(w, err)
		return
	}
	subs, err := s.store.ListSubmissions(r.Context(), runID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if subs == nil {
		subs = []model.ScoredSubmission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	zap.L().Error("api: store read failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "reading run failed")
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
