package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/swingscore/internal/adapters/repository"
	service "github.com/okian/swingscore/internal/app"
	"github.com/okian/swingscore/internal/domain/model"
	"github.com/okian/swingscore/internal/domain/types"
)

// AnalysisDependencies is what the analysis endpoints need.
type AnalysisDependencies interface {
	Score(ctx context.Context, a model.Analysis) (model.Record, error)
	Submit(ctx context.Context, a model.Analysis) (types.Submission, error)
	Result(ctx context.Context, id string) (model.Record, error)
}

// AnalysesHandler serves scoring and result lookups.
type AnalysesHandler struct {
	deps AnalysisDependencies
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(deps AnalysisDependencies) *AnalysesHandler {
	return &AnalysesHandler{deps: deps}
}

// HandleScore handles POST /score and answers with the scored result.
func (h *AnalysesHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	a, err := decodeAnalysis(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	rec, err := h.deps.Score(r.Context(), a)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, newAnalysisResponse(rec))
	case errors.Is(err, service.ErrInvalidAnalysis):
		writeError(w, http.StatusUnprocessableEntity, "invalid_analysis", WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, err, nil))
	}
}

// HandleSubmit handles POST /analyses. New analyses are accepted with 202;
// a resubmitted ID is acknowledged with 200 and not queued again.
func (h *AnalysesHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit"
	a, err := decodeAnalysis(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	sub, err := h.deps.Submit(r.Context(), a)
	switch {
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, err, nil))
	case sub.Duplicate:
		writeJSON(w, http.StatusOK, ackResponse{AnalysisID: sub.ID, Status: "duplicate", Duplicate: true})
	default:
		writeJSON(w, http.StatusAccepted, ackResponse{AnalysisID: sub.ID, Status: "accepted"})
	}
}

// HandleGetAnalysis handles GET /analyses/{id}.
func (h *AnalysesHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_analysis"
	rec, err := h.deps.Result(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, err, nil))
	default:
		writeJSON(w, http.StatusOK, newAnalysisResponse(rec))
	}
}
