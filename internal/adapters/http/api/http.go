// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/swingscore/internal/domain/model"
	"github.com/okian/swingscore/internal/domain/swing"
	"github.com/okian/swingscore/internal/domain/types"
)

// maxBodyBytes bounds a single analysis payload.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Score runs an analysis synchronously and stores it.
	Score(ctx context.Context, a model.Analysis) (model.Record, error)
	// Submit queues an analysis for the worker pool.
	Submit(ctx context.Context, a model.Analysis) (types.Submission, error)

	Result(ctx context.Context, id string) (model.Record, error)
	History(ctx context.Context, playerID string, limit int) ([]types.Entry, error)
	GetStats(ctx context.Context) types.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	analysesHandler *AnalysesHandler
	playersHandler  *PlayersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		analysesHandler: NewAnalysesHandler(deps),
		playersHandler:  NewPlayersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /score", MetricsMiddleware(s.analysesHandler.HandleScore, "score"))
	mux.HandleFunc("POST /analyses", MetricsMiddleware(s.analysesHandler.HandleSubmit, "analyses"))
	mux.HandleFunc("GET /analyses/{id}", MetricsMiddleware(s.analysesHandler.HandleGetAnalysis, "analysis"))
	mux.HandleFunc("GET /players/{id}/history", MetricsMiddleware(s.playersHandler.HandleHistory, "history"))
}

// analysisRequest is the body of POST /score and POST /analyses.
type analysisRequest struct {
	AnalysisID        string                  `json:"analysis_id"`
	PlayerID          string                  `json:"player_id"`
	Mode              string                  `json:"mode"`
	Level             string                  `json:"level"`
	CalibrationFactor *float64                `json:"calibration_factor"`
	MinNormalization  *float64                `json:"min_normalization"`
	Measurements      swing.RawMeasurementSet `json:"measurements"`
}

// toAnalysis validates the request. An unknown level is accepted; the engine
// falls back to its default target and says so in the result.
func (req *analysisRequest) toAnalysis() (model.Analysis, error) {
	mode, ok := swing.ParseMode(req.Mode)
	if !ok {
		return model.Analysis{}, errors.New("unknown mode " + req.Mode + "; want player or model")
	}
	level, _ := swing.ParseLevel(req.Level)
	if req.CalibrationFactor != nil && *req.CalibrationFactor <= 0 {
		return model.Analysis{}, errors.New("calibration_factor must be positive")
	}
	if req.MinNormalization != nil && *req.MinNormalization <= 0 {
		return model.Analysis{}, errors.New("min_normalization must be positive")
	}
	return model.Analysis{
		ID:       strings.TrimSpace(req.AnalysisID),
		PlayerID: strings.TrimSpace(req.PlayerID),
		Raw:      req.Measurements,
		Config: swing.ScoringConfig{
			Mode:              mode,
			Level:             level,
			CalibrationFactor: req.CalibrationFactor,
			MinNormalization:  req.MinNormalization,
		},
		SubmittedAt: time.Now(),
	}, nil
}

func decodeAnalysis(w http.ResponseWriter, r *http.Request) (model.Analysis, error) {
	var req analysisRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return model.Analysis{}, err
	}
	return req.toAnalysis()
}

// analysisResponse is the read shape of a stored analysis.
type analysisResponse struct {
	AnalysisID  string              `json:"analysis_id"`
	PlayerID    string              `json:"player_id,omitempty"`
	Status      string              `json:"status"`
	Error       string              `json:"error,omitempty"`
	SubmittedAt time.Time           `json:"submitted_at"`
	ScoredAt    time.Time           `json:"scored_at"`
	Result      *swing.ScoredResult `json:"result,omitempty"`
}

func newAnalysisResponse(rec model.Record) analysisResponse { //nolint:gocritic // hugeParam: records are values
	out := analysisResponse{
		AnalysisID:  rec.Analysis.ID,
		PlayerID:    rec.Analysis.PlayerID,
		Status:      types.StatusScored,
		SubmittedAt: rec.Analysis.SubmittedAt,
		ScoredAt:    rec.ScoredAt,
	}
	if rec.Err != "" {
		out.Status = types.StatusFailed
		out.Error = rec.Err
		return out
	}
	out.Result = &rec.Result
	return out
}

type ackResponse struct {
	AnalysisID string `json:"analysis_id"`
	Status     string `json:"status"`
	Duplicate  bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
