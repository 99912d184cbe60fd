package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/swingscore/internal/adapters/repository"
	"github.com/okian/swingscore/internal/domain/types"
)

// HistoryProvider lists a player's scored analyses.
type HistoryProvider interface {
	History(ctx context.Context, playerID string, limit int) ([]types.Entry, error)
}

// PlayersHandler serves per-player reads.
type PlayersHandler struct {
	deps HistoryProvider
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps HistoryProvider) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

type historyResponse struct {
	PlayerID string        `json:"player_id"`
	Entries  []types.Entry `json:"entries"`
}

// HandleHistory handles GET /players/{id}/history?limit=N, newest first.
func (h *PlayersHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.history"
	playerID := r.PathValue("id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("limit must be a positive integer")))
			return
		}
		limit = n
	}

	entries, err := h.deps.History(r.Context(), playerID, limit)
	switch {
	case errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, err, nil))
	default:
		if entries == nil {
			entries = []types.Entry{}
		}
		writeJSON(w, http.StatusOK, historyResponse{PlayerID: playerID, Entries: entries})
	}
}
