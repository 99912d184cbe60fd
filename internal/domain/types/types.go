// Package types contains common types used across the application
package types

import (
	"time"

	"github.com/okian/swingscore/internal/domain/model"
)

// Entry statuses.
const (
	StatusScored = "scored"
	StatusFailed = "failed"
)

// Entry represents one row of a player's history
type Entry struct {
	AnalysisID string    `json:"analysis_id"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	ScoredAt   time.Time `json:"scored_at"`
	Mode       string    `json:"mode"`
	Level      string    `json:"level"`
	Overall    *int      `json:"overall"`
	Body       *int      `json:"body"`
	Bat        *int      `json:"bat"`
	Ball       *int      `json:"ball"`
	Flags      string    `json:"flags"`
}

// EntryFromRecord flattens a stored record into a history row. A failed
// record keeps the requested mode and level and carries its error.
func EntryFromRecord(r model.Record) Entry { //nolint:gocritic // hugeParam: records are values
	if r.Err != "" {
		return Entry{
			AnalysisID: r.Analysis.ID,
			Status:     StatusFailed,
			Error:      r.Err,
			ScoredAt:   r.ScoredAt,
			Mode:       string(r.Analysis.Config.Mode),
			Level:      string(r.Analysis.Config.Level),
		}
	}
	return Entry{
		AnalysisID: r.Analysis.ID,
		Status:     StatusScored,
		ScoredAt:   r.ScoredAt,
		Mode:       string(r.Result.Mode),
		Level:      string(r.Result.Level),
		Overall:    r.Result.Overall,
		Body:       r.Result.Body,
		Bat:        r.Result.Bat,
		Ball:       r.Result.Ball,
		Flags:      r.Result.Weirdness.Message,
	}
}

// Stats is a point-in-time view of the scoring service.
type Stats struct {
	Started       bool     `json:"started"`
	Workers       int      `json:"workers"`
	QueueCapacity int      `json:"queue_capacity"`
	QueueLength   int      `json:"queue_length"`
	Analyses      int      `json:"analyses"`
	Deduped       int64    `json:"dedupe_entries"`
	OverallMean   *float64 `json:"overall_mean"`
	OverallMedian *float64 `json:"overall_median"`
}

// Submission acknowledges an asynchronous analysis.
type Submission struct {
	ID        string `json:"analysis_id"`
	Duplicate bool   `json:"duplicate"`
}
