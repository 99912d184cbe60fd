// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/swingscore/internal/domain/swing"
)

// Analysis is one swing submitted for scoring.
type Analysis struct {
	ID          string                  // unique id for idempotency
	PlayerID    string                  // optional; empty analyses are not indexed by player
	Raw         swing.RawMeasurementSet // measurements as captured
	Config      swing.ScoringConfig
	SubmittedAt time.Time
}

// Record is a scored analysis as kept by the store. Err is set instead of
// Result when the engine refused the analysis.
type Record struct {
	Analysis Analysis
	Result   swing.ScoredResult
	Err      string
	ScoredAt time.Time
}

// Latency is the time between submission and scoring. It is zero when the
// submission time is unknown.
func (r Record) Latency() time.Duration {
	if r.Analysis.SubmittedAt.IsZero() || r.ScoredAt.Before(r.Analysis.SubmittedAt) {
		return 0
	}
	return r.ScoredAt.Sub(r.Analysis.SubmittedAt)
}
