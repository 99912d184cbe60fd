package service

import (
	"context"
	"time"

	"github.com/okian/swingscore/internal/domain/scoring"
	"github.com/okian/swingscore/internal/domain/swing"
	"github.com/okian/swingscore/pkg/metrics"
)

// instrumentedScorer records engine metrics around every Score call. Both the
// synchronous path and the worker pool score through it.
type instrumentedScorer struct {
	next scoring.Scorer
}

func (s instrumentedScorer) Score(ctx context.Context, in scoring.Input) (swing.ScoredResult, error) {
	start := time.Now()
	res, err := s.next.Score(ctx, in)
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordScoringError()
		metrics.RecordErrorByComponent("engine", "scoring_error")
		return res, err
	}

	metrics.RecordAnalysisScored()
	if res.LevelFallback {
		metrics.RecordLevelFallback()
	}
	for category, v := range map[string]*int{
		string(swing.CategoryBody): res.Body,
		string(swing.CategoryBat):  res.Bat,
		string(swing.CategoryBall): res.Ball,
		"overall":                  res.Overall,
	} {
		if v != nil {
			metrics.RecordCategoryScore(category, *v)
		}
	}
	w := res.Weirdness
	for flag, on := range map[string]bool{
		"com_out_of_range":        w.COMOutOfRange,
		"excessive_head_movement": w.ExcessiveHeadMovement,
		"poor_spine_stability":    w.PoorSpineStability,
		"sequence_incorrect":      w.SequenceIncorrect,
		"insufficient_frames":     w.InsufficientFrames,
	} {
		if on {
			metrics.RecordAnomalyFlag(flag)
		}
	}
	return res, nil
}
