// Package scoring runs the full swing scoring pipeline: clamp, band-score,
// sequence check, anomaly detection and aggregation.
package scoring

import (
	"context"
	"fmt"

	"github.com/okian/swingscore/internal/domain/aggregate"
	"github.com/okian/swingscore/internal/domain/anomaly"
	"github.com/okian/swingscore/internal/domain/bands"
	"github.com/okian/swingscore/internal/domain/guardrail"
	"github.com/okian/swingscore/internal/domain/sequence"
	"github.com/okian/swingscore/internal/domain/swing"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithProfiles replaces the stock band profiles.
func WithProfiles(profiles bands.Profiles) Option {
	return func(e *Engine) {
		if len(profiles) > 0 {
			e.profiles = profiles
		}
	}
}

// WithThresholds replaces the stock anomaly thresholds.
func WithThresholds(th anomaly.Thresholds) Option {
	return func(e *Engine) {
		e.thresholds = th
	}
}

// Input is one scoring request.
type Input struct {
	Raw    swing.RawMeasurementSet
	Config swing.ScoringConfig
}

// Scorer turns measurements into a scored result.
type Scorer interface {
	// Score runs one analysis, honoring ctx for cancellation.
	Score(ctx context.Context, in Input) (swing.ScoredResult, error)
}

// Engine implements Scorer. It holds only immutable configuration, so one
// Engine may be shared by any number of goroutines.
type Engine struct {
	profiles   bands.Profiles
	thresholds anomaly.Thresholds

	scorer   *bands.Scorer
	detector *anomaly.Detector
}

// NewEngine builds an Engine. It fails when the band profiles are invalid.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		profiles:   bands.DefaultProfiles(),
		thresholds: anomaly.DefaultThresholds(),
	}

	for _, opt := range opts {
		opt(e)
	}

	scorer, err := bands.NewScorer(e.profiles)
	if err != nil {
		return nil, fmt.Errorf("build band scorer: %w", err)
	}
	e.scorer = scorer
	e.detector = anomaly.NewDetector(e.thresholds)
	return e, nil
}

// Score computes the full result for in.
func (e *Engine) Score(ctx context.Context, in Input) (swing.ScoredResult, error) {
	if err := ctx.Err(); err != nil {
		return swing.ScoredResult{}, err
	}

	mode := in.Config.Mode
	if mode == "" {
		mode = swing.ModePlayer
	}
	profile, err := e.scorer.Profile(mode)
	if err != nil {
		return swing.ScoredResult{}, err
	}

	s := guardrail.SanitizeSet(&in.Raw, in.Config)
	seq := sequence.Evaluate(s.Peaks, s.FrameRate)

	res := swing.ScoredResult{
		Mode:      mode,
		Level:     in.Config.Level,
		Metrics:   make(map[swing.MetricKind]swing.SubMetricScore),
		Sequence:  seq,
		Weirdness: e.detector.Detect(&s, seq, s.FrameCount),
	}

	for kind, v := range measured(&s) {
		if v == nil {
			continue
		}
		out, err := profile.Score(kind, *v, in.Config.Level)
		if err != nil {
			return swing.ScoredResult{}, fmt.Errorf("score %s: %w", kind, err)
		}
		if out.LevelFallback {
			res.LevelFallback = true
		}
		res.Metrics[kind] = swing.SubMetricScore{
			Metric:      kind,
			Label:       swing.Labels[kind],
			Raw:         v,
			Score:       out.Score,
			Severity:    profile.SeverityOf(out.Score),
			Explanation: explain(kind, *v, out, in.Config.Level),
		}
	}

	// With no peak at all there is no sequence evidence, so it does not
	// contribute to Body; the sequence result and flag are still reported.
	if anyPeak(s.Peaks) {
		res.Metrics[swing.MetricSequence] = swing.SubMetricScore{
			Metric:      swing.MetricSequence,
			Label:       swing.Labels[swing.MetricSequence],
			Score:       seq.Score,
			Severity:    profile.SeverityOf(seq.Score),
			Explanation: seq.Detail,
		}
	}

	e.fillAggregates(&res)
	return res, nil
}

// fillAggregates fills the category and overall scores. Overall averages the
// unrounded category means so that a category with many sub-metrics does not
// dominate, and each published number is rounded exactly once.
func (e *Engine) fillAggregates(res *swing.ScoredResult) {
	var categories []*float64
	for _, c := range swing.Categories() {
		var scores []*float64
		for _, kind := range c.Metrics {
			if m, ok := res.Metrics[kind]; ok {
				score := m.Score
				scores = append(scores, &score)
			}
		}
		mean := aggregate.Mean(scores)
		categories = append(categories, mean)
		switch c.Category {
		case swing.CategoryBody:
			res.Body = aggregate.Round(mean)
		case swing.CategoryBat:
			res.Bat = aggregate.Round(mean)
		case swing.CategoryBall:
			res.Ball = aggregate.Round(mean)
		}
	}
	res.Overall = aggregate.Aggregate(categories)
}

// measured lists the band-scored metrics with their sanitized values.
func measured(s *swing.SanitizedMeasurementSet) map[swing.MetricKind]*float64 {
	return map[swing.MetricKind]*float64{
		swing.MetricCOMForward:    s.COMForwardPct,
		swing.MetricHeadMovement:  s.HeadMovementIn,
		swing.MetricSpineStd:      s.SpineStdDeg,
		swing.MetricBatSpeed:      s.BatSpeedMPH,
		swing.MetricAttackAngle:   s.AttackAngleDeg,
		swing.MetricTimeInZone:    s.TimeInZoneMS,
		swing.MetricExitVelo90:    s.ExitVelo90MPH,
		swing.MetricLaunchAngle90: s.LaunchAngle90Deg,
		swing.MetricBarrelRate:    s.BarrelRatePct,
		swing.MetricHardHitRate:   s.HardHitRatePct,
	}
}

func anyPeak(p swing.Peaks) bool {
	return p.Pelvis != nil || p.Torso != nil || p.Arm != nil || p.Bat != nil
}

func explain(kind swing.MetricKind, v float64, out bands.Outcome, level swing.Level) string {
	if out.Scaled {
		target := fmt.Sprintf("%s target %.1f", level, out.Target)
		if out.LevelFallback {
			target = fmt.Sprintf("default target %.1f", out.Target)
		}
		return fmt.Sprintf("%.1f is %.0f%% of %s", v, out.Ratio*100, target)
	}
	if out.Band == nil {
		return fmt.Sprintf("%.1f is outside every %s band", v, kind)
	}
	return fmt.Sprintf("%.1f within %s", v, out.Band)
}
