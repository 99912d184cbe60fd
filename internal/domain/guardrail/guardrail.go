// Package guardrail clamps raw pose-pipeline measurements into physically
// plausible ranges before anything downstream sees them.
//
// Missing and non-finite values become nil. They are never replaced with a
// number, since a substituted number would move a score.
package guardrail

import (
	"fmt"
	"math"

	"github.com/okian/swingscore/internal/domain/swing"
)

// Kind selects the clamp interval.
type Kind string

// Clamp kinds.
const (
	KindCOMForward   Kind = "com_forward_pct"
	KindHeadMovement Kind = "head_movement"
	KindScore        Kind = "score"
	KindBatSpeed     Kind = "bat_speed"
	KindExitVelocity Kind = "exit_velocity"
	KindAttackAngle  Kind = "attack_angle"
	KindSpineStd     Kind = "spine_std"
	KindLaunchAngle  Kind = "launch_angle"
	KindPercentage   Kind = "percentage"
	KindTimeInZone   Kind = "time_in_zone"
	KindFrameRate    Kind = "frame_rate"
)

// defaultMinNormalization keeps COM% derivation away from a zero span.
const defaultMinNormalization = 1e-6

// Range is a closed interval.
type Range struct {
	Min float64
	Max float64
}

// Ranges returns the clamp interval of every kind.
func Ranges() map[Kind]Range {
	return map[Kind]Range{
		KindCOMForward:   {0, 200},
		KindHeadMovement: {0, 24},
		KindScore:        {0, 100},
		KindBatSpeed:     {20, 120},
		KindExitVelocity: {30, 120},
		KindAttackAngle:  {-30, 45},
		KindSpineStd:     {0, 30},
		KindLaunchAngle:  {-90, 90},
		KindPercentage:   {0, 100},
		KindTimeInZone:   {0, 1000},
		KindFrameRate:    {1, 1000},
	}
}

// Bounds returns the clamp interval for kind.
func Bounds(kind Kind) (Range, error) {
	r, ok := Ranges()[kind]
	if !ok {
		return Range{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return r, nil
}

// Sanitize clamps v into kind's interval. It returns nil for nil, NaN and
// infinite input. The result is a fresh pointer; v is never modified.
func Sanitize(v *float64, kind Kind) (*float64, error) {
	r, err := Bounds(kind)
	if err != nil {
		return nil, err
	}
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil, nil
	}
	out := math.Max(r.Min, math.Min(r.Max, *v))
	return &out, nil
}

// MustSanitize is Sanitize for kinds known at compile time. It panics on an
// unknown kind.
func MustSanitize(v *float64, kind Kind) *float64 {
	out, err := Sanitize(v, kind)
	if err != nil {
		panic(err)
	}
	return out
}

// SanitizeSet produces the sanitized form of raw. Head movement is scaled by
// the calibration factor before clamping, and COM% is derived from the
// horizontal trace when it was not measured directly.
func SanitizeSet(raw *swing.RawMeasurementSet, cfg swing.ScoringConfig) swing.SanitizedMeasurementSet {
	var out swing.SanitizedMeasurementSet
	if raw == nil {
		return out
	}

	out.COMHorizontal = finiteOnly(raw.COMHorizontal)
	out.COMVertical = finiteOnly(raw.COMVertical)

	com := raw.COMForwardPct
	if com == nil || !finite(*com) {
		if derived, ok := deriveCOMForward(out.COMHorizontal, cfg.MinNormalization); ok {
			com = &derived
		}
	}
	out.COMForwardPct = MustSanitize(com, KindCOMForward)

	head := raw.HeadMovementIn
	if head != nil && cfg.CalibrationFactor != nil {
		if f := *cfg.CalibrationFactor; finite(f) && f > 0 {
			scaled := *head * f
			head = &scaled
		}
	}
	out.HeadMovementIn = MustSanitize(head, KindHeadMovement)

	out.SpineStdDeg = MustSanitize(raw.SpineStdDeg, KindSpineStd)
	out.BatSpeedMPH = MustSanitize(raw.BatSpeedMPH, KindBatSpeed)
	out.AttackAngleDeg = MustSanitize(raw.AttackAngleDeg, KindAttackAngle)
	out.TimeInZoneMS = MustSanitize(raw.TimeInZoneMS, KindTimeInZone)
	out.ExitVelo90MPH = MustSanitize(raw.ExitVelo90MPH, KindExitVelocity)
	out.LaunchAngle90Deg = MustSanitize(raw.LaunchAngle90Deg, KindLaunchAngle)
	out.BarrelRatePct = MustSanitize(raw.BarrelRatePct, KindPercentage)
	out.HardHitRatePct = MustSanitize(raw.HardHitRatePct, KindPercentage)
	out.FrameRate = MustSanitize(raw.FrameRate, KindFrameRate)

	out.Peaks = swing.Peaks{
		Pelvis: nonNegative(raw.Peaks.Pelvis),
		Torso:  nonNegative(raw.Peaks.Torso),
		Arm:    nonNegative(raw.Peaks.Arm),
		Bat:    nonNegative(raw.Peaks.Bat),
	}
	out.FrameCount = nonNegative(raw.FrameCount)
	return out
}

// deriveCOMForward computes forward shift as a percentage of the trace span.
func deriveCOMForward(trace []float64, minNorm *float64) (float64, bool) {
	if len(trace) < 2 {
		return 0, false
	}
	lo, hi := trace[0], trace[0]
	for _, x := range trace[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	floor := defaultMinNormalization
	if minNorm != nil && finite(*minNorm) && *minNorm > 0 {
		floor = *minNorm
	}
	span := math.Max(hi-lo, floor)
	return 100 * (trace[len(trace)-1] - trace[0]) / span, true
}

func finiteOnly(xs []float64) []float64 {
	if xs == nil {
		return nil
	}
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if finite(x) {
			out = append(out, x)
		}
	}
	return out
}

func nonNegative(v *int) *int {
	if v == nil || *v < 0 {
		return nil
	}
	c := *v
	return &c
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
