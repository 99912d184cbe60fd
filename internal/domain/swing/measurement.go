// Package swing holds the measurement and result records shared by the
// scoring engine components.
package swing

import "strings"

// Mode selects which band profile applies.
type Mode string

// Supported analysis modes.
const (
	ModePlayer Mode = "player"
	ModeModel  Mode = "model"
)

// ParseMode normalizes a user supplied mode. Empty input means player mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "player":
		return ModePlayer, true
	case "model":
		return ModeModel, true
	default:
		return Mode(s), false
	}
}

// Level is the player's skill tier. It scales absolute targets such as bat
// speed and exit velocity.
type Level string

// Known levels.
const (
	LevelYouth      Level = "youth"
	LevelHighSchool Level = "high_school"
	LevelCollege    Level = "college"
	LevelPro        Level = "pro"
	LevelOther      Level = "other"
)

// ParseLevel maps free-form level names onto a Level. Unknown names are
// returned verbatim with ok=false so scoring can fall back to a default
// target instead of failing.
func ParseLevel(s string) (Level, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch key {
	case "youth":
		return LevelYouth, true
	case "high_school", "highschool", "hs":
		return LevelHighSchool, true
	case "college":
		return LevelCollege, true
	case "pro", "professional":
		return LevelPro, true
	case "other":
		return LevelOther, true
	default:
		return Level(key), false
	}
}

// Peaks are the frame indices at which each body segment reaches its peak
// rotational velocity.
type Peaks struct {
	Pelvis *int `json:"pelvis,omitempty" yaml:"pelvis,omitempty"`
	Torso  *int `json:"torso,omitempty" yaml:"torso,omitempty"`
	Arm    *int `json:"arm,omitempty" yaml:"arm,omitempty"`
	Bat    *int `json:"bat,omitempty" yaml:"bat,omitempty"`
}

// Complete reports whether all four peaks are present.
func (p Peaks) Complete() bool {
	return p.Pelvis != nil && p.Torso != nil && p.Arm != nil && p.Bat != nil
}

// RawMeasurementSet is one analysis worth of measurements as produced by the
// pose pipeline. Every field is optional; nil means "not measured".
type RawMeasurementSet struct {
	COMForwardPct    *float64  `json:"com_forward_pct,omitempty" yaml:"com_forward_pct,omitempty"`
	COMHorizontal    []float64 `json:"com_horizontal,omitempty" yaml:"com_horizontal,omitempty"`
	COMVertical      []float64 `json:"com_vertical,omitempty" yaml:"com_vertical,omitempty"`
	HeadMovementIn   *float64  `json:"head_movement_in,omitempty" yaml:"head_movement_in,omitempty"`
	SpineStdDeg      *float64  `json:"spine_std_deg,omitempty" yaml:"spine_std_deg,omitempty"`
	Peaks            Peaks     `json:"peaks" yaml:"peaks"`
	BatSpeedMPH      *float64  `json:"bat_speed_mph,omitempty" yaml:"bat_speed_mph,omitempty"`
	AttackAngleDeg   *float64  `json:"attack_angle_deg,omitempty" yaml:"attack_angle_deg,omitempty"`
	TimeInZoneMS     *float64  `json:"time_in_zone_ms,omitempty" yaml:"time_in_zone_ms,omitempty"`
	ExitVelo90MPH    *float64  `json:"exit_velo_90_mph,omitempty" yaml:"exit_velo_90_mph,omitempty"`
	LaunchAngle90Deg *float64  `json:"launch_angle_90_deg,omitempty" yaml:"launch_angle_90_deg,omitempty"`
	BarrelRatePct    *float64  `json:"barrel_rate_pct,omitempty" yaml:"barrel_rate_pct,omitempty"`
	HardHitRatePct   *float64  `json:"hard_hit_rate_pct,omitempty" yaml:"hard_hit_rate_pct,omitempty"`
	FrameRate        *float64  `json:"frame_rate,omitempty" yaml:"frame_rate,omitempty"`
	FrameCount       *int      `json:"frame_count,omitempty" yaml:"frame_count,omitempty"`
}

// SanitizedMeasurementSet has the shape of RawMeasurementSet but every value
// is either within its documented bound or nil.
type SanitizedMeasurementSet RawMeasurementSet

// ScoringConfig is supplied with every scoring call and never mutated.
type ScoringConfig struct {
	Mode  Mode  `json:"mode" yaml:"mode"`
	Level Level `json:"level" yaml:"level"`
	// CalibrationFactor converts head displacement into inches when set.
	CalibrationFactor *float64 `json:"calibration_factor,omitempty" yaml:"calibration_factor,omitempty"`
	// MinNormalization floors the denominator used to derive COM% from the
	// horizontal trace.
	MinNormalization *float64 `json:"min_normalization,omitempty" yaml:"min_normalization,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
