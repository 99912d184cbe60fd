package swing

// MetricKind identifies a scored sub-metric.
type MetricKind string

// Scored sub-metrics.
const (
	MetricCOMForward    MetricKind = "com_forward_pct"
	MetricHeadMovement  MetricKind = "head_movement"
	MetricSpineStd      MetricKind = "spine_std"
	MetricSequence      MetricKind = "sequence"
	MetricBatSpeed      MetricKind = "bat_speed"
	MetricAttackAngle   MetricKind = "attack_angle"
	MetricTimeInZone    MetricKind = "time_in_zone"
	MetricExitVelo90    MetricKind = "exit_velo_90"
	MetricLaunchAngle90 MetricKind = "launch_angle_90"
	MetricBarrelRate    MetricKind = "barrel_rate"
	MetricHardHitRate   MetricKind = "hard_hit_rate"
)

// Category groups sub-metrics for aggregation.
type Category string

// Aggregation categories.
const (
	CategoryBody Category = "body"
	CategoryBat  Category = "bat"
	CategoryBall Category = "ball"
)

// CategoryMetrics pairs a category with its member metrics.
type CategoryMetrics struct {
	Category Category
	Metrics  []MetricKind
}

// Categories lists every category with its member metrics in display order.
func Categories() []CategoryMetrics {
	return []CategoryMetrics{
		{CategoryBody, []MetricKind{MetricCOMForward, MetricHeadMovement, MetricSpineStd, MetricSequence}},
		{CategoryBat, []MetricKind{MetricBatSpeed, MetricAttackAngle, MetricTimeInZone}},
		{CategoryBall, []MetricKind{MetricExitVelo90, MetricLaunchAngle90, MetricBarrelRate, MetricHardHitRate}},
	}
}

// Labels are the coach-facing names of each metric.
var Labels = map[MetricKind]string{
	MetricCOMForward:    "COM forward movement",
	MetricHeadMovement:  "Head movement",
	MetricSpineStd:      "Spine stability",
	MetricSequence:      "Kinematic sequence",
	MetricBatSpeed:      "Bat speed",
	MetricAttackAngle:   "Attack angle",
	MetricTimeInZone:    "Time in zone",
	MetricExitVelo90:    "Exit velocity (90th pct)",
	MetricLaunchAngle90: "Launch angle (90th pct)",
	MetricBarrelRate:    "Barrel rate",
	MetricHardHitRate:   "Hard-hit rate",
}

// SubMetricScore is the scored form of one measurement. Raw is the value that
// was scored, after clamping. Severity is always derived from Score.
type SubMetricScore struct {
	Metric      MetricKind `json:"metric" yaml:"metric"`
	Label       string     `json:"label" yaml:"label"`
	Raw         *float64   `json:"raw" yaml:"raw"`
	Score       float64    `json:"score" yaml:"score"`
	Severity    string     `json:"severity" yaml:"severity"`
	Explanation string     `json:"explanation" yaml:"explanation"`
}

// SequenceResult is the outcome of the kinematic sequence check.
type SequenceResult struct {
	Correct bool    `json:"correct" yaml:"correct"`
	Score   float64 `json:"score" yaml:"score"`
	Detail  string  `json:"detail" yaml:"detail"`
	// GapsMS holds the pelvis->torso, torso->arm and arm->bat gaps when the
	// frame rate is known. Informational only.
	GapsMS []float64 `json:"gaps_ms,omitempty" yaml:"gaps_ms,omitempty"`
}

// WeirdnessFlags marks measurements that look like tracking failures.
type WeirdnessFlags struct {
	COMOutOfRange         bool   `json:"com_out_of_range" yaml:"com_out_of_range"`
	ExcessiveHeadMovement bool   `json:"excessive_head_movement" yaml:"excessive_head_movement"`
	PoorSpineStability    bool   `json:"poor_spine_stability" yaml:"poor_spine_stability"`
	SequenceIncorrect     bool   `json:"sequence_incorrect" yaml:"sequence_incorrect"`
	InsufficientFrames    bool   `json:"insufficient_frames" yaml:"insufficient_frames"`
	HasAny                bool   `json:"has_any" yaml:"has_any"`
	Message               string `json:"message" yaml:"message"`
}

// ScoredResult is the terminal record of one scoring run. Category and
// overall scores are nil when nothing contributed to them.
type ScoredResult struct {
	Mode          Mode                          `json:"mode" yaml:"mode"`
	Level         Level                         `json:"level" yaml:"level"`
	LevelFallback bool                          `json:"level_fallback" yaml:"level_fallback"`
	Metrics       map[MetricKind]SubMetricScore `json:"metrics" yaml:"metrics"`
	Sequence      SequenceResult                `json:"sequence" yaml:"sequence"`
	Weirdness     WeirdnessFlags                `json:"weirdness" yaml:"weirdness"`
	Body          *int                          `json:"body" yaml:"body"`
	Bat           *int                          `json:"bat" yaml:"bat"`
	Ball          *int                          `json:"ball" yaml:"ball"`
	Overall       *int                          `json:"overall" yaml:"overall"`
}
