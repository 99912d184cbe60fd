package bands

import "github.com/okian/swingscore/internal/domain/swing"

// Default tier scores.
const (
	defaultFloor = 40
	tierTop      = 100
	tierGood     = 80
	tierFair     = 60
)

// DefaultProfiles returns the stock player and model profiles. Each call
// builds fresh tables, so callers may edit the result freely.
func DefaultProfiles() Profiles {
	return Profiles{
		swing.ModePlayer: playerProfile(),
		swing.ModeModel:  modelProfile(),
	}
}

// DefaultSeverity returns the stock display tiers.
func DefaultSeverity() []SeverityCut {
	return []SeverityCut{
		{Min: 90, Label: "excellent"},
		{Min: 80, Label: "good"},
		{Min: 70, Label: "fair"},
	}
}

// DefaultSeverityFloor labels scores below every cut.
const DefaultSeverityFloor = "needs work"

func playerProfile() Profile {
	return Profile{
		Floor: defaultFloor,
		Fixed: map[swing.MetricKind][]Band{
			swing.MetricCOMForward:    tiers(between(15, 30), between(10, 35), between(5, 40)),
			swing.MetricHeadMovement:  tiers(between(0, 4), between(0, 6), between(0, 8)),
			swing.MetricSpineStd:      tiers(between(0, 6), between(0, 10), between(0, 15)),
			swing.MetricAttackAngle:   tiers(between(5, 20), between(0, 25), between(-5, 30)),
			swing.MetricTimeInZone:    tiers(atLeast(150), atLeast(120), atLeast(90)),
			swing.MetricLaunchAngle90: tiers(between(8, 32), between(0, 40), between(-10, 50)),
			swing.MetricBarrelRate:    tiers(atLeast(10), atLeast(6), atLeast(3)),
			swing.MetricHardHitRate:   tiers(atLeast(40), atLeast(30), atLeast(20)),
		},
		Scaled:        scaledMetrics(),
		Severity:      DefaultSeverity(),
		SeverityFloor: DefaultSeverityFloor,
	}
}

// modelProfile holds the stricter body bands used when grading reference
// swings.
func modelProfile() Profile {
	p := playerProfile()
	p.Fixed[swing.MetricCOMForward] = tiers(between(18, 28), between(12, 32), between(8, 38))
	p.Fixed[swing.MetricHeadMovement] = tiers(between(0, 3), between(0, 5), between(0, 7))
	p.Fixed[swing.MetricSpineStd] = tiers(between(0, 5), between(0, 8), between(0, 12))
	return p
}

func scaledMetrics() map[swing.MetricKind]ScaledMetric {
	ratio := tiers(atLeast(1.0), atLeast(0.9), atLeast(0.8))
	return map[swing.MetricKind]ScaledMetric{
		swing.MetricBatSpeed: {
			Targets: map[swing.Level]float64{
				swing.LevelYouth:      50,
				swing.LevelHighSchool: 65,
				swing.LevelCollege:    70,
				swing.LevelPro:        75,
				swing.LevelOther:      65,
			},
			DefaultTarget: 65,
			Bands:         ratio,
		},
		swing.MetricExitVelo90: {
			Targets: map[swing.Level]float64{
				swing.LevelYouth:      70,
				swing.LevelHighSchool: 88,
				swing.LevelCollege:    95,
				swing.LevelPro:        105,
				swing.LevelOther:      88,
			},
			DefaultTarget: 88,
			Bands:         append([]Band(nil), ratio...),
		},
	}
}

type span struct{ min, max *float64 }

func between(lo, hi float64) span { return span{min: &lo, max: &hi} }

func atLeast(lo float64) span { return span{min: &lo} }

// tiers assigns the top, good and fair scores to three nested spans.
func tiers(top, good, fair span) []Band {
	return []Band{
		{Min: top.min, Max: top.max, Score: tierTop},
		{Min: good.min, Max: good.max, Score: tierGood},
		{Min: fair.min, Max: fair.max, Score: tierFair},
	}
}
