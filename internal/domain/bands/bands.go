// Package bands maps sanitized measurements onto discrete 0..100 score tiers.
//
// Two families of metric exist. Fixed metrics use the same value bands for
// every level. Scaled metrics first divide the value by a per-level target
// and match the ratio against the bands. In both cases the first matching
// band wins, and a value that matches nothing receives the profile floor.
package bands

import (
	"fmt"

	"github.com/okian/swingscore/internal/domain/swing"
)

// Band is a closed value interval mapped to a fixed score. A nil bound is
// open on that side.
type Band struct {
	Min   *float64 `koanf:"min" yaml:"min,omitempty" json:"min,omitempty"`
	Max   *float64 `koanf:"max" yaml:"max,omitempty" json:"max,omitempty"`
	Score float64  `koanf:"score" yaml:"score" json:"score"`
}

// Contains reports whether v lies within the band.
func (b Band) Contains(v float64) bool {
	if b.Min != nil && v < *b.Min {
		return false
	}
	if b.Max != nil && v > *b.Max {
		return false
	}
	return true
}

// String renders the band interval for explanations.
func (b Band) String() string {
	switch {
	case b.Min != nil && b.Max != nil:
		return fmt.Sprintf("[%g, %g]", *b.Min, *b.Max)
	case b.Min != nil:
		return fmt.Sprintf(">= %g", *b.Min)
	case b.Max != nil:
		return fmt.Sprintf("<= %g", *b.Max)
	default:
		return "any"
	}
}

// ScaledMetric scores a value relative to a level target.
type ScaledMetric struct {
	Targets       map[swing.Level]float64 `koanf:"targets" yaml:"targets" json:"targets"`
	DefaultTarget float64                 `koanf:"default_target" yaml:"default_target" json:"default_target"`
	// Bands are expressed over value/target.
	Bands []Band `koanf:"bands" yaml:"bands" json:"bands"`
}

// Target returns the target for level and whether the default was used.
func (m ScaledMetric) Target(level swing.Level) (float64, bool) {
	if t, ok := m.Targets[level]; ok {
		return t, false
	}
	return m.DefaultTarget, true
}

// SeverityCut labels every score at or above Min.
type SeverityCut struct {
	Min   float64 `koanf:"min" yaml:"min" json:"min"`
	Label string  `koanf:"label" yaml:"label" json:"label"`
}

// Profile is one complete set of band tables.
type Profile struct {
	Floor         float64                           `koanf:"floor" yaml:"floor" json:"floor"`
	Fixed         map[swing.MetricKind][]Band       `koanf:"fixed" yaml:"fixed" json:"fixed"`
	Scaled        map[swing.MetricKind]ScaledMetric `koanf:"scaled" yaml:"scaled" json:"scaled"`
	Severity      []SeverityCut                     `koanf:"severity" yaml:"severity" json:"severity"`
	SeverityFloor string                            `koanf:"severity_floor" yaml:"severity_floor" json:"severity_floor"`
}

// Profiles holds one Profile per analysis mode.
type Profiles map[swing.Mode]Profile

// Outcome is the result of scoring one value.
type Outcome struct {
	Score float64
	// Band is the matched band, or nil when the floor applied.
	Band *Band
	// Scaled metrics only.
	Scaled        bool
	Target        float64
	Ratio         float64
	LevelFallback bool
}

// Score maps v onto a tier. level is ignored for fixed metrics.
func (p Profile) Score(kind swing.MetricKind, v float64, level swing.Level) (Outcome, error) {
	if bands, ok := p.Fixed[kind]; ok {
		return p.match(bands, v), nil
	}
	if m, ok := p.Scaled[kind]; ok {
		target, fallback := m.Target(level)
		ratio := v / target
		out := p.match(m.Bands, ratio)
		out.Scaled = true
		out.Target = target
		out.Ratio = ratio
		out.LevelFallback = fallback
		return out, nil
	}
	return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownMetric, kind)
}

func (p Profile) match(bands []Band, v float64) Outcome {
	for i := range bands {
		if bands[i].Contains(v) {
			b := bands[i]
			return Outcome{Score: b.Score, Band: &b}
		}
	}
	return Outcome{Score: p.Floor}
}

// SeverityOf derives the display tier from a score.
func (p Profile) SeverityOf(score float64) string {
	for _, c := range p.Severity {
		if score >= c.Min {
			return c.Label
		}
	}
	return p.SeverityFloor
}

// Validate checks that the tables are usable.
func (p Profile) Validate() error {
	if p.Floor < 0 || p.Floor > 100 {
		return fmt.Errorf("%w: floor %g outside [0, 100]", ErrInvalidProfile, p.Floor)
	}
	for kind, bands := range p.Fixed {
		if err := validateBands(kind, bands); err != nil {
			return err
		}
		if _, dup := p.Scaled[kind]; dup {
			return fmt.Errorf("%w: %s is both fixed and scaled", ErrInvalidProfile, kind)
		}
	}
	for kind, m := range p.Scaled {
		if m.DefaultTarget <= 0 {
			return fmt.Errorf("%w: %s default target must be positive", ErrInvalidProfile, kind)
		}
		for level, t := range m.Targets {
			canon, ok := swing.ParseLevel(string(level))
			switch {
			case !ok:
				return fmt.Errorf("%w: %s target for unknown level %q", ErrInvalidProfile, kind, level)
			case canon != level:
				return fmt.Errorf("%w: %s target level %q must be written %q", ErrInvalidProfile, kind, level, canon)
			}
			if t <= 0 {
				return fmt.Errorf("%w: %s target for %s must be positive", ErrInvalidProfile, kind, level)
			}
		}
		if err := validateBands(kind, m.Bands); err != nil {
			return err
		}
	}
	for i := 1; i < len(p.Severity); i++ {
		if p.Severity[i].Min > p.Severity[i-1].Min {
			return fmt.Errorf("%w: severity cuts must be ordered high to low", ErrInvalidProfile)
		}
	}
	if p.SeverityFloor == "" {
		return fmt.Errorf("%w: missing severity floor label", ErrInvalidProfile)
	}
	return nil
}

func validateBands(kind swing.MetricKind, bands []Band) error {
	if len(bands) == 0 {
		return fmt.Errorf("%w: %s has no bands", ErrInvalidProfile, kind)
	}
	for _, b := range bands {
		if b.Score < 0 || b.Score > 100 {
			return fmt.Errorf("%w: %s band score %g outside [0, 100]", ErrInvalidProfile, kind, b.Score)
		}
		if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
			return fmt.Errorf("%w: %s band %s is empty", ErrInvalidProfile, kind, b)
		}
	}
	return nil
}

// Validate checks every profile.
func (ps Profiles) Validate() error {
	if len(ps) == 0 {
		return fmt.Errorf("%w: no profiles", ErrInvalidProfile)
	}
	for mode, p := range ps {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("profile %s: %w", mode, err)
		}
	}
	return nil
}

// Scorer selects a profile by mode and scores values against it.
type Scorer struct {
	profiles Profiles
}

// NewScorer validates profiles and returns a Scorer over them.
func NewScorer(profiles Profiles) (*Scorer, error) {
	if err := profiles.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{profiles: profiles}, nil
}

// Profile returns the profile for mode.
func (s *Scorer) Profile(mode swing.Mode) (Profile, error) {
	p, ok := s.profiles[mode]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return p, nil
}

// Score scores v for kind under mode's profile.
func (s *Scorer) Score(mode swing.Mode, kind swing.MetricKind, v float64, level swing.Level) (Outcome, error) {
	p, err := s.Profile(mode)
	if err != nil {
		return Outcome{}, err
	}
	return p.Score(kind, v, level)
}
