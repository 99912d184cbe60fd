// Package anomaly flags measurements that are more likely tracking failures
// (occlusion, low frame rate) than genuine swing flaws.
package anomaly

import (
	"strings"

	"github.com/okian/swingscore/internal/domain/swing"
)

// Flag descriptors as they appear in the message.
const (
	DescCOMOutOfRange      = "COM out of range"
	DescExcessiveHead      = "excessive head movement"
	DescPoorSpineStability = "poor spine stability"
	DescSequenceIncorrect  = "sequence incorrect"
	DescInsufficientFrames = "insufficient frames"

	MessageNone = "no issues"
)

// Thresholds are the limits each flag checks against.
type Thresholds struct {
	COMMinPct   float64 `koanf:"com_min_pct" yaml:"com_min_pct" json:"com_min_pct"`
	COMMaxPct   float64 `koanf:"com_max_pct" yaml:"com_max_pct" json:"com_max_pct"`
	HeadMaxIn   float64 `koanf:"head_max_in" yaml:"head_max_in" json:"head_max_in"`
	SpineMaxDeg float64 `koanf:"spine_max_deg" yaml:"spine_max_deg" json:"spine_max_deg"`
	MinFrames   int     `koanf:"min_frames" yaml:"min_frames" json:"min_frames"`
}

// DefaultThresholds returns the stock limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		COMMinPct:   5,
		COMMaxPct:   40,
		HeadMaxIn:   8,
		SpineMaxDeg: 15,
		MinFrames:   30,
	}
}

// Detector evaluates the flags against fixed thresholds.
type Detector struct {
	th Thresholds
}

// NewDetector returns a Detector using th.
func NewDetector(th Thresholds) *Detector {
	return &Detector{th: th}
}

// Detect builds a fresh flag set. A nil measurement raises no flag; only the
// sequence flag reacts to missing data, through seq.Correct.
func (d *Detector) Detect(s *swing.SanitizedMeasurementSet, seq swing.SequenceResult, frameCount *int) swing.WeirdnessFlags {
	var f swing.WeirdnessFlags
	if s != nil {
		if v := s.COMForwardPct; v != nil {
			f.COMOutOfRange = *v < d.th.COMMinPct || *v > d.th.COMMaxPct
		}
		if v := s.HeadMovementIn; v != nil {
			f.ExcessiveHeadMovement = *v > d.th.HeadMaxIn
		}
		if v := s.SpineStdDeg; v != nil {
			f.PoorSpineStability = *v > d.th.SpineMaxDeg
		}
	}
	f.SequenceIncorrect = !seq.Correct
	if frameCount != nil {
		f.InsufficientFrames = *frameCount < d.th.MinFrames
	}

	var descs []string
	for _, c := range []struct {
		on   bool
		desc string
	}{
		{f.COMOutOfRange, DescCOMOutOfRange},
		{f.ExcessiveHeadMovement, DescExcessiveHead},
		{f.PoorSpineStability, DescPoorSpineStability},
		{f.SequenceIncorrect, DescSequenceIncorrect},
		{f.InsufficientFrames, DescInsufficientFrames},
	} {
		if c.on {
			descs = append(descs, c.desc)
		}
	}
	f.HasAny = len(descs) > 0
	f.Message = MessageNone
	if f.HasAny {
		f.Message = strings.Join(descs, ", ")
	}
	return f
}
