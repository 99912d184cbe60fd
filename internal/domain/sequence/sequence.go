// Package sequence checks the proximal-to-distal activation order of the
// kinematic chain: pelvis, then torso, then arm, then bat.
package sequence

import "github.com/okian/swingscore/internal/domain/swing"

// Scores and details of the three possible outcomes.
const (
	ScoreCorrect    = 100
	ScoreIncomplete = 70
	ScoreOutOfOrder = 50

	DetailCorrect    = "transitions correct"
	DetailIncomplete = "incomplete data"
	DetailOutOfOrder = "sequence timing out of order"
)

const millisPerSecond = 1000

// Evaluate grades the peak-velocity frame indices. Missing evidence gets a
// neutral score; any ordering violation gets the same flat penalty however
// far out of order the segments are. frameRate may be nil; when present the
// inter-segment gaps are reported in milliseconds.
func Evaluate(peaks swing.Peaks, frameRate *float64) swing.SequenceResult {
	if !peaks.Complete() {
		return swing.SequenceResult{Correct: false, Score: ScoreIncomplete, Detail: DetailIncomplete}
	}

	order := []int{*peaks.Pelvis, *peaks.Torso, *peaks.Arm, *peaks.Bat}
	res := swing.SequenceResult{Correct: true, Score: ScoreCorrect, Detail: DetailCorrect}
	for i := 1; i < len(order); i++ {
		if order[i] <= order[i-1] {
			res = swing.SequenceResult{Correct: false, Score: ScoreOutOfOrder, Detail: DetailOutOfOrder}
			break
		}
	}

	if frameRate != nil && *frameRate > 0 {
		rate := *frameRate
		res.GapsMS = make([]float64, 0, len(order)-1)
		for i := 1; i < len(order); i++ {
			frames := float64(order[i] - order[i-1])
			res.GapsMS = append(res.GapsMS, frames*millisPerSecond/rate)
		}
	}
	return res
}
