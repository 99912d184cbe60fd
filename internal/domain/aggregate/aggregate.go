// Package aggregate combines sub-metric scores into category and overall
// scores. A missing score means "no evidence" and is skipped, never counted
// as zero.
package aggregate

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of the non-nil scores, or nil when there
// are none. The result is not rounded.
func Mean(scores []*float64) *float64 {
	present := make([]float64, 0, len(scores))
	for _, s := range scores {
		if s != nil && !math.IsNaN(*s) {
			present = append(present, *s)
		}
	}
	if len(present) == 0 {
		return nil
	}
	m := stat.Mean(present, nil)
	return &m
}

// Round rounds a published score to the nearest integer, half away from
// zero. nil stays nil.
func Round(v *float64) *int {
	if v == nil {
		return nil
	}
	r := int(math.Round(*v))
	return &r
}

// Aggregate is Mean followed by a single Round.
func Aggregate(scores []*float64) *int {
	return Round(Mean(scores))
}
