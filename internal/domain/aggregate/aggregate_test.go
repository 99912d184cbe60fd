package aggregate_test

import (
	"testing"

	"github.com/okian/swingscore/internal/domain/aggregate"
	"github.com/okian/swingscore/internal/domain/swing"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregate(t *testing.T) {
	Convey("Given the aggregator", t, func() {
		Convey("When there are no scores", func() {
			Convey("Then the result should be nil rather than zero", func() {
				So(aggregate.Aggregate(nil), ShouldBeNil)
				So(aggregate.Aggregate([]*float64{}), ShouldBeNil)
				So(aggregate.Aggregate([]*float64{nil, nil}), ShouldBeNil)
			})
		})

		Convey("When some scores are missing", func() {
			got := aggregate.Aggregate([]*float64{swing.Float(80), nil, swing.Float(60)})

			Convey("Then only present scores should count", func() {
				So(got, ShouldNotBeNil)
				So(*got, ShouldEqual, 70)
			})
		})

		Convey("When a present score is zero", func() {
			got := aggregate.Aggregate([]*float64{swing.Float(0), nil})

			Convey("Then zero should be a real score", func() {
				So(got, ShouldNotBeNil)
				So(*got, ShouldEqual, 0)
			})
		})

		Convey("When the mean has a fractional part", func() {
			Convey("Then rounding should go to the nearest integer", func() {
				So(*aggregate.Aggregate([]*float64{swing.Float(100), swing.Float(80), swing.Float(80)}), ShouldEqual, 87)
				So(*aggregate.Aggregate([]*float64{swing.Float(85), swing.Float(80)}), ShouldEqual, 83)
			})
		})

		Convey("When means are chained", func() {
			// 87.5 and 86.67 average to 87.08; rounding each first would give (88+87)/2 -> 88.
			body := aggregate.Mean([]*float64{swing.Float(100), swing.Float(100), swing.Float(80), swing.Float(70)})
			bat := aggregate.Mean([]*float64{swing.Float(100), swing.Float(80), swing.Float(80)})

			Convey("Then rounding should happen once at the end", func() {
				So(*body, ShouldEqual, 87.5)
				So(*bat, ShouldAlmostEqual, 86.6666, 0.001)
				So(*aggregate.Aggregate([]*float64{body, bat}), ShouldEqual, 87)
			})
		})
	})
}
