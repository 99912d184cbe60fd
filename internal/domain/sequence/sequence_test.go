package sequence_test

import (
	"testing"

	"github.com/okian/swingscore/internal/domain/sequence"
	"github.com/okian/swingscore/internal/domain/swing"
	. "github.com/smartystreets/goconvey/convey"
)

func peaks(pelvis, torso, arm, bat *int) swing.Peaks {
	return swing.Peaks{Pelvis: pelvis, Torso: torso, Arm: arm, Bat: bat}
}

func TestEvaluate(t *testing.T) {
	Convey("Given peak frame indices", t, func() {
		Convey("When the segments peak in strict proximal-to-distal order", func() {
			res := sequence.Evaluate(peaks(swing.Int(1), swing.Int(2), swing.Int(3), swing.Int(4)), nil)

			Convey("Then the sequence should be correct", func() {
				So(res.Correct, ShouldBeTrue)
				So(res.Score, ShouldEqual, 100)
				So(res.Detail, ShouldEqual, "transitions correct")
				So(res.GapsMS, ShouldBeNil)
			})
		})

		Convey("When the pelvis peaks last", func() {
			res := sequence.Evaluate(peaks(swing.Int(3), swing.Int(1), swing.Int(2), swing.Int(4)), nil)

			Convey("Then the flat out-of-order penalty should apply", func() {
				So(res.Correct, ShouldBeFalse)
				So(res.Score, ShouldEqual, 50)
				So(res.Detail, ShouldEqual, "sequence timing out of order")
			})
		})

		Convey("When the sequence is fully inverted", func() {
			res := sequence.Evaluate(peaks(swing.Int(9), swing.Int(7), swing.Int(5), swing.Int(3)), nil)

			Convey("Then the penalty should match a near miss", func() {
				nearMiss := sequence.Evaluate(peaks(swing.Int(1), swing.Int(2), swing.Int(4), swing.Int(3)), nil)
				So(res.Score, ShouldEqual, nearMiss.Score)
			})
		})

		Convey("When two segments peak on the same frame", func() {
			res := sequence.Evaluate(peaks(swing.Int(1), swing.Int(2), swing.Int(2), swing.Int(4)), nil)

			Convey("Then strict ordering should fail", func() {
				So(res.Correct, ShouldBeFalse)
				So(res.Score, ShouldEqual, 50)
			})
		})

		Convey("When a peak is missing", func() {
			res := sequence.Evaluate(peaks(swing.Int(1), swing.Int(2), nil, swing.Int(4)), swing.Float(240))

			Convey("Then a neutral score should be returned", func() {
				So(res.Correct, ShouldBeFalse)
				So(res.Score, ShouldEqual, 70)
				So(res.Detail, ShouldEqual, "incomplete data")
				So(res.GapsMS, ShouldBeNil)
			})
		})

		Convey("When the frame rate is known", func() {
			res := sequence.Evaluate(peaks(swing.Int(10), swing.Int(16), swing.Int(22), swing.Int(34)), swing.Float(240))

			Convey("Then the gaps should be reported in milliseconds", func() {
				So(res.Correct, ShouldBeTrue)
				So(res.GapsMS, ShouldResemble, []float64{25, 25, 50})
			})
		})
	})
}
