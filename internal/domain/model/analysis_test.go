package model_test

import (
	"testing"
	"time"

	model "github.com/okian/swingscore/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRecordLatency(t *testing.T) {
	convey.Convey("Given a scored record", t, func() {
		submitted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		convey.Convey("When both timestamps are set", func() {
			r := model.Record{
				Analysis: model.Analysis{ID: "a-1", SubmittedAt: submitted},
				ScoredAt: submitted.Add(250 * time.Millisecond),
			}

			convey.Convey("Then latency should be their difference", func() {
				convey.So(r.Latency(), convey.ShouldEqual, 250*time.Millisecond)
			})
		})

		convey.Convey("When the submission time is unknown", func() {
			r := model.Record{ScoredAt: submitted}

			convey.Convey("Then latency should be zero", func() {
				convey.So(r.Latency(), convey.ShouldEqual, time.Duration(0))
			})
		})

		convey.Convey("When the clocks disagree", func() {
			r := model.Record{
				Analysis: model.Analysis{SubmittedAt: submitted},
				ScoredAt: submitted.Add(-time.Second),
			}

			convey.Convey("Then latency should not go negative", func() {
				convey.So(r.Latency(), convey.ShouldEqual, time.Duration(0))
			})
		})
	})
}
