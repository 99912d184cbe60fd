package types_test

import (
	"testing"
	"time"

	"github.com/okian/swingscore/internal/domain/model"
	"github.com/okian/swingscore/internal/domain/swing"
	types "github.com/okian/swingscore/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntryFromRecord(t *testing.T) {
	Convey("Given a stored record", t, func() {
		at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
		overall, body := 84, 90
		r := model.Record{
			Analysis: model.Analysis{ID: "a-7", PlayerID: "p-1"},
			Result: swing.ScoredResult{
				Mode:      swing.ModePlayer,
				Level:     swing.LevelCollege,
				Overall:   &overall,
				Body:      &body,
				Weirdness: swing.WeirdnessFlags{Message: "no issues"},
			},
			ScoredAt: at,
		}

		Convey("When it is flattened", func() {
			e := types.EntryFromRecord(r)

			Convey("Then the row should carry the headline numbers", func() {
				So(e.AnalysisID, ShouldEqual, "a-7")
				So(e.Status, ShouldEqual, types.StatusScored)
				So(e.Error, ShouldBeEmpty)
				So(e.ScoredAt, ShouldEqual, at)
				So(e.Mode, ShouldEqual, "player")
				So(e.Level, ShouldEqual, "college")
				So(*e.Overall, ShouldEqual, 84)
				So(*e.Body, ShouldEqual, 90)
				So(e.Flags, ShouldEqual, "no issues")
			})

			Convey("And unmeasured categories should stay nil", func() {
				So(e.Bat, ShouldBeNil)
				So(e.Ball, ShouldBeNil)
			})
		})
	})
}

func TestEntryFromFailedRecord(t *testing.T) {
	Convey("Given a record the worker could not score", t, func() {
		r := model.Record{
			Analysis: model.Analysis{
				ID:     "a-9",
				Config: swing.ScoringConfig{Mode: swing.Mode("coach"), Level: swing.LevelPro},
			},
			Err:      "invalid analysis: unknown mode \"coach\"",
			ScoredAt: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
		}

		Convey("When it is flattened", func() {
			e := types.EntryFromRecord(r)

			Convey("Then the row should be marked failed with its error", func() {
				So(e.Status, ShouldEqual, types.StatusFailed)
				So(e.Error, ShouldContainSubstring, "unknown mode")
				So(e.Mode, ShouldEqual, "coach")
				So(e.Level, ShouldEqual, "pro")
				So(e.Overall, ShouldBeNil)
				So(e.Flags, ShouldBeEmpty)
			})
		})
	})
}
