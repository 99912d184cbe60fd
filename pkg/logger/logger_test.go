package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		defer func() { _ = Init() }()

		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get should return a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it should fail", func() {
				So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
			})
		})

		Convey("When initialized with an unknown level", func() {
			err := Init(WithLevel("verbose"))

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		defer func() { _ = Init() }()
		var buf bytes.Buffer
		So(Init(WithFormat("json"), WithWriter(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When a named logger writes structured fields", func() {
			Named("engine").Info(ctx, "scored",
				String("analysis_id", "a-1"),
				Int("overall", 87),
				Bool("has_any", false),
				Duration("took", time.Millisecond),
			)

			Convey("Then the record should be valid JSON with grouped fields", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "scored")
				group, ok := rec["engine"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(group["analysis_id"], ShouldEqual, "a-1")
				So(group["overall"], ShouldEqual, 87.0)
				So(group["has_any"], ShouldEqual, false)
				So(group["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Error(ctx, "shown", Error(errors.New("boom")))

			Convey("Then only records at or above it should be written", func() {
				out := buf.String()
				So(strings.Contains(out, "hidden"), ShouldBeFalse)
				So(out, ShouldContainSubstring, "boom")
			})
		})
	})
}
