package bands_test

import (
	"errors"
	"testing"

	"github.com/okian/swingscore/internal/domain/bands"
	"github.com/okian/swingscore/internal/domain/guardrail"
	"github.com/okian/swingscore/internal/domain/swing"
	. "github.com/smartystreets/goconvey/convey"
)

var levels = []swing.Level{
	swing.LevelYouth,
	swing.LevelHighSchool,
	swing.LevelCollege,
	swing.LevelPro,
	swing.LevelOther,
}

func TestProfile_FixedMetrics(t *testing.T) {
	Convey("Given the default player profile", t, func() {
		p := bands.DefaultProfiles()[swing.ModePlayer]

		Convey("When scoring COM forward movement", func() {
			cases := []struct {
				v    float64
				want float64
			}{
				{21, 100},
				{15, 100},
				{30, 100},
				{12, 80},
				{34.9, 80},
				{6, 60},
				{40, 60},
				{3, 40},
				{150, 40},
			}

			Convey("Then the tightest matching band should win", func() {
				for _, c := range cases {
					out, err := p.Score(swing.MetricCOMForward, c.v, swing.LevelPro)
					So(err, ShouldBeNil)
					So(out.Score, ShouldEqual, c.want)
				}
			})
		})

		Convey("When the value matches no band", func() {
			out, err := p.Score(swing.MetricHeadMovement, 20, swing.LevelPro)

			Convey("Then the floor should apply and no band is reported", func() {
				So(err, ShouldBeNil)
				So(out.Score, ShouldEqual, 40)
				So(out.Band, ShouldBeNil)
			})
		})

		Convey("When scoring a fixed metric at different levels", func() {
			Convey("Then the level should make no difference", func() {
				for kind := range p.Fixed {
					for _, v := range []float64{-20, 0, 4, 12, 25, 100, 180} {
						first, err := p.Score(kind, v, swing.LevelYouth)
						So(err, ShouldBeNil)
						for _, level := range levels {
							out, err := p.Score(kind, v, level)
							So(err, ShouldBeNil)
							So(out.Score, ShouldEqual, first.Score)
						}
					}
				}
			})
		})

		Convey("When sweeping each sanitized domain", func() {
			domains := map[swing.MetricKind]guardrail.Kind{
				swing.MetricCOMForward:    guardrail.KindCOMForward,
				swing.MetricHeadMovement:  guardrail.KindHeadMovement,
				swing.MetricSpineStd:      guardrail.KindSpineStd,
				swing.MetricAttackAngle:   guardrail.KindAttackAngle,
				swing.MetricTimeInZone:    guardrail.KindTimeInZone,
				swing.MetricLaunchAngle90: guardrail.KindLaunchAngle,
				swing.MetricBarrelRate:    guardrail.KindPercentage,
				swing.MetricHardHitRate:   guardrail.KindPercentage,
				swing.MetricBatSpeed:      guardrail.KindBatSpeed,
				swing.MetricExitVelo90:    guardrail.KindExitVelocity,
			}

			Convey("Then every value should land on exactly one known tier", func() {
				tiers := map[float64]bool{100: true, 80: true, 60: true, 40: true}
				for kind, clamp := range domains {
					r, err := guardrail.Bounds(clamp)
					So(err, ShouldBeNil)
					step := (r.Max - r.Min) / 400
					for v := r.Min; v <= r.Max; v += step {
						out, err := p.Score(kind, v, swing.LevelCollege)
						So(err, ShouldBeNil)
						So(tiers[out.Score], ShouldBeTrue)
					}
				}
			})
		})

		Convey("When the metric kind is unknown", func() {
			_, err := p.Score(swing.MetricKind("hand_path"), 1, swing.LevelPro)

			Convey("Then it should return ErrUnknownMetric", func() {
				So(errors.Is(err, bands.ErrUnknownMetric), ShouldBeTrue)
			})
		})
	})
}

func TestProfile_ScaledMetrics(t *testing.T) {
	Convey("Given the default player profile", t, func() {
		p := bands.DefaultProfiles()[swing.ModePlayer]

		Convey("When the value equals the level target", func() {
			Convey("Then every supported level should score 100", func() {
				for _, kind := range []swing.MetricKind{swing.MetricBatSpeed, swing.MetricExitVelo90} {
					for _, level := range levels {
						target, fallback := p.Scaled[kind].Target(level)
						So(fallback, ShouldBeFalse)
						out, err := p.Score(kind, target, level)
						So(err, ShouldBeNil)
						So(out.Score, ShouldEqual, 100)
						So(out.Ratio, ShouldEqual, 1.0)
					}
				}
			})
		})

		Convey("When bat speed is a fraction of the pro target", func() {
			cases := []struct {
				v    float64
				want float64
			}{
				{78, 100},
				{75, 100},
				{70, 80},
				{67.5, 80},
				{62, 60},
				{55, 40},
			}

			Convey("Then the ratio tiers should apply", func() {
				for _, c := range cases {
					out, err := p.Score(swing.MetricBatSpeed, c.v, swing.LevelPro)
					So(err, ShouldBeNil)
					So(out.Score, ShouldEqual, c.want)
					So(out.Target, ShouldEqual, 75)
				}
			})
		})

		Convey("When the level is unrecognized", func() {
			level, ok := swing.ParseLevel("semi-pro")
			out, err := p.Score(swing.MetricBatSpeed, 65, level)

			Convey("Then the mid-tier default target should be used", func() {
				So(ok, ShouldBeFalse)
				So(err, ShouldBeNil)
				So(out.LevelFallback, ShouldBeTrue)
				So(out.Target, ShouldEqual, 65)
				So(out.Score, ShouldEqual, 100)
			})
		})
	})
}

func TestProfile_Severity(t *testing.T) {
	Convey("Given the default severity cut-points", t, func() {
		p := bands.DefaultProfiles()[swing.ModePlayer]

		Convey("Then severity should follow the score", func() {
			So(p.SeverityOf(100), ShouldEqual, "excellent")
			So(p.SeverityOf(90), ShouldEqual, "excellent")
			So(p.SeverityOf(85), ShouldEqual, "good")
			So(p.SeverityOf(70), ShouldEqual, "fair")
			So(p.SeverityOf(69.9), ShouldEqual, "needs work")
		})

		Convey("When the cut-points are tuned", func() {
			p.Severity = []bands.SeverityCut{{Min: 95, Label: "elite"}}

			Convey("Then scoring should be unaffected and labels should change", func() {
				out, err := p.Score(swing.MetricSpineStd, 5, swing.LevelPro)
				So(err, ShouldBeNil)
				So(out.Score, ShouldEqual, 100)
				So(p.SeverityOf(out.Score), ShouldEqual, "elite")
				So(p.SeverityOf(90), ShouldEqual, "needs work")
			})
		})
	})
}

func TestScorer(t *testing.T) {
	Convey("Given a scorer over the default profiles", t, func() {
		s, err := bands.NewScorer(bands.DefaultProfiles())
		So(err, ShouldBeNil)

		Convey("When the same COM% is scored in each mode", func() {
			player, err := s.Score(swing.ModePlayer, swing.MetricCOMForward, 16, swing.LevelPro)
			So(err, ShouldBeNil)
			model, err := s.Score(swing.ModeModel, swing.MetricCOMForward, 16, swing.LevelPro)
			So(err, ShouldBeNil)

			Convey("Then each profile should apply its own bands", func() {
				So(player.Score, ShouldEqual, 100)
				So(model.Score, ShouldEqual, 80)
			})
		})

		Convey("When the mode is unknown", func() {
			_, err := s.Score(swing.Mode("coach"), swing.MetricCOMForward, 16, swing.LevelPro)

			Convey("Then it should return ErrUnknownMode", func() {
				So(errors.Is(err, bands.ErrUnknownMode), ShouldBeTrue)
			})
		})
	})

	Convey("Given a broken profile", t, func() {
		profiles := bands.DefaultProfiles()
		p := profiles[swing.ModePlayer]
		sm := p.Scaled[swing.MetricBatSpeed]
		sm.DefaultTarget = 0
		p.Scaled[swing.MetricBatSpeed] = sm

		Convey("When building a scorer", func() {
			_, err := bands.NewScorer(profiles)

			Convey("Then validation should fail", func() {
				So(errors.Is(err, bands.ErrInvalidProfile), ShouldBeTrue)
			})
		})
	})

	Convey("Given a scaled target keyed by a level spelling", t, func() {
		build := func(level swing.Level) error {
			profiles := bands.DefaultProfiles()
			sm := profiles[swing.ModePlayer].Scaled[swing.MetricBatSpeed]
			sm.Targets[level] = 60
			_, err := bands.NewScorer(profiles)
			return err
		}

		Convey("When the key is an alias of a known level", func() {
			err := build(swing.Level("high-school"))

			Convey("Then validation should fail and name the canonical key", func() {
				So(errors.Is(err, bands.ErrInvalidProfile), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, `must be written "high_school"`)
			})
		})

		Convey("When the key is not a level at all", func() {
			err := build(swing.Level("semi_pro"))

			Convey("Then validation should fail", func() {
				So(errors.Is(err, bands.ErrInvalidProfile), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "unknown level")
			})
		})

		Convey("When the key is canonical", func() {
			Convey("Then validation should pass", func() {
				So(build(swing.LevelHighSchool), ShouldBeNil)
			})
		})
	})
}
