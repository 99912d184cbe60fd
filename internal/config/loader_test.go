package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/swingscore/internal/config"
	"github.com/okian/swingscore/internal/domain/bands"
	"github.com/okian/swingscore/internal/domain/swing"
	"github.com/smartystreets/goconvey/convey"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swing.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// setenv sets key for the current Convey leaf; call the result to restore.
func setenv(key, value string) func() {
	old, had := os.LookupEnv(key)
	_ = os.Setenv(key, value)
	return func() {
		if had {
			_ = os.Setenv(key, old)
			return
		}
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		defer setenv(config.EnvConfigFile, "")()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then the defaults should come back", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When environment variables are set", func() {
			defer setenv("SWING_ADDR", ":8080")()
			defer setenv("SWING_QUEUE_SIZE", "500")()
			defer setenv("SWING_WORKER_COUNT", "3")()
			defer setenv("SWING_LOG_FORMAT", "json")()
			cfg, err := config.Load(ctx)

			convey.Convey("Then they should override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When a YAML file is named by SWING_CONFIG", func() {
			path := writeConfig(t, `
addr: ":9090"
history_limit: 20
anomaly:
  min_frames: 60
profiles:
  model:
    floor: 30
    fixed:
      head_movement:
        - {min: 0, max: 2, score: 100}
    scaled:
      bat_speed:
        default_target: 70
        bands:
          - {min: 1, score: 100}
    severity:
      - {min: 95, label: elite}
    severity_floor: developing
`)
			defer setenv(config.EnvConfigFile, path)()
			defer setenv("SWING_HISTORY_LIMIT", "10")()
			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should apply below env values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 10)
			})

			convey.Convey("And nested blocks should merge into the defaults", func() {
				convey.So(cfg.Anomaly.MinFrames, convey.ShouldEqual, 60)
				convey.So(cfg.Anomaly.HeadMaxIn, convey.ShouldEqual, 8)
			})

			convey.Convey("And a named profile should replace the stock one", func() {
				model := cfg.Profiles[swing.ModeModel]
				convey.So(model.Floor, convey.ShouldEqual, 30)
				convey.So(model.SeverityFloor, convey.ShouldEqual, "developing")
				out, err := model.Score(swing.MetricHeadMovement, 1.5, swing.LevelPro)
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.Score, convey.ShouldEqual, 100)
				_, err = model.Score(swing.MetricCOMForward, 20, swing.LevelPro)
				convey.So(errors.Is(err, bands.ErrUnknownMetric), convey.ShouldBeTrue)

				player := cfg.Profiles[swing.ModePlayer]
				convey.So(player.SeverityFloor, convey.ShouldEqual, bands.DefaultSeverityFloor)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.LoadFrom(ctx, filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then loading should fail", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the merged config is invalid", func() {
			defer setenv("SWING_WORKER_COUNT", "0")()
			_, err := config.Load(ctx)

			convey.Convey("Then validation should reject it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
