package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/swingscore/internal/adapters/http/api"
	service "github.com/okian/swingscore/internal/app"
	"github.com/okian/swingscore/internal/domain/model"
	"github.com/okian/swingscore/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

const proSwing = `{
	"analysis_id": "%s",
	"player_id": "p-1",
	"mode": "player",
	"level": "pro",
	"measurements": {
		"com_forward_pct": 21,
		"head_movement_in": 3,
		"spine_std_deg": 5,
		"peaks": {"pelvis": 10, "torso": 14, "arm": 18, "bat": 22},
		"bat_speed_mph": 78,
		"frame_count": 120
	}
}`

// stubDeps returns canned errors for the paths a real service rarely hits.
type stubDeps struct {
	submitErr error
	scoreErr  error
}

func (s stubDeps) Score(context.Context, model.Analysis) (model.Record, error) {
	return model.Record{}, s.scoreErr
}

func (s stubDeps) Submit(_ context.Context, a model.Analysis) (types.Submission, error) {
	return types.Submission{ID: a.ID}, s.submitErr
}

func (stubDeps) Result(context.Context, string) (model.Record, error) { return model.Record{}, nil }

func (stubDeps) History(context.Context, string, int) ([]types.Entry, error) { return nil, nil }

func (stubDeps) GetStats(context.Context) types.Stats { return types.Stats{} }

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestAPI_Score(t *testing.T) {
	Convey("Given the API over a real service", t, func() {
		svc, err := service.New(service.WithWorkerCount(2))
		So(err, ShouldBeNil)
		mux := newMux(svc)

		Convey("When a clean swing is scored synchronously", func() {
			w := do(mux, http.MethodPost, "/score", fmt.Sprintf(proSwing, "a-1"))

			Convey("Then the response should carry the full result", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				body := decode(w)
				So(body["analysis_id"], ShouldEqual, "a-1")
				So(body["status"], ShouldEqual, "scored")
				result := body["result"].(map[string]any)
				So(result["overall"], ShouldEqual, 100.0)
				So(result["ball"], ShouldBeNil)
			})

			Convey("And it should be readable by id and in the player's history", func() {
				got := do(mux, http.MethodGet, "/analyses/a-1", "")
				So(got.Code, ShouldEqual, http.StatusOK)
				So(decode(got)["player_id"], ShouldEqual, "p-1")

				hist := do(mux, http.MethodGet, "/players/p-1/history?limit=5", "")
				So(hist.Code, ShouldEqual, http.StatusOK)
				entries := decode(hist)["entries"].([]any)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].(map[string]any)["flags"], ShouldEqual, "no issues")
			})
		})

		Convey("When the body is malformed", func() {
			w := do(mux, http.MethodPost, "/score", `{"mode":`)

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the mode is unknown", func() {
			w := do(mux, http.MethodPost, "/score", `{"mode":"coach","measurements":{}}`)

			Convey("Then it should be rejected before scoring", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldContainSubstring, "unknown mode coach")
			})
		})

		Convey("When the level is unknown", func() {
			w := do(mux, http.MethodPost, "/score", `{"level":"semi pro","measurements":{"bat_speed_mph":78}}`)

			Convey("Then it should score against the default target", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				result := decode(w)["result"].(map[string]any)
				So(result["level_fallback"], ShouldBeTrue)
				So(result["level"], ShouldEqual, "semi_pro")
			})
		})

		Convey("When the calibration factor is not positive", func() {
			w := do(mux, http.MethodPost, "/score", `{"calibration_factor":0,"measurements":{}}`)

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When an unknown analysis is requested", func() {
			w := do(mux, http.MethodGet, "/analyses/missing", "")

			Convey("Then it should be not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode(w)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When history is requested with a bad limit", func() {
			w := do(mux, http.MethodGet, "/players/p-1/history?limit=-3", "")

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When history is requested for an unknown player", func() {
			w := do(mux, http.MethodGet, "/players/nobody/history", "")

			Convey("Then the entries should be an empty list", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"entries":[]`)
			})
		})
	})
}

func TestAPI_Submit(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc, err := service.New(service.WithWorkerCount(2))
		So(err, ShouldBeNil)
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()
		mux := newMux(svc)

		Convey("When an analysis is submitted twice", func() {
			first := do(mux, http.MethodPost, "/analyses", fmt.Sprintf(proSwing, "a-2"))
			second := do(mux, http.MethodPost, "/analyses", fmt.Sprintf(proSwing, "a-2"))

			Convey("Then the first should be accepted and the second a duplicate", func() {
				So(first.Code, ShouldEqual, http.StatusAccepted)
				So(decode(first)["status"], ShouldEqual, "accepted")
				So(second.Code, ShouldEqual, http.StatusOK)
				So(decode(second)["duplicate"], ShouldBeTrue)
			})

			Convey("And the result should eventually be stored", func() {
				deadline := time.Now().Add(2 * time.Second)
				code := 0
				for time.Now().Before(deadline) {
					code = do(mux, http.MethodGet, "/analyses/a-2", "").Code
					if code == http.StatusOK {
						break
					}
					time.Sleep(10 * time.Millisecond)
				}
				So(code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When stats are requested", func() {
			w := do(mux, http.MethodGet, "/stats", "")

			Convey("Then they should describe the running service", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["started"], ShouldBeTrue)
				So(body["workers"], ShouldEqual, 2.0)
			})
		})
	})

	Convey("Given dependencies that refuse submissions", t, func() {
		Convey("When the queue is full", func() {
			w := do(newMux(stubDeps{submitErr: service.ErrBackpressure}), http.MethodPost, "/analyses", `{"measurements":{}}`)

			Convey("Then it should report backpressure", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(decode(w)["code"], ShouldEqual, "backpressure")
			})
		})

		Convey("When the service is not started", func() {
			w := do(newMux(stubDeps{submitErr: service.ErrNotStarted}), http.MethodPost, "/analyses", `{"measurements":{}}`)

			Convey("Then it should be unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("When the engine refuses the analysis", func() {
			w := do(newMux(stubDeps{scoreErr: fmt.Errorf("%w: bad profile", service.ErrInvalidAnalysis)}), http.MethodPost, "/score", `{"measurements":{}}`)

			Convey("Then it should be unprocessable", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			})
		})
	})
}

func TestAPI_Health(t *testing.T) {
	Convey("Given the API", t, func() {
		mux := newMux(stubDeps{})

		Convey("When /healthz is requested after some traffic", func() {
			do(mux, http.MethodGet, "/stats", "")
			w := do(mux, http.MethodGet, "/healthz", "")

			Convey("Then it should expose the metrics registry", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "http_requests_total")
			})
		})

		Convey("When a route is called with the wrong method", func() {
			w := do(mux, http.MethodGet, "/score", "")

			Convey("Then the mux should refuse it", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given a wrapped API error", t, func() {
		cause := errors.New("boom")
		err := api.WrapKind("api.test", api.ErrBadRequest, cause)

		Convey("Then both the kind and the cause should match", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.test: bad request: boom")
			So(api.NewKind("api.test", api.ErrNotFound).Error(), ShouldEqual, "api.test: not found")
		})
	})
}

func TestPackageDoc(t *testing.T) {
	Convey("Given the api package sources", t, func() {
		files, err := filepath.Glob("*.go")
		So(err, ShouldBeNil)

		Convey("Then exactly one file should carry the package comment", func() {
			docs := 0
			fset := token.NewFileSet()
			for _, name := range files {
				if strings.HasSuffix(name, "_test.go") {
					continue
				}
				f, err := parser.ParseFile(fset, name, nil, parser.PackageClauseOnly|parser.ParseComments)
				So(err, ShouldBeNil)
				if f.Doc != nil {
					docs++
				}
			}
			So(docs, ShouldEqual, 1)
		})
	})
}
