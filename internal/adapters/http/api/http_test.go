package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/okian/trackmeet/internal/adapters/http/api"
	"github.com/okian/trackmeet/internal/adapters/storage"
	service "github.com/okian/trackmeet/internal/app"
	"github.com/okian/trackmeet/internal/domain/sequencer"
	"github.com/okian/trackmeet/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init(logger.WithWriter(io.Discard))
}

func newTestServer() http.Handler {
	svc := service.New(
		service.WithStore(storage.NewMemory()),
		service.WithSequencer(sequencer.New(sequencer.WithSeed(11))),
	)
	return api.NewServer(svc).Handler()
}

func do(h http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	var rd io.Reader = http.NoBody
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func doJSON(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	return do(h, method, path, "application/json", body)
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const roster = "name,tier,bestEvents\nAlice,High,100m\nBob,High,\nCara,Med,800m\nDan,Med,\nEve,Low,\nFinn,Low,\n"

func TestRegisterOnSharedRouter(t *testing.T) {
	Convey("Given a router that already serves other routes", t, func() {
		r := chi.NewRouter()
		r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		svc := service.New(service.WithStore(storage.NewMemory()))

		Convey("Registering the API does not panic and both sets of routes answer", func() {
			So(func() { api.NewServer(svc).Register(r) }, ShouldNotPanic)
			So(do(r, http.MethodGet, "/openapi.yaml", "", "").Code, ShouldEqual, http.StatusOK)
			So(do(r, http.MethodGet, "/athletes", "", "").Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestAthletesAPI(t *testing.T) {
	Convey("Given the HTTP API", t, func() {
		h := newTestServer()

		Convey("When adding an athlete", func() {
			w := doJSON(h, http.MethodPost, "/athletes", `{"name":"Alice","tier":"High","bestEvents":"100m"}`)

			Convey("Then it should be created and listed", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				created := decode[map[string]any](w)
				So(created["name"], ShouldEqual, "Alice")
				So(created["id"], ShouldNotBeEmpty)

				list := doJSON(h, http.MethodGet, "/athletes", "")
				So(list.Code, ShouldEqual, http.StatusOK)
				So(decode[[]map[string]any](list), ShouldHaveLength, 1)
			})
		})

		Convey("When adding an athlete without a name", func() {
			w := doJSON(h, http.MethodPost, "/athletes", `{"name":"  ","tier":"High"}`)

			Convey("Then it should be rejected with a code", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[apiError](w).Code, ShouldEqual, "invalid_athlete")
			})
		})

		Convey("When the body is not JSON", func() {
			w := doJSON(h, http.MethodPost, "/athletes", `{`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[apiError](w).Code, ShouldEqual, "bad_request")
		})

		Convey("When importing a CSV roster", func() {
			w := do(h, http.MethodPost, "/athletes/import", "text/csv; charset=utf-8", roster)

			Convey("Then every row should be added", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(decode[map[string]any](w)["imported"], ShouldEqual, 6.0)
			})
		})

		Convey("When importing a roster without a tier column", func() {
			w := do(h, http.MethodPost, "/athletes/import?filename=roster.csv", "", "name\nAlice\n")

			Convey("Then nothing should be added", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[[]any](doJSON(h, http.MethodGet, "/athletes", "")), ShouldBeEmpty)
			})
		})

		Convey("When importing an unsupported document", func() {
			w := do(h, http.MethodPost, "/athletes/import", "application/pdf", "%PDF")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[apiError](w).Code, ShouldEqual, "unsupported_format")
		})

		Convey("When deleting an unknown athlete", func() {
			w := doJSON(h, http.MethodDelete, "/athletes/nobody", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode[apiError](w).Code, ShouldEqual, "athlete_not_found")
		})

		Convey("When clearing the roster", func() {
			do(h, http.MethodPost, "/athletes/import", "text/csv", roster)
			w := doJSON(h, http.MethodDelete, "/athletes", "")
			So(w.Code, ShouldEqual, http.StatusNoContent)
			So(decode[[]any](doJSON(h, http.MethodGet, "/athletes", "")), ShouldBeEmpty)
		})
	})
}

func TestMeetFlowAPI(t *testing.T) {
	Convey("Given a roster of six", t, func() {
		h := newTestServer()
		So(do(h, http.MethodPost, "/athletes/import", "text/csv", roster).Code, ShouldEqual, http.StatusCreated)

		Convey("When asking for more teams than athletes", func() {
			w := doJSON(h, http.MethodPost, "/teams", `{"numTeams":7}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[apiError](w).Code, ShouldEqual, "too_many_teams")
		})

		Convey("When revealing before generating", func() {
			w := doJSON(h, http.MethodPost, "/events/reveal", "")
			So(w.Code, ShouldEqual, http.StatusConflict)
			So(decode[apiError](w).Code, ShouldEqual, "no_sequence")
		})

		Convey("When running a meet", func() {
			w := doJSON(h, http.MethodPost, "/teams", `{"numTeams":3}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			assigned := decode[map[string]any](w)
			So(assigned["teams"], ShouldHaveLength, 3)

			teams := decode[map[string]any](doJSON(h, http.MethodGet, "/teams", ""))
			So(teams["teamSize"], ShouldEqual, 2.0)

			w = doJSON(h, http.MethodPost, "/events/sequence", `{"totalEvents":5,"numRelays":1,"relayPositions":[2]}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			seq := decode[map[string]any](w)
			So(seq["events"], ShouldHaveLength, 5)
			So(seq["phase"], ShouldEqual, "generated")
			So(seq["events"].([]any)[2], ShouldContainSubstring, "4x")

			w = doJSON(h, http.MethodPost, "/results", `{"eventIndex":0,"placements":[{"teamId":1,"place":1}]}`)
			So(w.Code, ShouldEqual, http.StatusConflict)
			So(decode[apiError](w).Code, ShouldEqual, "event_not_revealed")

			w = doJSON(h, http.MethodPost, "/events/reveal", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			revealed := decode[map[string]any](w)
			So(revealed["event"], ShouldEqual, seq["events"].([]any)[0])
			So(revealed["revealedIndex"], ShouldEqual, 1.0)
			So(revealed["phase"], ShouldEqual, "revealing")

			w = doJSON(h, http.MethodPost, "/results", `{"eventIndex":0,"placements":[{"teamId":2,"place":1},{"teamId":1,"place":2},{"teamId":3,"place":3}]}`)
			So(w.Code, ShouldEqual, http.StatusCreated)

			w = doJSON(h, http.MethodPost, "/results", `{"eventIndex":0,"placements":[{"teamId":2,"place":1}]}`)
			So(w.Code, ShouldEqual, http.StatusConflict)
			So(decode[apiError](w).Code, ShouldEqual, "duplicate_result")

			w = doJSON(h, http.MethodPost, "/results", `{"placements":[{"teamId":2,"place":1}]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)

			board := decode[[]map[string]any](doJSON(h, http.MethodGet, "/scoreboard", ""))
			So(board, ShouldHaveLength, 3)
			So(board[0]["id"], ShouldEqual, 2.0)
			So(board[0]["totalScore"], ShouldEqual, 10.0)
			So(board[0]["rank"], ShouldEqual, 1.0)

			rows := decode[[]map[string]any](doJSON(h, http.MethodGet, "/results", ""))
			So(rows, ShouldHaveLength, 5)
			So(rows[0]["status"], ShouldEqual, "completed")
			So(rows[1]["status"], ShouldEqual, "locked")

			chart := doJSON(h, http.MethodGet, "/scoreboard/chart.png", "")
			So(chart.Code, ShouldEqual, http.StatusOK)
			So(chart.Header().Get("Content-Type"), ShouldEqual, "image/png")

			So(doJSON(h, http.MethodDelete, "/events/progress", "").Code, ShouldEqual, http.StatusNoContent)
			cur := decode[map[string]any](doJSON(h, http.MethodGet, "/events/sequence", ""))
			So(cur["revealedIndex"], ShouldEqual, 0.0)
			So(cur["nextEvent"], ShouldEqual, seq["events"].([]any)[0])
		})

		Convey("When moving an athlete to an unknown team", func() {
			doJSON(h, http.MethodPost, "/teams", `{"numTeams":2}`)
			teams := decode[map[string]any](doJSON(h, http.MethodGet, "/teams", ""))
			first := teams["teams"].([]any)[0].(map[string]any)["athletes"].([]any)[0].(map[string]any)["id"].(string)

			w := doJSON(h, http.MethodPost, "/teams/move", `{"athleteId":"`+first+`","fromTeamId":1,"toTeamId":9}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode[apiError](w).Code, ShouldEqual, "team_not_found")

			w = doJSON(h, http.MethodPost, "/teams/move", `{"athleteId":"`+first+`","fromTeamId":1,"toTeamId":2}`)
			So(w.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestEventPoolAPI(t *testing.T) {
	Convey("Given the default event pool", t, func() {
		h := newTestServer()

		Convey("When disabling a relay", func() {
			w := doJSON(h, http.MethodPut, "/events/pool/4x100", `{"enabled":false}`)

			Convey("Then the pool should reflect it", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				pool := decode[map[string][]map[string]any](w)
				So(pool["relays"][0]["name"], ShouldEqual, "4x100")
				So(pool["relays"][0]["enabled"], ShouldEqual, false)
			})
		})

		Convey("When toggling an unknown event", func() {
			w := doJSON(h, http.MethodPut, "/events/pool/Caber%20Toss", `{"enabled":true}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode[apiError](w).Code, ShouldEqual, "event_not_found")
		})

		Convey("When the toggle has no flag", func() {
			w := doJSON(h, http.MethodPut, "/events/pool/4x100", `{}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When replacing and resetting the pool", func() {
			w := doJSON(h, http.MethodPut, "/events/pool", `{"mine":[{"name":"4x100","enabled":true},{"name":"100m","enabled":true}]}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]any](w), ShouldContainKey, "mine")

			w = doJSON(h, http.MethodPost, "/events/sequence", `{"totalEvents":3,"numRelays":1}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[apiError](w).Code, ShouldEqual, "insufficient_events")

			w = doJSON(h, http.MethodPost, "/events/pool/reset", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]any](w), ShouldContainKey, "shortSprints")
		})

		Convey("When generating with the counts left out", func() {
			w := doJSON(h, http.MethodPost, "/events/sequence", `{}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			seq := decode[map[string]any](w)
			So(seq["events"], ShouldHaveLength, 5)
			So(seq["relayPositions"], ShouldHaveLength, 1)
		})

		Convey("When generating with bad relay positions", func() {
			w := doJSON(h, http.MethodPost, "/events/sequence", `{"totalEvents":5,"numRelays":1,"relayPositions":[5]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[apiError](w).Code, ShouldEqual, "invalid_relay_positions")
		})
	})
}

func TestDataAPI(t *testing.T) {
	Convey("Given a meet with a roster", t, func() {
		h := newTestServer()
		do(h, http.MethodPost, "/athletes/import", "text/csv", roster)

		Convey("When exporting YAML", func() {
			w := doJSON(h, http.MethodGet, "/export?format=yaml", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/yaml")
			So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, ".yaml")
			So(w.Body.String(), ShouldContainSubstring, "appVersion: 1.0.0")
		})

		Convey("When exporting an unknown format", func() {
			w := doJSON(h, http.MethodGet, "/export?format=pdf", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[apiError](w).Code, ShouldEqual, "unsupported_format")
		})

		Convey("When clearing an unknown key", func() {
			w := doJSON(h, http.MethodDelete, "/data?key=settings", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[apiError](w).Code, ShouldEqual, "unknown_data_key")
		})

		Convey("When clearing the athletes key", func() {
			w := doJSON(h, http.MethodDelete, "/data?key=athletes", "")
			So(w.Code, ShouldEqual, http.StatusNoContent)

			stats := decode[map[string]any](doJSON(h, http.MethodGet, "/stats", ""))
			So(stats["athletes"], ShouldEqual, 0.0)
		})

		Convey("When reading stats", func() {
			stats := decode[map[string]any](doJSON(h, http.MethodGet, "/stats", ""))
			So(stats["athletes"], ShouldEqual, 6.0)
			So(stats["phase"], ShouldEqual, "empty")
		})

		Convey("When scraping metrics", func() {
			doJSON(h, http.MethodDelete, "/athletes/nobody", "")
			w := doJSON(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "trackmeet_meet_athletes")
			So(w.Body.String(), ShouldContainSubstring, `endpoint="/athletes/{id}"`)
		})
	})
}
