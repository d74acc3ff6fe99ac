package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/trackmeet/internal/domain/errs"
	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

// run executes one trackmeet invocation against dir and returns its stdout.
func run(dir string, args ...string) (string, error) {
	var out bytes.Buffer
	argv := append([]string{"trackmeet", "--store-dir", dir, "--seed", "7"}, args...)
	err := newApp(&out, io.Discard).Run(argv)
	return out.String(), err
}

func TestCLIMeet(t *testing.T) {
	convey.Convey("Given an empty store directory", t, func() {
		dir := t.TempDir()

		convey.Convey("When athletes are added one invocation at a time", func() {
			roster := [][2]string{
				{"Alice", "High"}, {"Bob", "High"},
				{"Cara", "Med"}, {"Dan", "Med"},
				{"Eve", "Low"}, {"Finn", "Low"},
			}
			for _, a := range roster {
				_, err := run(dir, "athletes", "add", "--name", a[0], "--tier", a[1])
				convey.So(err, convey.ShouldBeNil)
			}

			convey.Convey("Then the roster survives between runs", func() {
				out, err := run(dir, "athletes", "list")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Alice")
				convey.So(out, convey.ShouldContainSubstring, "Finn")

				_, err = os.Stat(filepath.Join(dir, "athletes.json"))
				convey.So(err, convey.ShouldBeNil)
			})

			convey.Convey("Then a full round can be played", func() {
				out, err := run(dir, "teams", "assign", "2")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "2 teams, 6 athletes (2 High, 2 Med, 2 Low)")
				convey.So(out, convey.ShouldContainSubstring, "Team 1")

				out, err = run(dir, "events", "generate", "--total", "3", "--relays", "0")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "phase: generated")

				out, err = run(dir, "events", "reveal")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldStartWith, "event 1 of 3: ")

				out, err = run(dir, "results", "submit", "--event", "1", "--place", "1:1", "--place", "2:2")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "with 2 placements")

				out, err = run(dir, "results", "list")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "completed")
				convey.So(out, convey.ShouldContainSubstring, "locked")

				chart := filepath.Join(t.TempDir(), "scores.png")
				out, err = run(dir, "scoreboard", "--chart", chart)
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Team 1")
				info, err := os.Stat(chart)
				convey.So(err, convey.ShouldBeNil)
				convey.So(info.Size(), convey.ShouldBeGreaterThan, 0)

				snap := filepath.Join(t.TempDir(), "meet.yaml")
				_, err = run(dir, "export", "--format", "yaml", "--output", snap)
				convey.So(err, convey.ShouldBeNil)
				body, err := os.ReadFile(snap)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(body), convey.ShouldContainSubstring, "appVersion:")

				_, err = run(dir, "results", "submit", "--event", "1", "--place", "1:1", "--place", "2:2")
				convey.So(errors.Is(err, errs.ErrDuplicateResult), convey.ShouldBeTrue)
			})

			convey.Convey("Then clearing empties the meet", func() {
				_, err := run(dir, "clear")
				convey.So(err, convey.ShouldBeNil)

				out, err := run(dir, "stats")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "phase")
				convey.So(out, convey.ShouldNotContainSubstring, "Alice")

				out, err = run(dir, "athletes", "list")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldNotContainSubstring, "Alice")
			})
		})

		convey.Convey("When revealing before any sequence exists", func() {
			_, err := run(dir, "events", "reveal")
			convey.So(errors.Is(err, errs.ErrNoSequence), convey.ShouldBeTrue)
		})

		convey.Convey("When an unknown tier is given", func() {
			_, err := run(dir, "athletes", "add", "--name", "Zed", "--tier", "Elite")
			convey.So(errors.Is(err, errs.ErrInvalidTier), convey.ShouldBeTrue)
		})

		convey.Convey("When the export format is unknown", func() {
			_, err := run(dir, "export", "--format", "pdf", "--output", "-")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When exporting to stdout", func() {
			out, err := run(dir, "export", "--output", "-")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, `"appVersion"`)
		})
	})
}

func TestParsePlacements(t *testing.T) {
	convey.Convey("Given TEAM:PLACE pairs", t, func() {
		convey.Convey("Valid pairs become placements", func() {
			got, err := parsePlacements([]string{"1:2", " 3 : 1 "})
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldResemble, []model.Placement{{TeamID: 1, Place: 2}, {TeamID: 3, Place: 1}})
		})

		convey.Convey("Malformed pairs are rejected", func() {
			for _, v := range []string{"1", "a:1", "1:b"} {
				_, err := parsePlacements([]string{v})
				convey.So(err, convey.ShouldNotBeNil)
			}
		})
	})
}
