package assigner_test

import (
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/okian/trackmeet/internal/domain/assigner"
	"github.com/okian/trackmeet/internal/domain/errs"
	"github.com/okian/trackmeet/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func athlete(id string, tier model.Tier) model.Athlete {
	return model.Athlete{ID: id, Name: id, Tier: tier}
}

func ids(as []model.Athlete) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}

func fakeRoster(f *gofakeit.Faker, n int) []model.Athlete {
	out := make([]model.Athlete, n)
	for i := range out {
		out[i] = model.Athlete{
			ID:   f.UUID(),
			Name: f.Name(),
			Tier: model.Tiers[f.Number(0, len(model.Tiers)-1)],
		}
	}
	return out
}

func TestAssignTeams(t *testing.T) {
	Convey("Given two High, one Med and one Low athlete", t, func() {
		roster := []model.Athlete{
			athlete("A", model.TierHigh),
			athlete("B", model.TierHigh),
			athlete("C", model.TierMed),
			athlete("D", model.TierLow),
		}

		Convey("When split into two teams", func() {
			got, err := assigner.AssignTeams(roster, 2)
			So(err, ShouldBeNil)

			Convey("Then the teams alternate through the tiers", func() {
				So(len(got.Teams), ShouldEqual, 2)
				So(got.Teams[0].ID, ShouldEqual, 1)
				So(got.Teams[0].Name, ShouldEqual, "Team 1")
				So(ids(got.Teams[0].Athletes), ShouldResemble, []string{"A", "C"})
				So(ids(got.Teams[1].Athletes), ShouldResemble, []string{"B", "D"})
			})

			Convey("And the stats describe the roster", func() {
				want := assigner.Stats{TotalAthletes: 4, HighTier: 2, MedTier: 1, LowTier: 1, AverageTeamSize: 2}
				So(cmp.Diff(want, got.Stats), ShouldBeEmpty)
			})
		})

		Convey("When split into three teams the average is rounded", func() {
			got, err := assigner.AssignTeams(roster, 3)
			So(err, ShouldBeNil)
			So(got.Stats.AverageTeamSize, ShouldEqual, 1.3)
			So(len(got.Teams[2].Athletes), ShouldEqual, 1)
		})

		Convey("More teams than athletes leaves some empty", func() {
			got, err := assigner.AssignTeams(roster, 6)
			So(err, ShouldBeNil)
			So(got.Teams[5].Athletes, ShouldBeEmpty)
			So(got.Teams[5].Athletes, ShouldNotBeNil)
		})
	})

	Convey("Given bad input", t, func() {
		Convey("An empty roster fails with NoAthletes", func() {
			_, err := assigner.AssignTeams(nil, 2)
			So(errors.Is(err, errs.ErrNoAthletes), ShouldBeTrue)
		})

		Convey("Zero teams fails with InvalidTeamCount", func() {
			_, err := assigner.AssignTeams([]model.Athlete{athlete("A", model.TierLow)}, 0)
			So(errors.Is(err, errs.ErrInvalidTeamCount), ShouldBeTrue)
		})

		Convey("An athlete without a known tier fails with InvalidTier", func() {
			_, err := assigner.AssignTeams([]model.Athlete{athlete("A", "Elite")}, 1)
			So(errors.Is(err, errs.ErrInvalidTier), ShouldBeTrue)
		})
	})
}

func TestAssignTeams_Properties(t *testing.T) {
	Convey("Given generated rosters", t, func() {
		f := gofakeit.New(2024)

		for round := 0; round < 100; round++ {
			roster := fakeRoster(f, f.Number(1, 60))
			numTeams := f.Number(1, len(roster))

			got, err := assigner.AssignTeams(roster, numTeams)
			So(err, ShouldBeNil)

			minSize, maxSize, total := len(roster), 0, 0
			for _, team := range got.Teams {
				n := len(team.Athletes)
				minSize = min(minSize, n)
				maxSize = max(maxSize, n)
				total += n
			}
			So(maxSize-minSize, ShouldBeLessThanOrEqualTo, 1)
			So(total, ShouldEqual, len(roster))
			So(got.Stats.HighTier+got.Stats.MedTier+got.Stats.LowTier, ShouldEqual, len(roster))

			// The first athlete dealt to each team is the roster's first
			// numTeams athletes in tier order.
			var ordered []string
			for _, tier := range model.Tiers {
				for _, a := range roster {
					if a.Tier == tier {
						ordered = append(ordered, a.ID)
					}
				}
			}
			for i, team := range got.Teams {
				So(team.Athletes[0].ID, ShouldEqual, ordered[i])
			}
		}
	})
}

func TestMoveAthlete(t *testing.T) {
	Convey("Given two assigned teams", t, func() {
		got, err := assigner.AssignTeams([]model.Athlete{
			athlete("A", model.TierHigh),
			athlete("B", model.TierHigh),
			athlete("C", model.TierMed),
			athlete("D", model.TierLow),
		}, 2)
		So(err, ShouldBeNil)
		teams := got.Teams

		Convey("Moving A to team 2 appends it there", func() {
			teams, err = assigner.MoveAthlete(teams, "A", 1, 2)
			So(err, ShouldBeNil)
			So(ids(teams[0].Athletes), ShouldResemble, []string{"C"})
			So(ids(teams[1].Athletes), ShouldResemble, []string{"B", "D", "A"})
			So(model.MemberCount(teams), ShouldEqual, 4)
		})

		Convey("Moving within one team changes nothing", func() {
			before := model.CloneTeams(teams)
			teams, err = assigner.MoveAthlete(teams, "A", 1, 1)
			So(err, ShouldBeNil)
			So(cmp.Diff(before, teams), ShouldBeEmpty)
		})

		Convey("Unknown teams fail with TeamNotFound", func() {
			_, err = assigner.MoveAthlete(teams, "A", 9, 2)
			So(errors.Is(err, errs.ErrTeamNotFound), ShouldBeTrue)
			_, err = assigner.MoveAthlete(teams, "A", 1, 9)
			So(errors.Is(err, errs.ErrTeamNotFound), ShouldBeTrue)
		})

		Convey("An athlete outside the source team fails with AthleteNotFound", func() {
			_, err = assigner.MoveAthlete(teams, "B", 1, 2)
			So(errors.Is(err, errs.ErrAthleteNotFound), ShouldBeTrue)
		})
	})

	Convey("Random moves conserve the roster", t, func() {
		f := gofakeit.New(7)
		roster := fakeRoster(f, 30)
		got, err := assigner.AssignTeams(roster, 4)
		So(err, ShouldBeNil)
		teams := got.Teams

		for i := 0; i < 200; i++ {
			from := f.Number(1, 4)
			members := teams[from-1].Athletes
			if len(members) == 0 {
				continue
			}
			moved := members[f.Number(0, len(members)-1)].ID
			teams, err = assigner.MoveAthlete(teams, moved, from, f.Number(1, 4))
			So(err, ShouldBeNil)
			So(model.MemberCount(teams), ShouldEqual, 30)

			seen := 0
			for _, team := range teams {
				for _, a := range team.Athletes {
					if a.ID == moved {
						seen++
					}
				}
			}
			So(seen, ShouldEqual, 1)
		}
	})
}

func TestTeamSize(t *testing.T) {
	Convey("TeamSize rounds up", t, func() {
		So(assigner.TeamSize(10, 3), ShouldEqual, 4)
		So(assigner.TeamSize(9, 3), ShouldEqual, 3)
		So(assigner.TeamSize(0, 3), ShouldEqual, 0)
		So(assigner.TeamSize(5, 0), ShouldEqual, 0)
	})
}
