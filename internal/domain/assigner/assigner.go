// Package assigner splits a roster into balanced teams by skill tier.
package assigner

import (
	"math"
	"slices"

	"github.com/okian/trackmeet/internal/domain/errs"
	"github.com/okian/trackmeet/internal/domain/model"
)

// Stats summarizes an assignment.
type Stats struct {
	TotalAthletes   int     `json:"totalAthletes"`
	HighTier        int     `json:"highTier"`
	MedTier         int     `json:"medTier"`
	LowTier         int     `json:"lowTier"`
	AverageTeamSize float64 `json:"averageTeamSize"`
}

// Assignment is the outcome of AssignTeams.
type Assignment struct {
	Teams []model.Team `json:"teams"`
	Stats Stats        `json:"stats"`
}

// AssignTeams deals athletes round robin into numTeams teams, High tier
// first, then Med, then Low. Order within a tier follows the input.
func AssignTeams(athletes []model.Athlete, numTeams int) (Assignment, error) {
	const op = "assigner.assign_teams"
	if len(athletes) == 0 {
		return Assignment{}, errs.Newf(op, errs.ErrNoAthletes, "please add athletes first")
	}
	if numTeams < 1 {
		return Assignment{}, errs.Newf(op, errs.ErrInvalidTeamCount, "number of teams must be at least 1, got %d", numTeams)
	}
	for _, a := range athletes {
		if !a.Tier.Valid() {
			return Assignment{}, errs.Newf(op, errs.ErrInvalidTier, "athlete %s has unknown tier %q", a.Name, a.Tier)
		}
	}

	teams := make([]model.Team, numTeams)
	for i := range teams {
		teams[i] = model.Team{ID: i + 1, Name: model.DefaultTeamName(i + 1), Athletes: []model.Athlete{}}
	}

	k := 0
	var stats Stats
	for _, tier := range model.Tiers {
		for _, a := range athletes {
			if a.Tier != tier {
				continue
			}
			t := &teams[k%numTeams]
			t.Athletes = append(t.Athletes, a)
			k++
		}
	}

	stats.TotalAthletes = k
	stats.HighTier = model.CountTier(athletes, model.TierHigh)
	stats.MedTier = model.CountTier(athletes, model.TierMed)
	stats.LowTier = model.CountTier(athletes, model.TierLow)
	stats.AverageTeamSize = round1(float64(k) / float64(numTeams))

	return Assignment{Teams: teams, Stats: stats}, nil
}

// MoveAthlete moves athleteID from one team to the end of another. The slice
// is modified in place and returned.
func MoveAthlete(teams []model.Team, athleteID string, fromTeamID, toTeamID int) ([]model.Team, error) {
	const op = "assigner.move_athlete"
	from := model.FindTeam(teams, fromTeamID)
	if from < 0 {
		return teams, errs.Newf(op, errs.ErrTeamNotFound, "team %d not found", fromTeamID)
	}
	to := model.FindTeam(teams, toTeamID)
	if to < 0 {
		return teams, errs.Newf(op, errs.ErrTeamNotFound, "team %d not found", toTeamID)
	}

	idx := slices.IndexFunc(teams[from].Athletes, func(a model.Athlete) bool { return a.ID == athleteID })
	if idx < 0 {
		return teams, errs.Newf(op, errs.ErrAthleteNotFound, "athlete %s is not on %s", athleteID, teams[from].Name)
	}
	if from == to {
		return teams, nil
	}

	a := teams[from].Athletes[idx]
	teams[from].Athletes = slices.Delete(teams[from].Athletes, idx, idx+1)
	teams[to].Athletes = append(teams[to].Athletes, a)
	return teams, nil
}

// TeamSize is the size of the largest team when athletes are split into
// teams evenly. It is 0 when either count is not positive.
func TeamSize(athletes, teams int) int {
	if athletes <= 0 || teams <= 0 {
		return 0
	}
	return (athletes + teams - 1) / teams
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
