// Package scoring turns recorded event placements into team totals and a
// ranked scoreboard.
package scoring

import (
	"math"
	"slices"

	"github.com/okian/trackmeet/internal/domain/errs"
	"github.com/okian/trackmeet/internal/domain/model"
)

// Table maps a finishing place to the points it earns. Places missing from
// the table earn nothing.
type Table map[int]int

// DefaultTable returns the standard 10-8-6-4-2-1 table.
func DefaultTable() Table {
	return NewTable(10, 8, 6, 4, 2, 1)
}

// NewTable builds a table where place i+1 earns points[i].
func NewTable(points ...int) Table {
	t := make(Table, len(points))
	for i, p := range points {
		t[i+1] = p
	}
	return t
}

// Points returns the points for place.
func (t Table) Points(place int) int {
	return t[place]
}

// CalculateTeamScores totals each team's points across results and ranks
// the teams by total, highest first. Teams with equal totals keep their
// input order. No teams or no results yields an empty scoreboard.
func CalculateTeamScores(teams []model.Team, results []model.EventResult, table Table) []model.TeamScore {
	if len(teams) == 0 || len(results) == 0 {
		return []model.TeamScore{}
	}

	out := make([]model.TeamScore, len(teams))
	for i, team := range teams {
		ts := model.TeamScore{Team: team}
		for _, r := range results {
			p, ok := r.PlacementFor(team.ID)
			if !ok {
				continue
			}
			ts.TotalScore += table.Points(p.Place)
			ts.EventCount++
		}
		if ts.EventCount > 0 {
			ts.AverageScore = round1(float64(ts.TotalScore) / float64(ts.EventCount))
		}
		out[i] = ts
	}

	slices.SortStableFunc(out, func(a, b model.TeamScore) int {
		return b.TotalScore - a.TotalScore
	})
	assignRanksWithTies(out)
	return out
}

// assignRanksWithTies gives equal totals the same rank; ranks stay
// consecutive.
func assignRanksWithTies(scores []model.TeamScore) {
	rank := 0
	for i := range scores {
		if i == 0 || scores[i].TotalScore != scores[i-1].TotalScore {
			rank++
		}
		scores[i].Rank = rank
	}
}

// ValidateSubmission checks a new result against the reveal progress and
// the results already recorded.
func ValidateSubmission(result model.EventResult, revealedIndex int, existing []model.EventResult) error {
	const op = "scoring.validate_submission"

	if result.EventIndex < 0 || result.EventIndex >= revealedIndex {
		return errs.Newf(op, errs.ErrEventNotRevealed, "event %d has not been revealed yet", result.EventIndex+1)
	}
	for _, r := range existing {
		if r.EventIndex == result.EventIndex {
			return errs.Newf(op, errs.ErrDuplicateResult, "results for event %d have already been entered", result.EventIndex+1)
		}
	}
	return ValidatePlacements(result.Placements)
}

// ValidatePlacements requires at least one placement, distinct places,
// distinct teams and no place below 1.
func ValidatePlacements(placements []model.Placement) error {
	const op = "scoring.validate_placements"

	if len(placements) == 0 {
		return errs.Newf(op, errs.ErrInvalidPlacements, "please enter at least one placement")
	}
	places := make(map[int]struct{}, len(placements))
	teams := make(map[int]struct{}, len(placements))
	for _, p := range placements {
		if p.Place < 1 {
			return errs.Newf(op, errs.ErrInvalidPlacements, "places must start at 1, got %d", p.Place)
		}
		if _, dup := places[p.Place]; dup {
			return errs.Newf(op, errs.ErrInvalidPlacements, "each team must have a unique place, %d is repeated", p.Place)
		}
		if _, dup := teams[p.TeamID]; dup {
			return errs.Newf(op, errs.ErrInvalidPlacements, "team %d is placed more than once", p.TeamID)
		}
		places[p.Place] = struct{}{}
		teams[p.TeamID] = struct{}{}
	}
	return nil
}

// Status is the scoreboard state of one event in the sequence.
type Status string

// Event statuses.
const (
	StatusLocked    Status = "locked"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// EventStatus reports whether the event at index is still hidden, revealed
// and awaiting results, or scored.
func EventStatus(index, revealedIndex int, results []model.EventResult) Status {
	if index < 0 || index >= revealedIndex {
		return StatusLocked
	}
	for _, r := range results {
		if r.EventIndex == index {
			return StatusCompleted
		}
	}
	return StatusPending
}

// EventRow is one slot of a sequence as shown on the scoreboard. Event and
// Result stay empty while the slot is locked, even when a result recorded
// before a progress reset exists.
type EventRow struct {
	Index  int                `json:"eventIndex" yaml:"eventIndex"`
	Event  string             `json:"event,omitempty" yaml:"event,omitempty"`
	Status Status             `json:"status" yaml:"status"`
	Result *model.EventResult `json:"result,omitempty" yaml:"result,omitempty"`
}

// Rows lists every slot of seq with its status and recorded result.
func Rows(seq model.Sequence, results []model.EventResult) []EventRow {
	rows := make([]EventRow, len(seq.Events))
	for i := range seq.Events {
		rows[i] = EventRow{Index: i, Status: EventStatus(i, seq.RevealedIndex, results)}
		if i < seq.RevealedIndex {
			rows[i].Event = seq.Events[i]
		}
	}
	for i := range results {
		r := results[i]
		if r.EventIndex >= 0 && r.EventIndex < len(rows) && rows[r.EventIndex].Status != StatusLocked {
			rows[r.EventIndex].Event = r.Event
			rows[r.EventIndex].Result = &r
		}
	}
	return rows
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
