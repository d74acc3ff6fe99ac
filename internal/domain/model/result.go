package model

import "time"

// Placement is one team's finishing place in an event.
type Placement struct {
	TeamID int `json:"teamId" yaml:"teamId"`
	Place  int `json:"place" yaml:"place"`
}

// EventResult records the placements of one revealed event.
type EventResult struct {
	EventIndex int         `json:"eventIndex" yaml:"eventIndex"`
	Event      string      `json:"event" yaml:"event"`
	Placements []Placement `json:"placements" yaml:"placements"`
	Timestamp  time.Time   `json:"timestamp" yaml:"timestamp"`
}

// PlacementFor returns the placement of team in r.
func (r EventResult) PlacementFor(teamID int) (Placement, bool) {
	for _, p := range r.Placements {
		if p.TeamID == teamID {
			return p, true
		}
	}
	return Placement{}, false
}

// TeamScore is a team annotated with its aggregate score.
// Teams with equal totals share a Rank.
type TeamScore struct {
	Team
	Rank         int     `json:"rank" yaml:"rank"`
	TotalScore   int     `json:"totalScore" yaml:"totalScore"`
	EventCount   int     `json:"eventCount" yaml:"eventCount"`
	AverageScore float64 `json:"averageScore" yaml:"averageScore"`
}
