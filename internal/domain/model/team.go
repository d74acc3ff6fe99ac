package model

import "fmt"

// Team is a group of athletes competing together. IDs run 1..N within one
// assignment.
type Team struct {
	ID       int       `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Athletes []Athlete `json:"athletes" yaml:"athletes"`
}

// DefaultTeamName is the name given to team id on creation.
func DefaultTeamName(id int) string {
	return fmt.Sprintf("Team %d", id)
}

// CloneTeams deep-copies teams so a caller can mutate the copy and keep the
// original as a before-snapshot.
func CloneTeams(teams []Team) []Team {
	if teams == nil {
		return nil
	}
	out := make([]Team, len(teams))
	for i, t := range teams {
		out[i] = Team{ID: t.ID, Name: t.Name, Athletes: append([]Athlete(nil), t.Athletes...)}
		if out[i].Athletes == nil {
			out[i].Athletes = []Athlete{}
		}
	}
	return out
}

// FindTeam returns the index of the team with id, or -1.
func FindTeam(teams []Team, id int) int {
	for i := range teams {
		if teams[i].ID == id {
			return i
		}
	}
	return -1
}

// MemberCount sums the athletes across teams.
func MemberCount(teams []Team) int {
	n := 0
	for _, t := range teams {
		n += len(t.Athletes)
	}
	return n
}
