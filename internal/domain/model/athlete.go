// Package model contains the value types passed between the core
// algorithms, the controller and the adapters.
package model

import (
	"strings"

	"github.com/okian/trackmeet/internal/domain/errs"
)

// Athlete is a roster entry. ID is assigned at creation and never changes.
type Athlete struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Tier       Tier    `json:"tier" yaml:"tier"`
	BestEvents *string `json:"bestEvents" yaml:"bestEvents,omitempty"`
}

// NewAthlete validates and normalizes a roster entry. An empty bestEvents
// is stored as nil.
func NewAthlete(id, name string, tier Tier, bestEvents string) (Athlete, error) {
	const op = "model.new_athlete"
	name = strings.TrimSpace(name)
	if id == "" {
		return Athlete{}, errs.Newf(op, errs.ErrInvalidAthlete, "athlete id must not be empty")
	}
	if name == "" {
		return Athlete{}, errs.Newf(op, errs.ErrInvalidAthlete, "please enter an athlete name")
	}
	if !tier.Valid() {
		return Athlete{}, errs.Newf(op, errs.ErrInvalidTier, "unknown tier %q (want High, Med or Low)", tier)
	}
	a := Athlete{ID: id, Name: name, Tier: tier}
	if be := strings.TrimSpace(bestEvents); be != "" {
		a.BestEvents = &be
	}
	return a, nil
}

// CountTier returns how many athletes are in tier t.
func CountTier(athletes []Athlete, t Tier) int {
	n := 0
	for _, a := range athletes {
		if a.Tier == t {
			n++
		}
	}
	return n
}
