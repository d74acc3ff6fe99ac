package model

import "time"

// Phase is the lifecycle state of an event sequence.
type Phase string

// Sequence phases.
const (
	PhaseEmpty     Phase = "empty"
	PhaseGenerated Phase = "generated"
	PhaseRevealing Phase = "revealing"
	PhaseComplete  Phase = "complete"
)

// Sequence is a generated event order plus reveal progress.
// 0 <= RevealedIndex <= len(Events).
type Sequence struct {
	Events         []string  `json:"events" yaml:"events"`
	RelayPositions []int     `json:"relayPositions" yaml:"relayPositions"`
	RevealedIndex  int       `json:"revealedIndex" yaml:"revealedIndex"`
	GeneratedAt    time.Time `json:"generatedAt" yaml:"generatedAt"`
}

// Phase derives the lifecycle state from the reveal index.
func (s Sequence) Phase() Phase {
	switch {
	case len(s.Events) == 0:
		return PhaseEmpty
	case s.RevealedIndex <= 0:
		return PhaseGenerated
	case s.RevealedIndex < len(s.Events):
		return PhaseRevealing
	default:
		return PhaseComplete
	}
}

// Next returns the next unrevealed event.
func (s Sequence) Next() (string, bool) {
	if s.RevealedIndex >= 0 && s.RevealedIndex < len(s.Events) {
		return s.Events[s.RevealedIndex], true
	}
	return "", false
}

// Revealed returns the disclosed prefix of the sequence.
func (s Sequence) Revealed() []string {
	n := s.RevealedIndex
	if n < 0 {
		n = 0
	}
	if n > len(s.Events) {
		n = len(s.Events)
	}
	return s.Events[:n]
}
