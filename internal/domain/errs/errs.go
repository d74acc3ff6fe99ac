// Package errs defines the error kinds shared by the domain and the
// adapters. Every failure returned by a core operation wraps exactly one
// sentinel kind so callers can branch with errors.Is and transports can map
// it to a stable code.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Validation kinds.
var (
	ErrNoAthletes            = errors.New("no athletes provided")
	ErrInvalidTeamCount      = errors.New("number of teams must be at least 1")
	ErrTooManyTeams          = errors.New("more teams than athletes")
	ErrInsufficientEvents    = errors.New("not enough non-relay events")
	ErrInsufficientRelays    = errors.New("not enough relay events")
	ErrInvalidRelayPositions = errors.New("invalid relay positions")
	ErrInvalidEventCount     = errors.New("invalid event count")
	ErrInvalidPlacements     = errors.New("invalid placements")
	ErrInvalidAthlete        = errors.New("invalid athlete")
	ErrInvalidTier           = errors.New("invalid tier")
	ErrInvalidEventPool      = errors.New("invalid event pool")
	ErrUnknownDataKey        = errors.New("unknown data key")
	ErrUnsupportedFormat     = errors.New("unsupported format")
)

// Lookup kinds.
var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrAthleteNotFound  = errors.New("athlete not found")
	ErrEventNotFound    = errors.New("event not in pool")
	ErrEventNotRevealed = errors.New("event not revealed")
	ErrDuplicateResult  = errors.New("result already entered")
	ErrNoSequence       = errors.New("no event sequence")
	ErrSequenceComplete = errors.New("all events revealed")
)

var kinds = []error{
	ErrNoAthletes,
	ErrInvalidTeamCount,
	ErrTooManyTeams,
	ErrInsufficientEvents,
	ErrInsufficientRelays,
	ErrInvalidRelayPositions,
	ErrInvalidEventCount,
	ErrInvalidPlacements,
	ErrInvalidAthlete,
	ErrInvalidTier,
	ErrInvalidEventPool,
	ErrUnknownDataKey,
	ErrUnsupportedFormat,
	ErrTeamNotFound,
	ErrAthleteNotFound,
	ErrEventNotFound,
	ErrEventNotRevealed,
	ErrDuplicateResult,
	ErrNoSequence,
	ErrSequenceComplete,
}

var codes = map[error]string{
	ErrNoAthletes:            "no_athletes",
	ErrInvalidTeamCount:      "invalid_team_count",
	ErrTooManyTeams:          "too_many_teams",
	ErrInsufficientEvents:    "insufficient_events",
	ErrInsufficientRelays:    "insufficient_relays",
	ErrInvalidRelayPositions: "invalid_relay_positions",
	ErrInvalidEventCount:     "invalid_event_count",
	ErrInvalidPlacements:     "invalid_placements",
	ErrInvalidAthlete:        "invalid_athlete",
	ErrInvalidTier:           "invalid_tier",
	ErrInvalidEventPool:      "invalid_event_pool",
	ErrUnknownDataKey:        "unknown_data_key",
	ErrUnsupportedFormat:     "unsupported_format",
	ErrTeamNotFound:          "team_not_found",
	ErrAthleteNotFound:       "athlete_not_found",
	ErrEventNotFound:         "event_not_found",
	ErrEventNotRevealed:      "event_not_revealed",
	ErrDuplicateResult:       "duplicate_result",
	ErrNoSequence:            "no_sequence",
	ErrSequenceComplete:      "sequence_complete",
}

// Error is a failure of a named operation. Msg is safe to show to a user.
type Error struct {
	Op   string
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Message returns the user-facing text of the error.
func (e *Error) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// NewKind returns an error of the given kind for op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind attaches a kind to an underlying cause.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Newf returns an error of the given kind with a formatted display message.
func Newf(op string, kind error, format string, args ...any) error {
	return &Error{Op: op, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the sentinel kind carried by err, or nil.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Code returns a snake_case code for err, "internal_error" when it has no kind.
func Code(err error) string {
	if k := KindOf(err); k != nil {
		return codes[k]
	}
	return "internal_error"
}

// Message returns the display message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsValidation reports whether err carries a validation kind.
func IsValidation(err error) bool {
	switch KindOf(err) {
	case ErrNoAthletes, ErrInvalidTeamCount, ErrTooManyTeams, ErrInsufficientEvents,
		ErrInsufficientRelays, ErrInvalidRelayPositions, ErrInvalidEventCount,
		ErrInvalidPlacements, ErrInvalidAthlete, ErrInvalidTier, ErrInvalidEventPool,
		ErrUnknownDataKey, ErrUnsupportedFormat:
		return true
	}
	return false
}
