package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okian/trackmeet/internal/domain/errs"
)

// Tier is an athlete's skill bracket.
type Tier string

// Known tiers, in assignment priority order.
const (
	TierHigh Tier = "High"
	TierMed  Tier = "Med"
	TierLow  Tier = "Low"
)

// Tiers lists every tier in assignment priority order.
var Tiers = []Tier{TierHigh, TierMed, TierLow}

// ParseTier maps user input onto a Tier. It is case-insensitive and accepts
// "medium" for Med.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return TierHigh, nil
	case "med", "medium":
		return TierMed, nil
	case "low":
		return TierLow, nil
	}
	return "", errs.Newf("model.parse_tier", errs.ErrInvalidTier, "unknown tier %q (want High, Med or Low)", s)
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	return t == TierHigh || t == TierMed || t == TierLow
}

func (t Tier) String() string { return string(t) }

// UnmarshalJSON rejects unknown tiers so stored rosters cannot hold them.
func (t *Tier) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("tier: %w", err)
	}
	parsed, err := ParseTier(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
