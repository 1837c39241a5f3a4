package domain

import (
	"fmt"
	"strings"
)

// Tier is a discrete urgency bucket.
type Tier string

const (
	TierHot    Tier = "HOT"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
	TierJunk   Tier = "JUNK"
)

// Rank orders tiers JUNK < LOW < MEDIUM < HOT. Unknown tiers rank -1.
func (t Tier) Rank() int {
	switch t {
	case TierJunk:
		return 0
	case TierLow:
		return 1
	case TierMedium:
		return 2
	case TierHot:
		return 3
	}
	return -1
}

// Lower returns the tier one step below t. JUNK stays JUNK.
func (t Tier) Lower() Tier {
	switch t {
	case TierHot:
		return TierMedium
	case TierMedium:
		return TierLow
	default:
		return TierJunk
	}
}

// Valid reports whether t is one of the four tiers.
func (t Tier) Valid() bool {
	return t.Rank() >= 0
}

// ParseTier parses a tier name case-insensitively.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}

// Tiers lists every tier from highest to lowest.
var Tiers = []Tier{TierHot, TierMedium, TierLow, TierJunk}
