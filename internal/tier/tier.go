package tier

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTier = errors.New("unknown tier")

// Tier is a subscription access level. The zero value is Free.
type Tier uint8

const (
	Free Tier = iota
	Supporter
	Premium
)

var names = [...]string{
	Free:      "free",
	Supporter: "supporter",
	Premium:   "premium",
}

// All returns every tier in rank order.
func All() []Tier {
	return []Tier{Free, Supporter, Premium}
}

// Parse converts a tier name into a Tier. Only the three known names are accepted.
func Parse(s string) (Tier, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for t, name := range names {
		if key == name {
			return Tier(t), nil
		}
	}
	return Free, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// Valid reports whether t is one of the declared tiers.
func (t Tier) Valid() bool {
	return int(t) < len(names)
}

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
	return names[t]
}

// Rank is the position of t in the fixed ordering free=0, supporter=1, premium=2.
func Rank(t Tier) int {
	return int(t)
}

// AtLeast reports whether a holder of t may access content requiring required.
func (t Tier) AtLeast(required Tier) bool {
	return Rank(t) >= Rank(required)
}

func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, uint8(t))
	}
	return []byte(names[t]), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
