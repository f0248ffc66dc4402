// Package entities provides core data structures for rpg-rewards.
package entities

import "strings"

// Rarity is the ordinal quality tier of an item. It indexes RarityRates.
type Rarity int

// Rarity tiers in ascending order
const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
	RarityExotic
)

// NumRarities is the number of rarity tiers. Adding a tier means extending
// RarityRates and every rate provider that fills it.
const NumRarities = 5

var rarityNames = [NumRarities]string{"common", "rare", "epic", "legendary", "exotic"}

// String returns the lowercase rarity name
func (r Rarity) String() string {
	if !r.IsValid() {
		return "unknown"
	}
	return rarityNames[r]
}

// IsValid reports whether r is one of the defined tiers
func (r Rarity) IsValid() bool {
	return r >= RarityCommon && r < NumRarities
}

// MarshalText encodes the rarity by name
func (r Rarity) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a rarity name
func (r *Rarity) UnmarshalText(text []byte) error {
	parsed, ok := ParseRarity(string(text))
	if !ok {
		return &UnknownValueError{Kind: "rarity", Value: string(text)}
	}
	*r = parsed
	return nil
}

// RarityNames returns the tier names in ordinal order
func RarityNames() []string {
	return rarityNames[:]
}

// ParseRarity parses a rarity name. "mythic" is accepted as an alias of exotic.
func ParseRarity(s string) (Rarity, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "mythic" {
		return RarityExotic, true
	}
	for i, n := range rarityNames {
		if n == name {
			return Rarity(i), true
		}
	}
	return RarityCommon, false
}

// RarityRates holds one drop probability per rarity tier
type RarityRates [NumRarities]float64

// For returns the rate for a rarity, or 0 for an unknown tier
func (r RarityRates) For(rarity Rarity) float64 {
	if !rarity.IsValid() {
		return 0
	}
	return r[rarity]
}

// UnknownValueError reports an enum value that could not be parsed
type UnknownValueError struct {
	Kind  string
	Value string
}

func (e *UnknownValueError) Error() string {
	return "unknown " + e.Kind + " " + `"` + e.Value + `"`
}
