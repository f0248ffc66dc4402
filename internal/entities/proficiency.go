package entities

import (
	"strings"
	"time"
)

// ModifierOp is how an attribute reward combines with the base value
type ModifierOp int

// Modifier operations
const (
	ModifierAdditive ModifierOp = iota
	ModifierMultiplicative
	ModifierOverride
)

var modifierNames = [...]string{"additive", "multiplicative", "override"}

// String returns the lowercase operation name
func (m ModifierOp) String() string {
	if m < ModifierAdditive || int(m) >= len(modifierNames) {
		return "unknown"
	}
	return modifierNames[m]
}

// MarshalText encodes the operation by name
func (m ModifierOp) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes an operation name
func (m *ModifierOp) UnmarshalText(text []byte) error {
	parsed, ok := ParseModifierOp(string(text))
	if !ok {
		return &UnknownValueError{Kind: "modifier", Value: string(text)}
	}
	*m = parsed
	return nil
}

// ParseModifierOp parses an operation name; the empty string means additive
func ParseModifierOp(s string) (ModifierOp, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return ModifierAdditive, true
	}
	for i, n := range modifierNames {
		if n == name {
			return ModifierOp(i), true
		}
	}
	return ModifierAdditive, false
}

// Apply combines base with magnitude
func (m ModifierOp) Apply(base, magnitude float64) float64 {
	switch m {
	case ModifierMultiplicative:
		return base * magnitude
	case ModifierOverride:
		return magnitude
	default:
		return base + magnitude
	}
}

// AttributeGoal is the total bonus a proficiency grants to one attribute
// across its whole track
type AttributeGoal struct {
	Attribute string
	Target    float64
	Modifier  ModifierOp
}

// KeyMilestone is a named reward bundle placed on the track
type KeyMilestone struct {
	Name    string
	Icon    string
	Rewards RewardsToGive
}

// ProficiencyDefinition is authored, immutable proficiency data
type ProficiencyDefinition struct {
	ID              string
	Name            string
	Description     string
	MaxLevel        int
	GrowthRate      float64
	BaseXPPerAction float64
	KeyMilestones   []KeyMilestone
	AttributeGoals  []AttributeGoal
}

// MilestoneSlot holds the rewards for reaching one level.
// Slot index 0 is level 1.
type MilestoneSlot struct {
	Level          int
	Name           string
	Icon           string
	IsKeyMilestone bool
	Rewards        RewardsToGive
}

// ProficiencyTrack is the per-level reward schedule derived from a definition.
// It is rebuilt on demand and never persisted.
type ProficiencyTrack struct {
	ProficiencyID string
	Slots         []MilestoneSlot
}

// Slot returns the slot for a 1-based level
func (t *ProficiencyTrack) Slot(level int) (*MilestoneSlot, bool) {
	if t == nil || level < 1 || level > len(t.Slots) {
		return nil, false
	}
	return &t.Slots[level-1], true
}

// ProficiencyState is the persisted per-player progress on one proficiency.
// Only CurrentXP is stored; the level is derived on every read.
type ProficiencyState struct {
	PlayerID      string    `json:"player_id"`
	ProficiencyID string    `json:"proficiency_id"`
	CurrentXP     float64   `json:"current_xp"`
	UpdatedAt     time.Time `json:"updated_at"`
}
