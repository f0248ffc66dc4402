package proficiency

import (
	"github.com/KirkDiggler/rpg-rewards/internal/engine/progression"
	"github.com/KirkDiggler/rpg-rewards/internal/entities"
)

// GrantInput contains the request to start a player on a proficiency
type GrantInput struct {
	Player        *entities.Player
	ProficiencyID string
}

// GrantOutput contains the player's state after the grant
type GrantOutput struct {
	State *entities.ProficiencyState
	// Created is false when the player already had the proficiency
	Created bool
}

// AddXPInput contains the request to add experience
type AddXPInput struct {
	Player        *entities.Player
	ProficiencyID string
	Amount        float64
	// Scaling replaces Amount with progression.ScaledXP evaluated at the
	// level stored when the XP is applied.
	Scaling *XPScaling
}

// XPScaling describes an XP reward relative to the proficiency's base XP per action
type XPScaling struct {
	Percentage     float64
	OverlevelBonus float64
	// TargetLevel of 0 or less disables the overlevel bonus
	TargetLevel int
}

// AddXPOutput reports the stored XP and the levels it unlocked
type AddXPOutput struct {
	State    *entities.ProficiencyState
	OldLevel int
	NewLevel int
	// Applied is the XP actually stored after clamping
	Applied float64
	// GainedSlots holds the milestone slot of every level reached, in order.
	// The caller is responsible for giving their rewards.
	GainedSlots []entities.MilestoneSlot
}

// GetProgressInput contains the request to read progress
type GetProgressInput struct {
	PlayerID      string
	ProficiencyID string
}

// GetProgressOutput describes progress on one proficiency
type GetProgressOutput struct {
	ProficiencyID string
	Name          string
	XP            float64
	Level         int
	MaxLevel      int
	IsMaxLevel    bool
	// XPToNextLevel is 0 at max level
	XPToNextLevel float64
	// NextMilestone is the next key milestone slot above the current level, if any
	NextMilestone *entities.MilestoneSlot
}

// RestoreInput contains a saved XP value to load
type RestoreInput struct {
	Player        *entities.Player
	ProficiencyID string
	SavedXP       float64
}

// RestoreOutput contains the restored state and the rewards to reapply
type RestoreOutput struct {
	State *entities.ProficiencyState
	Level int
	// Rewards are the idempotent rewards of levels 2 through Level
	Rewards entities.RewardsToGive
}

// BreakdownInput contains the request for a progression table
type BreakdownInput struct {
	ProficiencyID string
}

// BreakdownLine is one level of the progression table
type BreakdownLine struct {
	progression.BreakdownRow
	// Milestone describes the rewards of reaching this level
	Milestone string
}

// BreakdownOutput contains the progression table
type BreakdownOutput struct {
	Definition *entities.ProficiencyDefinition
	Lines      []BreakdownLine
	// HighGrowth is set when later levels will be very expensive
	HighGrowth bool
}

// TimeToMaxInput contains the request for a play time estimate
type TimeToMaxInput struct {
	ProficiencyID    string
	ActionsPerMinute float64
}

// TimeToMaxOutput contains the estimate
type TimeToMaxOutput struct {
	Definition *entities.ProficiencyDefinition
	Estimate   progression.Estimate
}
