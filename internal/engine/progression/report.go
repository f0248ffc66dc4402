package progression

import (
	"log/slog"
	"math"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
)

// HighGrowthRate is the growth rate above which late levels get very expensive
const HighGrowthRate = 1.4

// BreakdownRow is one level of a progression breakdown
type BreakdownRow struct {
	Level int
	// XPRequired is the cost of the next level up; 0 at max level
	XPRequired float64
	// CumulativeXP is the total XP at which the next level is reached
	CumulativeXP float64
	// ActionsNeeded assumes base XP per action with no multipliers
	ActionsNeeded int
	TotalActions  int
}

// Breakdown returns one row per level from 1 to MaxLevel
func Breakdown(def *entities.ProficiencyDefinition) []BreakdownRow {
	if !validDefinition(def, "Breakdown") || def.MaxLevel < 1 {
		return nil
	}
	if def.GrowthRate > HighGrowthRate {
		slog.Warn("High growth rate may result in very high XP requirements for later levels",
			"proficiency_id", def.ID,
			"growth_rate", def.GrowthRate)
	}

	rows := make([]BreakdownRow, 0, def.MaxLevel)
	total := 0
	for level := 1; level <= def.MaxLevel; level++ {
		row := BreakdownRow{Level: level}
		if level < def.MaxLevel {
			row.XPRequired = CostForLevelUp(level, def)
			row.CumulativeXP = CumulativeXPForLevel(level+1, def)
		} else {
			row.CumulativeXP = CumulativeXPForLevel(level, def)
		}
		if def.BaseXPPerAction > 0 {
			row.ActionsNeeded = int(math.Ceil(row.XPRequired / def.BaseXPPerAction))
		}
		total += row.ActionsNeeded
		row.TotalActions = total
		rows = append(rows, row)
	}
	return rows
}

// Estimate is the play time needed to reach max level
type Estimate struct {
	TotalXP      float64
	TotalActions float64
	Minutes      float64
	Hours        float64
	Days         float64
}

// TimeToMaxLevel estimates play time at a steady action rate.
// It returns false when actionsPerMinute is not positive.
func TimeToMaxLevel(def *entities.ProficiencyDefinition, actionsPerMinute float64) (Estimate, bool) {
	if actionsPerMinute <= 0 {
		return Estimate{}, false
	}
	if !validDefinition(def, "TimeToMaxLevel") {
		return Estimate{}, true
	}

	est := Estimate{TotalXP: CumulativeXPForLevel(def.MaxLevel, def)}
	if def.BaseXPPerAction > 0 {
		est.TotalActions = est.TotalXP / def.BaseXPPerAction
	}
	est.Minutes = est.TotalActions / actionsPerMinute
	est.Hours = est.Minutes / 60
	est.Days = est.Hours / 24
	return est, true
}
