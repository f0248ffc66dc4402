// Package progression converts between cumulative proficiency XP and levels
// for a geometric cost curve.
//
// Invalid definitions never produce errors here. Every function logs and
// returns a neutral value (0 XP, level 1) so a bad content file cannot stop
// a running session.
package progression

import (
	"log/slog"
	"math"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
)

// StartingXP is the cost of going from level 1 to level 2
const StartingXP = 100.0

// growthTolerance is how close to 1.0 a growth rate must be to use the linear curve
const growthTolerance = 1e-8

func validDefinition(def *entities.ProficiencyDefinition, op string) bool {
	if def == nil {
		slog.Error("Proficiency definition is nil", "operation", op)
		return false
	}
	if def.GrowthRate <= 0 || math.IsNaN(def.GrowthRate) || math.IsInf(def.GrowthRate, 0) {
		slog.Error("Proficiency definition has invalid growth rate",
			"operation", op,
			"proficiency_id", def.ID,
			"growth_rate", def.GrowthRate)
		return false
	}
	return true
}

func isLinear(def *entities.ProficiencyDefinition) bool {
	return math.Abs(def.GrowthRate-1) <= growthTolerance
}

// CostForLevelUp returns the XP needed to go from level to level+1
func CostForLevelUp(level int, def *entities.ProficiencyDefinition) float64 {
	if !validDefinition(def, "CostForLevelUp") || level < 1 {
		return 0
	}
	return StartingXP * math.Pow(def.GrowthRate, float64(level-1))
}

// CumulativeXPForLevel returns the total XP needed to reach level from level 1 at 0 XP
func CumulativeXPForLevel(level int, def *entities.ProficiencyDefinition) float64 {
	if !validDefinition(def, "CumulativeXPForLevel") || level <= 1 {
		return 0
	}
	if isLinear(def) {
		return StartingXP * float64(level-1)
	}
	g := def.GrowthRate
	return StartingXP * (math.Pow(g, float64(level-1)) - 1) / (g - 1)
}

// LevelAtXP returns the level reached with xp cumulative experience.
// The result is not clamped to MaxLevel.
func LevelAtXP(xp float64, def *entities.ProficiencyDefinition) int {
	if !validDefinition(def, "LevelAtXP") || xp < 0 || math.IsNaN(xp) {
		return 1
	}
	if isLinear(def) {
		return settleLevel(xp, int(math.Floor(xp/StartingXP))+1, def)
	}

	g := def.GrowthRate
	arg := xp*(g-1)/StartingXP + 1
	if arg <= 0 {
		// Shrinking curves converge; XP past the limit reaches every level.
		slog.Warn("XP exceeds the limit of a shrinking curve",
			"proficiency_id", def.ID,
			"xp", xp,
			"growth_rate", g)
		return max(def.MaxLevel, 1)
	}

	levels := math.Log(arg) / math.Log(g)
	if math.IsInf(levels, 0) || levels > math.MaxInt32 {
		return math.MaxInt32
	}
	return settleLevel(xp, int(math.Floor(levels))+1, def)
}

// settleLevel corrects a log estimate against CumulativeXPForLevel so that
// the result is the highest level whose threshold is <= xp.
func settleLevel(xp float64, level int, def *entities.ProficiencyDefinition) int {
	level = max(level, 1)
	for level > 1 && CumulativeXPForLevel(level, def) > xp {
		level--
	}
	for {
		next := CumulativeXPForLevel(level+1, def)
		// A converged shrinking curve stops increasing in float64.
		if next > xp || next <= CumulativeXPForLevel(level, def) {
			return level
		}
		level++
	}
}

// XPRemainingForLevel returns how much more XP is needed to reach targetLevel
func XPRemainingForLevel(currentXP float64, targetLevel int, def *entities.ProficiencyDefinition) float64 {
	return math.Max(CumulativeXPForLevel(targetLevel, def)-currentXP, 0)
}

// MaxXP is the ceiling stored XP is clamped to
func MaxXP(def *entities.ProficiencyDefinition) float64 {
	if def == nil {
		return 0
	}
	return math.Ceil(CumulativeXPForLevel(def.MaxLevel, def))
}

// ClampXP limits xp to [0, MaxXP]
func ClampXP(xp float64, def *entities.ProficiencyDefinition) float64 {
	if xp < 0 || math.IsNaN(xp) {
		return 0
	}
	return math.Min(xp, MaxXP(def))
}

// ClampedLevel returns LevelAtXP limited to [1, MaxLevel]
func ClampedLevel(xp float64, def *entities.ProficiencyDefinition) int {
	level := LevelAtXP(xp, def)
	if def != nil && def.MaxLevel >= 1 && level > def.MaxLevel {
		return def.MaxLevel
	}
	return level
}

// ScaledXP returns the XP a reward grants. Rewards from a source above the
// player's level earn overlevelBonus extra per level of difference; a
// targetLevel of 0 or less disables the scaling.
func ScaledXP(def *entities.ProficiencyDefinition, currentLevel, targetLevel int, percentage, overlevelBonus float64) float64 {
	if def == nil {
		slog.Error("Proficiency definition is nil", "operation", "ScaledXP")
		return 0
	}
	pre := def.BaseXPPerAction * percentage
	if targetLevel <= 0 {
		return pre
	}
	return pre + float64(targetLevel-currentLevel)*pre*overlevelBonus
}
