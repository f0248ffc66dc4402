// Package milestones builds the per-level reward schedule of a proficiency.
package milestones

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
)

// GenerateTrack distributes a definition's key milestones and attribute goals
// over MaxLevel slots.
//
// Key milestones are placed walking down from the last level, one every
// MaxLevel/len(KeyMilestones) levels, with the last authored milestone on the
// last level. Every slot also gets one attribute reward, round-robin over the
// goals, worth goal.Target / (MaxLevel / len(AttributeGoals)).
//
// The result depends only on def, so callers rebuild it instead of storing it.
// A definition without milestones, goals or levels yields an empty track and a
// FailedPrecondition error.
func GenerateTrack(def *entities.ProficiencyDefinition) (*entities.ProficiencyTrack, error) {
	if def == nil {
		slog.Error("Cannot generate track for nil proficiency definition")
		return &entities.ProficiencyTrack{}, errors.FailedPrecondition("proficiency definition is nil")
	}

	track := &entities.ProficiencyTrack{ProficiencyID: def.ID}

	numMilestones := len(def.KeyMilestones)
	numGoals := len(def.AttributeGoals)
	if numGoals <= 0 || numMilestones <= 0 || def.MaxLevel <= 0 {
		slog.Error("Proficiency definition is missing track data",
			"proficiency_id", def.ID,
			"key_milestones", numMilestones,
			"attribute_goals", numGoals,
			"max_level", def.MaxLevel)
		return track, errors.FailedPreconditionf("proficiency %q needs key milestones, attribute goals and a max level", def.ID).
			WithMeta("proficiency_id", def.ID)
	}

	track.Slots = make([]entities.MilestoneSlot, def.MaxLevel)
	for i := range track.Slots {
		track.Slots[i].Level = i + 1
	}

	goalSplit := def.MaxLevel / numGoals
	if goalSplit == 0 {
		slog.Warn("Fewer levels than attribute goals, each goal is granted in full",
			"proficiency_id", def.ID,
			"max_level", def.MaxLevel,
			"attribute_goals", numGoals)
		goalSplit = 1
	}

	interval := def.MaxLevel / numMilestones
	placed := 0

	for i := def.MaxLevel - 1; i >= 0; i-- {
		slot := &track.Slots[i]

		if placed < numMilestones && i == def.MaxLevel-1-placed*interval {
			milestone := def.KeyMilestones[numMilestones-placed-1]
			slot.Name = milestone.Name
			slot.Icon = milestone.Icon
			slot.IsKeyMilestone = true
			slot.Rewards = append(entities.RewardsToGive(nil), milestone.Rewards...)
			placed++
		}

		goal := def.AttributeGoals[i%numGoals]
		reward := entities.AttributeReward{
			Attribute: goal.Attribute,
			Modifier:  goal.Modifier,
			Magnitude: goal.Target / float64(goalSplit),
		}
		if !slot.Rewards.Contains(reward) {
			slot.Rewards = append(slot.Rewards, reward)
		}
	}

	if placed < numMilestones {
		slog.Warn("Not every key milestone fit on the track",
			"proficiency_id", def.ID,
			"placed", placed,
			"key_milestones", numMilestones)
	}

	return track, nil
}
