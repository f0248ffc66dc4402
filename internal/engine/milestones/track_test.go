package milestones_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-rewards/internal/engine/milestones"
	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
)

type TrackTestSuite struct {
	suite.Suite
	def *entities.ProficiencyDefinition
}

func TestTrackSuite(t *testing.T) {
	suite.Run(t, new(TrackTestSuite))
}

func (s *TrackTestSuite) SetupTest() {
	s.def = &entities.ProficiencyDefinition{
		ID:         "mining",
		Name:       "Mining",
		MaxLevel:   10,
		GrowthRate: 1.2,
		KeyMilestones: []entities.KeyMilestone{
			{Name: "Apprentice", Icon: "pick-1"},
			{Name: "Journeyman", Icon: "pick-2", Rewards: entities.RewardsToGive{
				entities.AbilityReward{AbilityID: "prospect"},
			}},
			{Name: "Master", Icon: "pick-3"},
		},
		AttributeGoals: []entities.AttributeGoal{
			{Attribute: "strength", Target: 10, Modifier: entities.ModifierAdditive},
			{Attribute: "mining_speed", Target: 5, Modifier: entities.ModifierMultiplicative},
		},
	}
}

func (s *TrackTestSuite) TestPlacesMilestonesFromTheEnd() {
	track, err := milestones.GenerateTrack(s.def)
	s.Require().NoError(err)
	s.Require().Len(track.Slots, 10)
	s.Equal("mining", track.ProficiencyID)

	keyLevels := map[int]string{}
	for _, slot := range track.Slots {
		if slot.IsKeyMilestone {
			keyLevels[slot.Level] = slot.Name
		}
	}
	s.Equal(map[int]string{10: "Master", 7: "Journeyman", 4: "Apprentice"}, keyLevels)

	slot, ok := track.Slot(10)
	s.Require().True(ok)
	s.Equal("pick-3", slot.Icon)
}

func (s *TrackTestSuite) TestAttributeRewardsRoundRobin() {
	track, err := milestones.GenerateTrack(s.def)
	s.Require().NoError(err)

	for i, slot := range track.Slots {
		s.Equal(i+1, slot.Level)

		var attr []entities.AttributeReward
		for _, r := range slot.Rewards {
			if a, ok := r.(entities.AttributeReward); ok {
				attr = append(attr, a)
			}
		}
		s.Require().Len(attr, 1, "level %d", slot.Level)

		if i%2 == 0 {
			s.Equal(entities.AttributeReward{Attribute: "strength", Modifier: entities.ModifierAdditive, Magnitude: 2}, attr[0])
		} else {
			s.Equal(entities.AttributeReward{Attribute: "mining_speed", Modifier: entities.ModifierMultiplicative, Magnitude: 1}, attr[0])
		}
	}

	journeyman, _ := track.Slot(7)
	s.Len(journeyman.Rewards, 2)
	s.Equal(entities.RewardKindAbility, journeyman.Rewards[0].Kind())
}

func (s *TrackTestSuite) TestSuppressesDuplicateRewards() {
	s.def.KeyMilestones[2].Rewards = entities.RewardsToGive{
		entities.AttributeReward{Attribute: "mining_speed", Modifier: entities.ModifierMultiplicative, Magnitude: 1},
	}

	track, err := milestones.GenerateTrack(s.def)
	s.Require().NoError(err)

	last, _ := track.Slot(10)
	s.Len(last.Rewards, 1)
}

func (s *TrackTestSuite) TestDoesNotWriteIntoDefinition() {
	rewards := make(entities.RewardsToGive, 1, 4)
	rewards[0] = entities.AbilityReward{AbilityID: "smelt"}
	s.def.KeyMilestones[2].Rewards = rewards

	_, err := milestones.GenerateTrack(s.def)
	s.Require().NoError(err)

	s.Len(s.def.KeyMilestones[2].Rewards, 1)
	s.Nil(rewards[:2][1])
}

func (s *TrackTestSuite) TestDeterministic() {
	first, err := milestones.GenerateTrack(s.def)
	s.Require().NoError(err)
	second, err := milestones.GenerateTrack(s.def)
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *TrackTestSuite) TestLastLevelAlwaysKeyMilestone() {
	for maxLevel := 1; maxLevel <= 40; maxLevel++ {
		for numMilestones := 1; numMilestones <= maxLevel; numMilestones++ {
			for numGoals := 1; numGoals <= 3; numGoals++ {
				def := &entities.ProficiencyDefinition{ID: "prop", MaxLevel: maxLevel, GrowthRate: 1.1}
				for m := 0; m < numMilestones; m++ {
					def.KeyMilestones = append(def.KeyMilestones, entities.KeyMilestone{Name: fmt.Sprintf("m%d", m)})
				}
				for g := 0; g < numGoals; g++ {
					def.AttributeGoals = append(def.AttributeGoals, entities.AttributeGoal{Attribute: fmt.Sprintf("a%d", g), Target: 12})
				}

				track, err := milestones.GenerateTrack(def)
				s.Require().NoError(err)
				s.Require().Len(track.Slots, maxLevel)

				last := track.Slots[maxLevel-1]
				s.True(last.IsKeyMilestone, "max %d milestones %d goals %d", maxLevel, numMilestones, numGoals)
				s.Equal(fmt.Sprintf("m%d", numMilestones-1), last.Name)
			}
		}
	}
}

func (s *TrackTestSuite) TestFewerLevelsThanGoals() {
	s.def.MaxLevel = 1
	s.def.KeyMilestones = s.def.KeyMilestones[:1]

	track, err := milestones.GenerateTrack(s.def)
	s.Require().NoError(err)
	s.Require().Len(track.Slots, 1)
	s.Contains(track.Slots[0].Rewards, entities.Reward(entities.AttributeReward{
		Attribute: "strength", Modifier: entities.ModifierAdditive, Magnitude: 10,
	}))
}

func (s *TrackTestSuite) TestRejectsIncompleteDefinitions() {
	testCases := []struct {
		name   string
		mutate func(def *entities.ProficiencyDefinition)
	}{
		{"no milestones", func(def *entities.ProficiencyDefinition) { def.KeyMilestones = nil }},
		{"no goals", func(def *entities.ProficiencyDefinition) { def.AttributeGoals = nil }},
		{"zero max level", func(def *entities.ProficiencyDefinition) { def.MaxLevel = 0 }},
		{"negative max level", func(def *entities.ProficiencyDefinition) { def.MaxLevel = -4 }},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.mutate(s.def)

			track, err := milestones.GenerateTrack(s.def)
			s.Require().Error(err)
			s.True(errors.IsFailedPrecondition(err))
			s.Require().NotNil(track)
			s.Empty(track.Slots)
		})
	}

	track, err := milestones.GenerateTrack(nil)
	s.Error(err)
	s.Empty(track.Slots)
}
