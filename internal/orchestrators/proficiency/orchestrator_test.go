package proficiency_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	"github.com/KirkDiggler/rpg-rewards/internal/orchestrators/proficiency"
	mockclock "github.com/KirkDiggler/rpg-rewards/internal/pkg/clock/mock"
	proficiencyrepo "github.com/KirkDiggler/rpg-rewards/internal/repositories/proficiency"
	proficiencyrepomock "github.com/KirkDiggler/rpg-rewards/internal/repositories/proficiency/mock"
	"github.com/KirkDiggler/rpg-rewards/internal/testutils"
)

type stubDefinitions map[string]*entities.ProficiencyDefinition

func (d stubDefinitions) Proficiency(id string) (*entities.ProficiencyDefinition, error) {
	def, ok := d[id]
	if !ok {
		return nil, errors.NotFoundf("proficiency %q not found", id)
	}
	return def, nil
}

// recordingEventBus keeps every published event
type recordingEventBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingEventBus) Publish(_ context.Context, e events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, e)
	return nil
}
func (b *recordingEventBus) Subscribe(_ string, _ events.Handler) string { return "sub-id" }
func (b *recordingEventBus) SubscribeFunc(_ string, _ int, _ events.HandlerFunc) string {
	return "sub-id"
}
func (b *recordingEventBus) Unsubscribe(_ string) error { return nil }
func (b *recordingEventBus) Clear(_ string)             {}
func (b *recordingEventBus) ClearAll()                  {}

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	ctx     context.Context
	bus     *recordingEventBus
	defs    stubDefinitions
	orch    proficiency.Service
	player  *entities.Player
	cleanup func()
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.bus = &recordingEventBus{}
	s.player = &entities.Player{ID: "player_1", Level: 5}

	clk := mockclock.NewMockClock(s.ctrl)
	clk.EXPECT().Now().Return(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)).AnyTimes()

	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	repo, err := proficiencyrepo.NewRedisRepository(&proficiencyrepo.RedisConfig{Client: client, Clock: clk})
	s.Require().NoError(err)

	s.defs = stubDefinitions{
		"mining": {
			ID:              "mining",
			Name:            "Mining",
			MaxLevel:        10,
			GrowthRate:      1.2,
			BaseXPPerAction: 10,
			KeyMilestones: []entities.KeyMilestone{
				{Name: "Apprentice", Rewards: entities.RewardsToGive{
					entities.ItemReward{Item: &entities.ItemDefinition{ID: "miners_pick", StackSizeMax: 1}, Quantity: 1},
				}},
				{Name: "Journeyman", Rewards: entities.RewardsToGive{
					entities.AbilityReward{AbilityID: "prospect"},
				}},
				{Name: "Master"},
			},
			AttributeGoals: []entities.AttributeGoal{
				{Attribute: "strength", Target: 10, Modifier: entities.ModifierAdditive},
			},
		},
		"broken": {
			ID:              "broken",
			MaxLevel:        5,
			GrowthRate:      1.1,
			BaseXPPerAction: 10,
		},
	}

	orch, err := proficiency.NewOrchestrator(&proficiency.Config{
		Repository:  repo,
		Definitions: s.defs,
		EventBus:    s.bus,
	})
	s.Require().NoError(err)
	s.orch = orch
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.cleanup()
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) addXP(amount float64) *proficiency.AddXPOutput {
	out, err := s.orch.AddXP(s.ctx, &proficiency.AddXPInput{
		Player:        s.player,
		ProficiencyID: "mining",
		Amount:        amount,
	})
	s.Require().NoError(err)
	return out
}

func (s *OrchestratorTestSuite) TestGrantIsIdempotent() {
	out, err := s.orch.Grant(s.ctx, &proficiency.GrantInput{Player: s.player, ProficiencyID: "mining"})
	s.Require().NoError(err)
	s.True(out.Created)
	s.Equal(0.0, out.State.CurrentXP)

	s.addXP(50)

	out, err = s.orch.Grant(s.ctx, &proficiency.GrantInput{Player: s.player, ProficiencyID: "mining"})
	s.Require().NoError(err)
	s.False(out.Created)
	s.Equal(50.0, out.State.CurrentXP)
}

func (s *OrchestratorTestSuite) TestAddXPWithoutLevelUp() {
	out := s.addXP(40)
	s.Equal(1, out.OldLevel)
	s.Equal(1, out.NewLevel)
	s.Empty(out.GainedSlots)
	s.Empty(s.bus.published)
}

func (s *OrchestratorTestSuite) TestAddXPReturnsEveryGainedSlot() {
	out := s.addXP(400)

	s.Equal(1, out.OldLevel)
	s.Equal(4, out.NewLevel)
	s.Equal(400.0, out.Applied)
	s.Require().Len(out.GainedSlots, 3)
	s.Equal(2, out.GainedSlots[0].Level)
	s.Equal(3, out.GainedSlots[1].Level)
	s.Equal(4, out.GainedSlots[2].Level)
	s.True(out.GainedSlots[2].IsKeyMilestone)
	s.Equal("Apprentice", out.GainedSlots[2].Name)

	s.Require().Len(s.bus.published, 3)
	for _, e := range s.bus.published {
		s.Equal(proficiency.EventLevelUp, e.Type())
		s.Equal("player_1", e.Source().GetID())
	}
}

func (s *OrchestratorTestSuite) TestAddXPAccumulates() {
	s.addXP(90)
	out := s.addXP(20)
	s.Equal(1, out.OldLevel)
	s.Equal(2, out.NewLevel)
	s.Equal(110.0, out.State.CurrentXP)
	s.Require().Len(out.GainedSlots, 1)
	s.Equal(2, out.GainedSlots[0].Level)
}

func (s *OrchestratorTestSuite) TestAddXPClampsAtMax() {
	out := s.addXP(1e9)
	s.Equal(10, out.NewLevel)
	s.Equal(2080.0, out.State.CurrentXP)
	s.Len(out.GainedSlots, 9)

	out = s.addXP(500)
	s.Equal(0.0, out.Applied)
	s.Empty(out.GainedSlots)
}

func (s *OrchestratorTestSuite) TestScaledXPUsesStoredLevel() {
	s.addXP(220)

	// level 3: 10 * 0.5 = 5, plus (5 - 3) levels * 5 * 0.1 = 1
	out, err := s.orch.AddXP(s.ctx, &proficiency.AddXPInput{
		Player:        s.player,
		ProficiencyID: "mining",
		Amount:        1000,
		Scaling:       &proficiency.XPScaling{Percentage: 0.5, OverlevelBonus: 0.1, TargetLevel: 5},
	})
	s.Require().NoError(err)
	s.InDelta(6.0, out.Applied, 1e-9)
	s.InDelta(226.0, out.State.CurrentXP, 1e-9)
	s.Equal(3, out.OldLevel)
}

func (s *OrchestratorTestSuite) TestConcurrentScaledXPSeesEachLevel() {
	// Each grant adds 100 * (1 + (10 - level) * 0.1) at the level stored when it runs.
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.orch.AddXP(s.ctx, &proficiency.AddXPInput{
				Player:        s.player,
				ProficiencyID: "mining",
				Scaling:       &proficiency.XPScaling{Percentage: 10, OverlevelBonus: 0.1, TargetLevel: 10},
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	// 190 at L1, 180 at L2, 160 at L4 twice, then 150 at L5
	out, err := s.orch.GetProgress(s.ctx, &proficiency.GetProgressInput{PlayerID: "player_1", ProficiencyID: "mining"})
	s.Require().NoError(err)
	s.InDelta(840.0, out.XP, 1e-9)
}

func (s *OrchestratorTestSuite) TestNonFiniteScalingRejected() {
	_, err := s.orch.AddXP(s.ctx, &proficiency.AddXPInput{
		Player:        s.player,
		ProficiencyID: "mining",
		Scaling:       &proficiency.XPScaling{Percentage: math.Inf(1)},
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestNegativeXPClampsAtZero() {
	s.addXP(50)
	out := s.addXP(-500)
	s.Equal(0.0, out.State.CurrentXP)
	s.Equal(-50.0, out.Applied)
}

func (s *OrchestratorTestSuite) TestMissingTrackStillStoresXP() {
	out, err := s.orch.AddXP(s.ctx, &proficiency.AddXPInput{
		Player:        s.player,
		ProficiencyID: "broken",
		Amount:        250,
	})
	s.Require().NoError(err)
	s.Equal(3, out.NewLevel)
	s.Empty(out.GainedSlots)
	s.Len(s.bus.published, 2)
}

func (s *OrchestratorTestSuite) TestGetProgress() {
	s.addXP(250)

	out, err := s.orch.GetProgress(s.ctx, &proficiency.GetProgressInput{PlayerID: "player_1", ProficiencyID: "mining"})
	s.Require().NoError(err)
	s.Equal(3, out.Level)
	s.Equal(10, out.MaxLevel)
	s.False(out.IsMaxLevel)
	s.InDelta(114.0, out.XPToNextLevel, 1e-6)
	s.Require().NotNil(out.NextMilestone)
	s.Equal(4, out.NextMilestone.Level)
	s.Equal("Apprentice", out.NextMilestone.Name)
}

func (s *OrchestratorTestSuite) TestGetProgressAtMax() {
	s.addXP(5000)

	out, err := s.orch.GetProgress(s.ctx, &proficiency.GetProgressInput{PlayerID: "player_1", ProficiencyID: "mining"})
	s.Require().NoError(err)
	s.True(out.IsMaxLevel)
	s.Equal(0.0, out.XPToNextLevel)
	s.Nil(out.NextMilestone)
}

func (s *OrchestratorTestSuite) TestGetProgressNotGranted() {
	_, err := s.orch.GetProgress(s.ctx, &proficiency.GetProgressInput{PlayerID: "player_1", ProficiencyID: "mining"})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestRestoreReturnsOnlyReapplicableRewards() {
	out, err := s.orch.Restore(s.ctx, &proficiency.RestoreInput{
		Player:        s.player,
		ProficiencyID: "mining",
		SavedXP:       1000,
	})
	s.Require().NoError(err)
	s.Equal(7, out.Level)
	s.Equal(1000.0, out.State.CurrentXP)

	// levels 2..7 each carry one strength reward, level 7 adds the ability,
	// and the Apprentice item on level 4 is never reapplied
	s.Require().Len(out.Rewards, 7)
	for _, r := range out.Rewards {
		s.True(r.ReapplyOnLoad())
	}
	s.Contains(out.Rewards, entities.Reward(entities.AbilityReward{AbilityID: "prospect"}))
	s.Empty(s.bus.published)
}

func (s *OrchestratorTestSuite) TestRestoreClampsSavedXP() {
	out, err := s.orch.Restore(s.ctx, &proficiency.RestoreInput{
		Player:        s.player,
		ProficiencyID: "mining",
		SavedXP:       -20,
	})
	s.Require().NoError(err)
	s.Equal(0.0, out.State.CurrentXP)
	s.Equal(1, out.Level)
	s.Empty(out.Rewards)
}

func (s *OrchestratorTestSuite) TestBreakdown() {
	out, err := s.orch.Breakdown(s.ctx, &proficiency.BreakdownInput{ProficiencyID: "mining"})
	s.Require().NoError(err)
	s.False(out.HighGrowth)
	s.Require().Len(out.Lines, 10)

	s.Equal(100.0, out.Lines[0].XPRequired)
	s.Equal(10, out.Lines[0].ActionsNeeded)
	s.Equal("(strength +1)", out.Lines[0].Milestone)
	s.Equal("⭐ Apprentice miners_pick x1 (strength +1)", out.Lines[3].Milestone)
	s.Equal(0.0, out.Lines[9].XPRequired)
}

func (s *OrchestratorTestSuite) TestTimeToMax() {
	out, err := s.orch.TimeToMax(s.ctx, &proficiency.TimeToMaxInput{ProficiencyID: "mining", ActionsPerMinute: 2})
	s.Require().NoError(err)
	s.InDelta(2079.890176, out.Estimate.TotalXP, 1e-6)
	s.InDelta(out.Estimate.TotalActions/2, out.Estimate.Minutes, 1e-9)

	_, err = s.orch.TimeToMax(s.ctx, &proficiency.TimeToMaxInput{ProficiencyID: "mining"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestUnknownProficiency() {
	_, err := s.orch.AddXP(s.ctx, &proficiency.AddXPInput{Player: s.player, ProficiencyID: "fishing", Amount: 1})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestInvalidInput() {
	_, err := s.orch.AddXP(s.ctx, &proficiency.AddXPInput{ProficiencyID: "mining", Amount: 1})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orch.Grant(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orch.GetProgress(s.ctx, &proficiency.GetProgressInput{ProficiencyID: "mining"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestConcurrentAddXPIsSerialized() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.orch.AddXP(s.ctx, &proficiency.AddXPInput{
				Player:        s.player,
				ProficiencyID: "mining",
				Amount:        10,
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	out, err := s.orch.GetProgress(s.ctx, &proficiency.GetProgressInput{PlayerID: "player_1", ProficiencyID: "mining"})
	s.Require().NoError(err)
	s.Equal(200.0, out.XP)
	s.Equal(2, out.Level)
}

func (s *OrchestratorTestSuite) TestRepositoryFailure() {
	repo := proficiencyrepomock.NewMockRepository(s.ctrl)
	orch, err := proficiency.NewOrchestrator(&proficiency.Config{
		Repository:  repo,
		Definitions: s.defs,
		EventBus:    s.bus,
	})
	s.Require().NoError(err)

	repo.EXPECT().
		Get(gomock.Any(), proficiencyrepo.GetInput{PlayerID: "player_1", ProficiencyID: "mining"}).
		Return(nil, errors.Unavailable("redis down"))

	_, err = orch.AddXP(s.ctx, &proficiency.AddXPInput{Player: s.player, ProficiencyID: "mining", Amount: 5})
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
}

func (s *OrchestratorTestSuite) TestConfigValidation() {
	_, err := proficiency.NewOrchestrator(&proficiency.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
