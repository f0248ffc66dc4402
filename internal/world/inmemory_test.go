package world_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	mockclock "github.com/KirkDiggler/rpg-rewards/internal/pkg/clock/mock"
	"github.com/KirkDiggler/rpg-rewards/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-rewards/internal/world"
)

type InMemorySpawnerTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	clock   *mockclock.MockClock
	spawner *world.InMemorySpawner
	ctx     context.Context
	now     time.Time
	ore     *entities.ItemDefinition
}

func (s *InMemorySpawnerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.clock = mockclock.NewMockClock(s.ctrl)
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.ore = &entities.ItemDefinition{ID: "iron_ore", StackSizeMax: 20}

	spawner, err := world.NewInMemory(&world.Config{
		IDGenerator: idgen.NewSequential("drop"),
		Clock:       s.clock,
	})
	s.Require().NoError(err)
	s.spawner = spawner
}

func (s *InMemorySpawnerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *InMemorySpawnerTestSuite) spawn(recipient string, offset time.Duration) *world.Drop {
	s.clock.EXPECT().Now().Return(s.now.Add(offset))
	out, err := s.spawner.Spawn(s.ctx, &world.SpawnInput{
		Item:        s.ore,
		Quantity:    3,
		ItemLevel:   7,
		Location:    entities.Vector{X: 10, Y: -5},
		RecipientID: recipient,
	})
	s.Require().NoError(err)
	return out.Drop
}

func (s *InMemorySpawnerTestSuite) TestSpawn() {
	drop := s.spawn("", 0)

	s.Equal("drop_1", drop.ID)
	s.Equal("iron_ore", drop.ItemID)
	s.Equal(3, drop.Quantity)
	s.Equal(7, drop.ItemLevel)
	s.Equal(world.DefaultPickupRadius, drop.Radius)
	s.False(drop.IsPrivate())
	s.Equal(s.now, drop.SpawnedAt)
}

func (s *InMemorySpawnerTestSuite) TestPublicDropClaimableByAnyone() {
	drop := s.spawn("", 0)

	out, err := s.spawner.Claim(s.ctx, &world.ClaimInput{DropID: drop.ID, PlayerID: "player_2"})
	s.Require().NoError(err)
	s.Equal(drop.ID, out.Drop.ID)

	_, err = s.spawner.Claim(s.ctx, &world.ClaimInput{DropID: drop.ID, PlayerID: "player_2"})
	s.True(errors.IsNotFound(err))
}

func (s *InMemorySpawnerTestSuite) TestPrivateDropOnlyClaimableByRecipient() {
	drop := s.spawn("player_1", 0)

	_, err := s.spawner.Claim(s.ctx, &world.ClaimInput{DropID: drop.ID, PlayerID: "player_2"})
	s.Require().Error(err)
	s.True(errors.IsPermissionDenied(err))

	out, err := s.spawner.Claim(s.ctx, &world.ClaimInput{DropID: drop.ID, PlayerID: "player_1"})
	s.Require().NoError(err)
	s.Equal("player_1", out.Drop.RecipientID)
}

func (s *InMemorySpawnerTestSuite) TestListHidesOtherPlayersPrivateDrops() {
	public := s.spawn("", 0)
	mine := s.spawn("player_1", time.Second)
	s.spawn("player_2", 2*time.Second)

	out, err := s.spawner.List(s.ctx, &world.ListInput{PlayerID: "player_1"})
	s.Require().NoError(err)
	s.Require().Len(out.Drops, 2)
	s.Equal(public.ID, out.Drops[0].ID)
	s.Equal(mine.ID, out.Drops[1].ID)

	all, err := s.spawner.List(s.ctx, &world.ListInput{})
	s.Require().NoError(err)
	s.Len(all.Drops, 3)
}

func (s *InMemorySpawnerTestSuite) TestListReturnsCopies() {
	s.spawn("", 0)

	out, err := s.spawner.List(s.ctx, &world.ListInput{})
	s.Require().NoError(err)
	out.Drops[0].Quantity = 999

	again, err := s.spawner.List(s.ctx, &world.ListInput{})
	s.Require().NoError(err)
	s.Equal(3, again.Drops[0].Quantity)
}

func (s *InMemorySpawnerTestSuite) TestInvalidInput() {
	testCases := []struct {
		name  string
		input *world.SpawnInput
	}{
		{name: "nil input", input: nil},
		{name: "missing item", input: &world.SpawnInput{Quantity: 1}},
		{name: "zero quantity", input: &world.SpawnInput{Item: s.ore}},
		{name: "negative radius", input: &world.SpawnInput{Item: s.ore, Quantity: 1, Radius: -1}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.spawner.Spawn(s.ctx, tc.input)
			s.True(errors.IsInvalidArgument(err))
		})
	}

	_, err := s.spawner.Claim(s.ctx, &world.ClaimInput{DropID: "drop_1"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *InMemorySpawnerTestSuite) TestConfigValidation() {
	_, err := world.NewInMemory(&world.Config{Clock: s.clock})
	s.True(errors.IsInvalidArgument(err))
}

func TestInMemorySpawnerSuite(t *testing.T) {
	suite.Run(t, new(InMemorySpawnerTestSuite))
}
