package abilities_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/abilities"
	"github.com/KirkDiggler/rpg-rewards/internal/testutils"
)

type RedisAbilitiesTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    abilities.Repository
	cleanup func()
}

func (s *RedisAbilitiesTestSuite) SetupTest() {
	s.ctx = context.Background()
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	repo, err := abilities.NewRedisRepository(&abilities.Config{Client: client})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisAbilitiesTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisAbilitiesTestSuite) TestGrantIsIdempotent() {
	out, err := s.repo.Grant(s.ctx, abilities.GrantInput{PlayerID: "player_1", AbilityID: "prospect"})
	s.Require().NoError(err)
	s.True(out.NewlyGranted)
	s.False(out.Active)

	out, err = s.repo.Grant(s.ctx, abilities.GrantInput{PlayerID: "player_1", AbilityID: "prospect"})
	s.Require().NoError(err)
	s.False(out.NewlyGranted)
}

func (s *RedisAbilitiesTestSuite) TestGrantWithActivate() {
	out, err := s.repo.Grant(s.ctx, abilities.GrantInput{PlayerID: "player_1", AbilityID: "smelt", Activate: true})
	s.Require().NoError(err)
	s.True(out.Active)

	// a later grant without activation keeps it active
	out, err = s.repo.Grant(s.ctx, abilities.GrantInput{PlayerID: "player_1", AbilityID: "smelt"})
	s.Require().NoError(err)
	s.True(out.Active)
}

func (s *RedisAbilitiesTestSuite) TestList() {
	for _, in := range []abilities.GrantInput{
		{PlayerID: "player_1", AbilityID: "smelt", Activate: true},
		{PlayerID: "player_1", AbilityID: "prospect"},
		{PlayerID: "player_2", AbilityID: "fish"},
	} {
		_, err := s.repo.Grant(s.ctx, in)
		s.Require().NoError(err)
	}

	out, err := s.repo.List(s.ctx, abilities.ListInput{PlayerID: "player_1"})
	s.Require().NoError(err)
	s.Equal([]string{"prospect", "smelt"}, out.Granted)
	s.Equal([]string{"smelt"}, out.Active)
}

func (s *RedisAbilitiesTestSuite) TestInvalidInput() {
	_, err := s.repo.Grant(s.ctx, abilities.GrantInput{PlayerID: "player_1"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.List(s.ctx, abilities.ListInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = abilities.NewRedisRepository(&abilities.Config{})
	s.True(errors.IsInvalidArgument(err))
}

func TestRedisAbilitiesSuite(t *testing.T) {
	suite.Run(t, new(RedisAbilitiesTestSuite))
}
