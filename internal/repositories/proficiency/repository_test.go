package proficiency_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	mockclock "github.com/KirkDiggler/rpg-rewards/internal/pkg/clock/mock"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/proficiency"
	"github.com/KirkDiggler/rpg-rewards/internal/testutils"
)

type RepositoryTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	clock   *mockclock.MockClock
	ctx     context.Context
	now     time.Time
	repo    proficiency.Repository
	cleanup func()
}

// Cases run against both backends; each backend supplies SetupTest.
type RedisRepositoryTestSuite struct {
	RepositoryTestSuite
}

type SQLiteRepositoryTestSuite struct {
	RepositoryTestSuite
}

func (s *RepositoryTestSuite) setupCommon() {
	s.ctrl = gomock.NewController(s.T())
	s.clock = mockclock.NewMockClock(s.ctrl)
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.clock.EXPECT().Now().Return(s.now).AnyTimes()
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.setupCommon()
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	repo, err := proficiency.NewRedisRepository(&proficiency.RedisConfig{
		Client: client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *SQLiteRepositoryTestSuite) SetupTest() {
	s.setupCommon()
	repo, err := proficiency.NewSQLiteRepository(s.ctx, &proficiency.SQLiteConfig{
		DSN:   ":memory:",
		Clock: s.clock,
	})
	s.Require().NoError(err)
	s.repo = repo
	s.cleanup = func() { _ = repo.Close() }
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
	s.ctrl.Finish()
}

func (s *RepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, proficiency.GetInput{PlayerID: "player_1", ProficiencyID: "mining"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestSetThenGet() {
	setOut, err := s.repo.Set(s.ctx, proficiency.SetInput{
		PlayerID:      "player_1",
		ProficiencyID: "mining",
		XP:            342.5,
	})
	s.Require().NoError(err)
	s.Equal(342.5, setOut.State.CurrentXP)
	s.True(s.now.Equal(setOut.State.UpdatedAt))

	getOut, err := s.repo.Get(s.ctx, proficiency.GetInput{PlayerID: "player_1", ProficiencyID: "mining"})
	s.Require().NoError(err)
	s.Equal("player_1", getOut.State.PlayerID)
	s.Equal("mining", getOut.State.ProficiencyID)
	s.Equal(342.5, getOut.State.CurrentXP)
	s.True(s.now.Equal(getOut.State.UpdatedAt))
}

func (s *RepositoryTestSuite) TestSetOverwrites() {
	for _, xp := range []float64{10, 0, 55} {
		_, err := s.repo.Set(s.ctx, proficiency.SetInput{PlayerID: "player_1", ProficiencyID: "mining", XP: xp})
		s.Require().NoError(err)
	}

	out, err := s.repo.Get(s.ctx, proficiency.GetInput{PlayerID: "player_1", ProficiencyID: "mining"})
	s.Require().NoError(err)
	s.Equal(55.0, out.State.CurrentXP)
}

func (s *RepositoryTestSuite) TestListSortedAndScopedToPlayer() {
	for _, in := range []proficiency.SetInput{
		{PlayerID: "player_1", ProficiencyID: "smithing", XP: 5},
		{PlayerID: "player_1", ProficiencyID: "mining", XP: 7},
		{PlayerID: "player_2", ProficiencyID: "fishing", XP: 9},
	} {
		_, err := s.repo.Set(s.ctx, in)
		s.Require().NoError(err)
	}

	out, err := s.repo.List(s.ctx, proficiency.ListInput{PlayerID: "player_1"})
	s.Require().NoError(err)
	s.Require().Len(out.States, 2)
	s.Equal("mining", out.States[0].ProficiencyID)
	s.Equal(7.0, out.States[0].CurrentXP)
	s.Equal("smithing", out.States[1].ProficiencyID)
}

func (s *RepositoryTestSuite) TestListEmpty() {
	out, err := s.repo.List(s.ctx, proficiency.ListInput{PlayerID: "nobody"})
	s.Require().NoError(err)
	s.Empty(out.States)
}

func (s *RepositoryTestSuite) TestInvalidInput() {
	_, err := s.repo.Get(s.ctx, proficiency.GetInput{ProficiencyID: "mining"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Set(s.ctx, proficiency.SetInput{PlayerID: "player_1"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.List(s.ctx, proficiency.ListInput{})
	s.True(errors.IsInvalidArgument(err))
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func TestSQLiteRepositorySuite(t *testing.T) {
	suite.Run(t, new(SQLiteRepositoryTestSuite))
}

func TestConfigValidation(t *testing.T) {
	_, err := proficiency.NewRedisRepository(&proficiency.RedisConfig{})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	_, err = proficiency.NewSQLiteRepository(context.Background(), nil)
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
