package rewardlog_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	mockclock "github.com/KirkDiggler/rpg-rewards/internal/pkg/clock/mock"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/rewardlog"
	"github.com/KirkDiggler/rpg-rewards/internal/testutils"
)

type RedisRewardLogTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	clock   *mockclock.MockClock
	mr      *miniredis.Miniredis
	repo    rewardlog.Repository
	ctx     context.Context
	now     time.Time
	cleanup func()
}

func (s *RedisRewardLogTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.clock = mockclock.NewMockClock(s.ctrl)
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	client, mr, cleanup := testutils.CreateTestRedisServer(s.T())
	s.mr = mr
	s.cleanup = cleanup

	repo, err := rewardlog.NewRedisRepository(&rewardlog.Config{
		Client:     client,
		Clock:      s.clock,
		TTL:        time.Hour,
		MaxEntries: 3,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRewardLogTestSuite) TearDownTest() {
	s.cleanup()
	s.ctrl.Finish()
}

func (s *RedisRewardLogTestSuite) entry(n int) *entities.RewardLogEntry {
	return &entities.RewardLogEntry{
		ID:       fmt.Sprintf("reward_%d", n),
		PlayerID: "player_1",
		Success:  true,
		Outcomes: []entities.Outcome{{
			Kind:        entities.RewardKindItem,
			Success:     true,
			Destination: entities.DestinationInventory,
			ItemID:      "iron_ore",
			Quantity:    n,
		}},
		CreatedAt: s.now,
	}
}

func (s *RedisRewardLogTestSuite) TestAppendAndList() {
	s.clock.EXPECT().Now().Return(s.now)

	out, err := s.repo.Append(s.ctx, rewardlog.AppendInput{Entry: s.entry(1)})
	s.Require().NoError(err)
	s.Equal(s.now.Add(time.Hour), out.ExpiresAt)

	list, err := s.repo.List(s.ctx, rewardlog.ListInput{PlayerID: "player_1"})
	s.Require().NoError(err)
	s.Require().Len(list.Entries, 1)
	s.Equal("reward_1", list.Entries[0].ID)
	s.Equal(entities.RewardKindItem, list.Entries[0].Outcomes[0].Kind)
	s.Equal(1, list.Entries[0].Outcomes[0].Quantity)
	s.True(s.now.Equal(list.Entries[0].CreatedAt))
}

func (s *RedisRewardLogTestSuite) TestNewestFirstAndTrimmed() {
	s.clock.EXPECT().Now().Return(s.now).Times(5)
	for i := 1; i <= 5; i++ {
		_, err := s.repo.Append(s.ctx, rewardlog.AppendInput{Entry: s.entry(i)})
		s.Require().NoError(err)
	}

	list, err := s.repo.List(s.ctx, rewardlog.ListInput{PlayerID: "player_1"})
	s.Require().NoError(err)
	s.Require().Len(list.Entries, 3)
	s.Equal("reward_5", list.Entries[0].ID)
	s.Equal("reward_3", list.Entries[2].ID)

	list, err = s.repo.List(s.ctx, rewardlog.ListInput{PlayerID: "player_1", Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(list.Entries, 1)
	s.Equal("reward_5", list.Entries[0].ID)
}

func (s *RedisRewardLogTestSuite) TestLedgerExpires() {
	s.clock.EXPECT().Now().Return(s.now)
	_, err := s.repo.Append(s.ctx, rewardlog.AppendInput{Entry: s.entry(1)})
	s.Require().NoError(err)

	s.mr.FastForward(2 * time.Hour)

	list, err := s.repo.List(s.ctx, rewardlog.ListInput{PlayerID: "player_1"})
	s.Require().NoError(err)
	s.Empty(list.Entries)
}

func (s *RedisRewardLogTestSuite) TestInvalidInput() {
	_, err := s.repo.Append(s.ctx, rewardlog.AppendInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Append(s.ctx, rewardlog.AppendInput{Entry: &entities.RewardLogEntry{}})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.List(s.ctx, rewardlog.ListInput{PlayerID: "player_1", Limit: -1})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRewardLogTestSuite) TestConfigValidation() {
	testCases := []struct {
		name   string
		config *rewardlog.Config
	}{
		{name: "nil config", config: nil},
		{name: "missing client", config: &rewardlog.Config{Clock: s.clock}},
		{name: "negative ttl", config: &rewardlog.Config{Client: nil, Clock: s.clock, TTL: -time.Second}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := rewardlog.NewRedisRepository(tc.config)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func TestRedisRewardLogSuite(t *testing.T) {
	suite.Run(t, new(RedisRewardLogTestSuite))
}
