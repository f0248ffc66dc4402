package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	"github.com/KirkDiggler/rpg-rewards/internal/testutils"
)

type CommandTestSuite struct {
	suite.Suite
	mr  *miniredis.Miniredis
	out *bytes.Buffer
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandTestSuite))
}

func (s *CommandTestSuite) SetupTest() {
	var err error
	s.mr, err = miniredis.Run()
	s.Require().NoError(err)

	s.T().Setenv("REWARDS_REDIS_ADDR", s.mr.Addr())
	s.T().Setenv("REWARDS_CONTENT_DIR", testutils.WriteContentDir(s.T()))
	s.T().Setenv("REWARDS_STORE", "redis")
	s.T().Setenv("REWARDS_LOG_LEVEL", "error")

	s.out = &bytes.Buffer{}
	rootCmd.SetOut(s.out)
	rootCmd.SetErr(s.out)
}

func (s *CommandTestSuite) TearDownTest() {
	s.mr.Close()
}

func (s *CommandTestSuite) run(args ...string) error {
	s.out.Reset()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func (s *CommandTestSuite) TestBreakdown() {
	s.Require().NoError(s.run("breakdown", testutils.MiningID))

	s.Contains(s.out.String(), "Mining (mining)")
	s.Contains(s.out.String(), "Master Miner")
}

func (s *CommandTestSuite) TestEstimate() {
	s.Require().NoError(s.run("estimate", testutils.MiningID, "--apm", "10"))

	// level 10 needs 2079.89 XP, 208 actions at 10 XP each
	s.Contains(s.out.String(), "2080")
	s.Contains(s.out.String(), "208")
}

func (s *CommandTestSuite) TestUnknownProficiencyIsNotFound() {
	err := s.run("breakdown", "fishing")
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.Equal(66, errors.GetCode(err).ExitCode())
}

func (s *CommandTestSuite) TestGrantXPThenProgress() {
	s.Require().NoError(s.run("grant-xp", testutils.TestPlayerID, testutils.MiningID, "250"))
	s.Contains(s.out.String(), "level 1 -> 3")

	s.Require().NoError(s.run("progress", testutils.TestPlayerID, testutils.MiningID))
	s.Contains(s.out.String(), "3/10")
	s.Contains(s.out.String(), "250")
}

func (s *CommandTestSuite) TestProgressListsOnlyStartedProficiencies() {
	s.Require().NoError(s.run("progress", testutils.OtherTestPlayer))
	s.Contains(s.out.String(), "no proficiencies started")
}

func (s *CommandTestSuite) TestGrantXPWithSQLiteStore() {
	s.T().Setenv("REWARDS_STORE", "sqlite")
	s.T().Setenv("REWARDS_SQLITE_PATH", filepath.Join(s.T().TempDir(), "rewards.db"))

	s.Require().NoError(s.run("grant-xp", testutils.TestPlayerID, testutils.MiningID, "100"))
	s.Contains(s.out.String(), "level 1 -> 2")

	s.Require().NoError(s.run("progress", testutils.TestPlayerID, testutils.MiningID))
	s.Contains(s.out.String(), "2/10")
	s.False(s.mr.Exists("proficiency:"+testutils.TestPlayerID), "XP must not be written to redis")
}

func (s *CommandTestSuite) TestGiveRewardSetThenInspect() {
	s.Require().NoError(s.run("give", testutils.TestPlayerID, "--reward-set", testutils.FirstLoginSet))
	s.Contains(s.out.String(), "silver_ore x3")
	s.Contains(s.out.String(), "stamina +5")

	s.Require().NoError(s.run("inspect", testutils.TestPlayerID))
	s.Contains(s.out.String(), "Silver Ore")
	s.Contains(s.out.String(), "stamina")

	s.Require().NoError(s.run("history", testutils.TestPlayerID))
	s.Contains(s.out.String(), "silver_ore x3")
}

func (s *CommandTestSuite) TestRestoreReappliesAttributes() {
	s.Require().NoError(s.run("restore", testutils.TestPlayerID, testutils.MiningID, "1000"))
	s.Contains(s.out.String(), "level 7")

	s.Require().NoError(s.run("inspect", testutils.TestPlayerID))
	s.Contains(s.out.String(), "strength")
}

func (s *CommandTestSuite) TestRepairRemovesCorruptEntries() {
	s.mr.HSet("proficiency:player-corrupt", "mining", "{not json")

	s.Require().NoError(s.run("repair", "--dry-run"))
	s.True(s.mr.Exists("proficiency:player-corrupt"))

	s.Require().NoError(s.run("repair", "--dry-run=false"))
	s.False(s.mr.Exists("proficiency:player-corrupt"))
}

func (s *CommandTestSuite) TestRepairRequiresRedisStore() {
	s.T().Setenv("REWARDS_STORE", "sqlite")

	err := s.run("repair")
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *CommandTestSuite) TestInvalidXPAmount() {
	err := s.run("grant-xp", testutils.TestPlayerID, testutils.MiningID, "lots")
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func TestRunSimulationIsReproducible(t *testing.T) {
	catalog := testutils.LoadCatalog(t)
	table, err := catalog.LootTable(testutils.CopperVeinID)
	require.NoError(t, err)
	rates, err := catalog.RateTable("")
	require.NoError(t, err)

	seed := uint64(42)
	sim := &simulation{
		Tables:  []*entities.LootTable{table},
		Rates:   rates.RatesAt(1),
		Trials:  2000,
		Workers: 4,
		Seed:    &seed,
	}

	first, err := runSimulation(context.Background(), sim)
	require.NoError(t, err)
	second, err := runSimulation(context.Background(), sim)
	require.NoError(t, err)

	assert.Equal(t, sim.Trials, first.Trials)
	// copper_vein always procs
	assert.Equal(t, sim.Trials, first.Procs[testutils.CopperVeinID])
	require.NotEmpty(t, first.Items)
	for id, tally := range first.Items {
		assert.LessOrEqual(t, tally.Drops, sim.Trials, id)
		assert.GreaterOrEqual(t, tally.Quantity, tally.Drops, id)
	}

	assert.Equal(t, first.Empty, second.Empty)
	require.Len(t, second.Items, len(first.Items))
	for id, tally := range first.Items {
		require.Contains(t, second.Items, id)
		assert.Equal(t, tally.Drops, second.Items[id].Drops, id)
		assert.Equal(t, tally.Quantity, second.Items[id].Quantity, id)
	}
}

func TestRunSimulationRejectsBadInput(t *testing.T) {
	_, err := runSimulation(context.Background(), &simulation{Trials: 0})
	assert.True(t, errors.IsInvalidArgument(err))

	catalog := testutils.LoadCatalog(t)
	table, err := catalog.LootTable(testutils.CopperVeinID)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runSimulation(ctx, &simulation{Tables: []*entities.LootTable{table}, Trials: 10, Workers: 2})
	assert.True(t, errors.IsUnavailable(err))
}
