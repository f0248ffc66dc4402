package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	"github.com/KirkDiggler/rpg-rewards/internal/orchestrators/proficiency"
	"github.com/KirkDiggler/rpg-rewards/internal/orchestrators/rewards"
)

// playerOptions are the recipient flags shared by commands that give rewards
type playerOptions struct {
	level        int
	x, y, z      float64
	private      bool
	useInventory bool
	itemLevel    int
	targetLevel  int
	seed         uint64
}

func (o *playerOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.level, "level", 1, "player level, used for loot rarity rates")
	cmd.Flags().Float64Var(&o.x, "x", 0, "player X position")
	cmd.Flags().Float64Var(&o.y, "y", 0, "player Y position")
	cmd.Flags().Float64Var(&o.z, "z", 0, "player Z position")
	cmd.Flags().BoolVar(&o.private, "private", true, "world drops can only be picked up by the player")
	cmd.Flags().BoolVar(&o.useInventory, "inventory", true, "place items in the inventory before the world")
	cmd.Flags().IntVar(&o.itemLevel, "item-level", 1, "level stamped on created items")
	cmd.Flags().IntVar(&o.targetLevel, "target-level", 0, "level of whatever granted the reward; 0 disables overlevel XP")
	cmd.Flags().Uint64Var(&o.seed, "seed", 0, "seed for reproducible loot; 0 picks a random seed")
}

func (o *playerOptions) player(id string) *entities.Player {
	return &entities.Player{
		ID:       id,
		Level:    o.level,
		Location: entities.Vector{X: o.x, Y: o.y, Z: o.z},
	}
}

func (o *playerOptions) rewardContext(id string) entities.RewardContext {
	return entities.RewardContext{
		Recipient:    o.player(id),
		IsPrivate:    o.private,
		ItemLevel:    o.itemLevel,
		TargetLevel:  o.targetLevel,
		UseInventory: o.useInventory,
	}
}

func (o *playerOptions) appOptions() appOptions {
	if o.seed == 0 {
		return appOptions{}
	}
	seed := o.seed
	return appOptions{Seed: &seed}
}

var (
	grantXPOptions playerOptions
	restoreOptions playerOptions
)

var grantXPCmd = &cobra.Command{
	Use:   "grant-xp [player-id] [proficiency] [amount]",
	Short: "Add raw XP to a player's proficiency and give any milestone rewards",
	Long: `Add XP without scaling. Every level gained gives its milestone rewards.
Example:

  grant-xp player-1 mining 250`,
	Args: cobra.ExactArgs(3),
	RunE: runGrantXP,
}

var progressCmd = &cobra.Command{
	Use:   "progress [player-id] [proficiency]",
	Short: "Show a player's progress on one or every proficiency",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runProgress,
}

var restoreCmd = &cobra.Command{
	Use:   "restore [player-id] [proficiency] [saved-xp]",
	Short: "Load saved XP and reapply the rewards that are safe to grant again",
	Long: `Set a proficiency's XP from a save and reapply the attribute and ability
rewards of every level reached. Items and loot are never given again. Example:

  restore player-1 mining 1000`,
	Args: cobra.ExactArgs(3),
	RunE: runRestore,
}

func init() {
	grantXPOptions.register(grantXPCmd)
	restoreOptions.register(restoreCmd)
}

func parseXP(arg string) (float64, error) {
	xp, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, errors.InvalidArgumentf("invalid XP amount %q", arg)
	}
	return xp, nil
}

func runGrantXP(cmd *cobra.Command, args []string) error {
	amount, err := parseXP(args[2])
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg, grantXPOptions.appOptions())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	rc := grantXPOptions.rewardContext(args[0])

	out, err := a.proficiency.AddXP(ctx, &proficiency.AddXPInput{
		Player:        rc.Recipient,
		ProficiencyID: args[1],
		Amount:        amount,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printTitle(w, "%s %s: %s XP, level %d -> %d", args[0], args[1], formatXP(out.State.CurrentXP), out.OldLevel, out.NewLevel)

	var milestoneRewards entities.RewardsToGive
	for _, slot := range out.GainedSlots {
		printNote(w, "level %d: %s", slot.Level, proficiency.DescribeSlot(&slot))
		milestoneRewards = append(milestoneRewards, slot.Rewards...)
	}

	return giveAndPrint(ctx, w, a, rc, milestoneRewards)
}

func runRestore(cmd *cobra.Command, args []string) error {
	savedXP, err := parseXP(args[2])
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg, restoreOptions.appOptions())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	rc := restoreOptions.rewardContext(args[0])

	out, err := a.proficiency.Restore(ctx, &proficiency.RestoreInput{
		Player:        rc.Recipient,
		ProficiencyID: args[1],
		SavedXP:       savedXP,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printTitle(w, "%s %s restored at %s XP, level %d", args[0], args[1], formatXP(out.State.CurrentXP), out.Level)
	return giveAndPrint(ctx, w, a, rc, out.Rewards)
}

func runProgress(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ids := args[1:]
	if len(ids) == 0 {
		ids = a.catalog.ProficiencyIDs()
	}

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		out, err := a.proficiency.GetProgress(cmd.Context(), &proficiency.GetProgressInput{
			PlayerID:      args[0],
			ProficiencyID: id,
		})
		if err != nil {
			// listing every proficiency skips the ones never started
			if len(args) == 1 && errors.IsNotFound(err) {
				continue
			}
			return err
		}
		rows = append(rows, progressRow(out))
	}

	w := cmd.OutOrStdout()
	printTitle(w, "%s progress", args[0])
	if len(rows) == 0 {
		printNote(w, "no proficiencies started")
		return nil
	}
	fmt.Fprintln(w, renderTable([]string{"Proficiency", "Level", "XP", "To next", "Next milestone"}, rows))
	return nil
}

func progressRow(out *proficiency.GetProgressOutput) []string {
	level := fmt.Sprintf("%d/%d", out.Level, out.MaxLevel)
	toNext := fmt.Sprintf("%.1f", out.XPToNextLevel)
	if out.IsMaxLevel {
		level += " max"
		toNext = "-"
	}
	next := "-"
	if out.NextMilestone != nil {
		next = fmt.Sprintf("%s (level %d)", out.NextMilestone.Name, out.NextMilestone.Level)
	}
	return []string{out.Name, level, formatXP(out.XP), toNext, next}
}

// giveAndPrint gives rewards through the dispatcher and prints the outcomes.
// A partial failure is reported, not returned.
func giveAndPrint(ctx context.Context, w io.Writer, a *app, rc entities.RewardContext, toGive entities.RewardsToGive) error {
	if len(toGive) == 0 {
		printNote(w, "no rewards to give")
		return nil
	}

	out, err := a.rewards.Give(ctx, &rewards.GiveInput{
		RewardContext: rc,
		Rewards:       toGive,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w, renderOutcomes(out.Outcomes))
	if !out.Success {
		printNote(w, "some rewards failed, see the log for details")
	}
	if out.LogEntryID != "" {
		printNote(w, "ledger entry %s", out.LogEntryID)
	}
	return printWorldDrops(ctx, w, a, rc.Recipient.ID)
}
