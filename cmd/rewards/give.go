package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-rewards/internal/content"
	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/abilities"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/attributes"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/inventory"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/rewardlog"
	"github.com/KirkDiggler/rpg-rewards/internal/world"
)

var (
	giveOptions   playerOptions
	rewardFile    string
	rewardSetName string
	historyLimit  int
)

var giveCmd = &cobra.Command{
	Use:   "give [player-id]",
	Short: "Give a composite reward to a player",
	Long: `Give every reward in a YAML reward file or a named reward set from the
content catalog. Examples:

  give player-1 --reward-set copper_vein_mined --level 12
  give player-1 --reward-file rewards.yaml --inventory=false`,
	Args: cobra.ExactArgs(1),
	RunE: runGive,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [player-id]",
	Short: "Show a player's inventory, attributes and abilities",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var historyCmd = &cobra.Command{
	Use:   "history [player-id]",
	Short: "Show the most recent rewards given to a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	giveOptions.register(giveCmd)
	giveCmd.Flags().StringVar(&rewardFile, "reward-file", "", "YAML file with a list of rewards")
	giveCmd.Flags().StringVar(&rewardSetName, "reward-set", "", "named reward set from the content catalog")
	giveCmd.MarkFlagsMutuallyExclusive("reward-file", "reward-set")
	giveCmd.MarkFlagsOneRequired("reward-file", "reward-set")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of entries to show; 0 shows all kept")
}

func loadRewards(catalog *content.Catalog) (entities.RewardsToGive, error) {
	if rewardSetName != "" {
		return catalog.RewardSet(rewardSetName)
	}

	data, err := os.ReadFile(rewardFile) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeNotFound, "failed to read reward file %s", rewardFile)
	}
	specs, err := content.ParseRewardSpecs(data)
	if err != nil {
		return nil, err
	}
	return catalog.ResolveRewards(specs)
}

func runGive(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, giveOptions.appOptions())
	if err != nil {
		return err
	}
	defer a.Close()

	toGive, err := loadRewards(a.catalog)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printTitle(w, "Giving %d rewards to %s", len(toGive), args[0])
	return giveAndPrint(cmd.Context(), w, a, giveOptions.rewardContext(args[0]), toGive)
}

// printWorldDrops lists pickups the player can see. The world lives only as
// long as the command, so this shows what the last Give spawned.
func printWorldDrops(ctx context.Context, w io.Writer, a *app, playerID string) error {
	out, err := a.world.List(ctx, &world.ListInput{PlayerID: playerID})
	if err != nil {
		return err
	}
	if len(out.Drops) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(out.Drops))
	for _, d := range out.Drops {
		owner := "anyone"
		if d.IsPrivate() {
			owner = d.RecipientID
		}
		rows = append(rows, []string{
			d.ID,
			fmt.Sprintf("%s x%d", d.ItemID, d.Quantity),
			fmt.Sprintf("(%.0f, %.0f, %.0f)", d.Location.X, d.Location.Y, d.Location.Z),
			owner,
		})
	}
	printTitle(w, "World drops")
	fmt.Fprintln(w, renderTable([]string{"Drop", "Item", "Location", "Claimable by"}, rows))
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	playerID := args[0]
	w := cmd.OutOrStdout()

	inv, err := a.inventory.Get(ctx, inventory.GetInput{PlayerID: playerID})
	if err != nil {
		return err
	}
	printTitle(w, "Inventory (%d/%d slots)", len(inv.Slots), inv.Capacity)
	if len(inv.Slots) > 0 {
		rows := make([][]string, 0, len(inv.Slots))
		for _, slot := range inv.Slots {
			name := slot.Stack.ItemID
			if item, err := a.catalog.Item(slot.Stack.ItemID); err == nil {
				name = item.Name
			}
			rows = append(rows, []string{strconv.Itoa(slot.Index), name, strconv.Itoa(slot.Stack.Quantity)})
		}
		fmt.Fprintln(w, renderTable([]string{"Slot", "Item", "Quantity"}, rows))
	}

	attrs, err := a.attributes.Get(ctx, attributes.GetInput{PlayerID: playerID})
	if err != nil {
		return err
	}
	printTitle(w, "Attributes")
	if len(attrs.Values) > 0 {
		names := make([]string, 0, len(attrs.Values))
		for name := range attrs.Values {
			names = append(names, name)
		}
		sort.Strings(names)
		rows := make([][]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, []string{name, strconv.FormatFloat(attrs.Values[name], 'g', -1, 64)})
		}
		fmt.Fprintln(w, renderTable([]string{"Attribute", "Value"}, rows))
	}

	abil, err := a.abilities.List(ctx, abilities.ListInput{PlayerID: playerID})
	if err != nil {
		return err
	}
	printTitle(w, "Abilities")
	if len(abil.Granted) > 0 {
		printNote(w, "granted: %s", strings.Join(abil.Granted, ", "))
	}
	if len(abil.Active) > 0 {
		printNote(w, "active: %s", strings.Join(abil.Active, ", "))
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.rewardLog.List(cmd.Context(), rewardlog.ListInput{
		PlayerID: args[0],
		Limit:    historyLimit,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printTitle(w, "%s reward history", args[0])
	if len(out.Entries) == 0 {
		printNote(w, "no rewards in the last %s", cfg.RewardLogTTL)
		return nil
	}
	for _, entry := range out.Entries {
		status := "ok"
		if !entry.Success {
			status = "partial failure"
		}
		printNote(w, "%s  %s  %s", entry.CreatedAt.Format(time.RFC3339), entry.ID, status)
		fmt.Fprintln(w, renderOutcomes(entry.Outcomes))
	}
	return nil
}
