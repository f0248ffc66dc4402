package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-rewards/internal/orchestrators/proficiency"
)

var actionsPerMinute float64

var breakdownCmd = &cobra.Command{
	Use:   "breakdown [proficiency]",
	Short: "Show the level by level progression table of a proficiency",
	Long: `Print XP cost, cumulative XP, actions needed and milestone rewards for
every level of a proficiency. Example:

  breakdown mining`,
	Args: cobra.ExactArgs(1),
	RunE: runBreakdown,
}

var estimateCmd = &cobra.Command{
	Use:   "estimate [proficiency]",
	Short: "Estimate play time to reach max level",
	Long: `Estimate how long reaching max level takes at a steady action rate,
assuming base XP per action with no multipliers. Example:

  estimate mining --apm 12`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().Float64Var(&actionsPerMinute, "apm", 10, "actions per minute")
}

func runBreakdown(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.proficiency.Breakdown(cmd.Context(), &proficiency.BreakdownInput{
		ProficiencyID: args[0],
	})
	if err != nil {
		return err
	}

	def := out.Definition
	w := cmd.OutOrStdout()
	printTitle(w, "%s (%s)", def.Name, def.ID)
	printNote(w, "max level %d, growth rate %g, %s XP per action", def.MaxLevel, def.GrowthRate, formatXP(def.BaseXPPerAction))

	rows := make([][]string, 0, len(out.Lines))
	for _, line := range out.Lines {
		rows = append(rows, []string{
			strconv.Itoa(line.Level),
			fmt.Sprintf("%.1f", line.XPRequired),
			fmt.Sprintf("%.1f", line.CumulativeXP),
			strconv.Itoa(line.ActionsNeeded),
			strconv.Itoa(line.TotalActions),
			line.Milestone,
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Level", "XP to next", "Cumulative", "Actions", "Total actions", "Rewards"},
		rows,
	))

	if out.HighGrowth {
		printNote(w, "growth rate above 1.4: late levels will need very large amounts of XP")
	}
	return nil
}

func runEstimate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.proficiency.TimeToMax(cmd.Context(), &proficiency.TimeToMaxInput{
		ProficiencyID:    args[0],
		ActionsPerMinute: actionsPerMinute,
	})
	if err != nil {
		return err
	}

	est := out.Estimate
	w := cmd.OutOrStdout()
	printTitle(w, "%s to level %d at %g actions per minute", out.Definition.Name, out.Definition.MaxLevel, actionsPerMinute)
	fmt.Fprintln(w, renderTable([]string{"Total XP", "Actions", "Minutes", "Hours", "Days"}, [][]string{{
		fmt.Sprintf("%.0f", est.TotalXP),
		fmt.Sprintf("%.0f", est.TotalActions),
		fmt.Sprintf("%.1f", est.Minutes),
		fmt.Sprintf("%.1f", est.Hours),
		fmt.Sprintf("%.2f", est.Days),
	}}))
	return nil
}
