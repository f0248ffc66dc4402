package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-rewards/internal/config"
	"github.com/KirkDiggler/rpg-rewards/internal/content"
	"github.com/KirkDiggler/rpg-rewards/internal/engine/progression"
	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	"github.com/KirkDiggler/rpg-rewards/internal/redis"
	proficiencyrepo "github.com/KirkDiggler/rpg-rewards/internal/repositories/proficiency"
)

var repairDryRun bool

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Clamp stored XP to the current content and drop corrupt or retired entries",
	Long: `Scan every proficiency stored in Redis. Entries that do not decode or
reference a proficiency missing from the content are removed, and XP outside
[0, max XP] is clamped. Run with --dry-run first to see what would change.`,
	Args: cobra.NoArgs,
	RunE: runRepair,
}

func init() {
	repairCmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "report problems without writing")
}

func runRepair(cmd *cobra.Command, _ []string) error {
	if cfg.Store != config.StoreRedis {
		return errors.FailedPreconditionf("repair only supports the redis store, configured store is %s", cfg.Store)
	}

	catalog, err := content.Load(cfg.ContentDir)
	if err != nil {
		return err
	}

	client, err := redis.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create redis client")
	}
	defer func() { _ = client.Close() }()

	if err := client.Ping(cmd.Context()).Err(); err != nil {
		return errors.WrapWithCodef(err, errors.CodeUnavailable, "redis at %s is unreachable", cfg.RedisAddr)
	}

	out, err := proficiencyrepo.RepairRedis(cmd.Context(), client, proficiencyrepo.RepairInput{
		Normalize: clampToCatalog(catalog),
		DryRun:    repairDryRun,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if repairDryRun {
		printTitle(w, "Repair dry run")
	} else {
		printTitle(w, "Repair")
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Players", "Entries", "Corrupt", "Clamped", "Retired"},
		[][]string{{
			strconv.Itoa(out.Keys),
			strconv.Itoa(out.Checked),
			strconv.Itoa(out.Corrupt),
			strconv.Itoa(out.Adjusted),
			strconv.Itoa(out.Removed),
		}},
	))
	return nil
}

func clampToCatalog(catalog *content.Catalog) func(*entities.ProficiencyState) (float64, bool) {
	return func(state *entities.ProficiencyState) (float64, bool) {
		def, err := catalog.Proficiency(state.ProficiencyID)
		if err != nil {
			return 0, false
		}
		return progression.ClampXP(state.CurrentXP, def), true
	}
}
