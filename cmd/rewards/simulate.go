package main

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-rewards/internal/content"
	"github.com/KirkDiggler/rpg-rewards/internal/engine/loot"
	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
)

var (
	simTrials     int
	simLevel      int
	simWorkers    int
	simSeed       uint64
	simWithGlobal bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [loot-table]",
	Short: "Roll a loot table many times and show the drop histogram",
	Long: `Resolve a loot table repeatedly at a player level and report how often
each item dropped. Trials are split across parallel workers. Example:

  simulate copper_vein --trials 100000 --level 20 --global`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simTrials, "trials", 10000, "number of resolutions")
	simulateCmd.Flags().IntVar(&simLevel, "level", 1, "player level the rarity rates are taken at")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", runtime.NumCPU(), "parallel workers")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 0, "seed for reproducible runs; 0 picks a random seed")
	simulateCmd.Flags().BoolVar(&simWithGlobal, "global", false, "also roll the global loot table on every trial")
}

// simulation describes one simulate run
type simulation struct {
	Tables  []*entities.LootTable
	Rates   entities.RarityRates
	Trials  int
	Workers int
	// Seed gives worker i the seed Seed+i; nil seeds every worker randomly
	Seed *uint64
}

type itemTally struct {
	Item     *entities.ItemDefinition
	Drops    int
	Quantity int
}

type simulationResult struct {
	Trials int
	// Empty counts trials that dropped nothing
	Empty   int
	Procs   map[string]int
	Skipped int
	Items   map[string]*itemTally
}

func newSimulationResult() *simulationResult {
	return &simulationResult{
		Procs: make(map[string]int),
		Items: make(map[string]*itemTally),
	}
}

func (r *simulationResult) add(drop loot.Drop) {
	t, ok := r.Items[drop.Item.ID]
	if !ok {
		t = &itemTally{Item: drop.Item}
		r.Items[drop.Item.ID] = t
	}
	t.Drops++
	t.Quantity += drop.Quantity
}

func (r *simulationResult) merge(o *simulationResult) {
	r.Trials += o.Trials
	r.Empty += o.Empty
	r.Skipped += o.Skipped
	for id, n := range o.Procs {
		r.Procs[id] += n
	}
	for id, t := range o.Items {
		mine, ok := r.Items[id]
		if !ok {
			r.Items[id] = &itemTally{Item: t.Item, Drops: t.Drops, Quantity: t.Quantity}
			continue
		}
		mine.Drops += t.Drops
		mine.Quantity += t.Quantity
	}
}

// Sorted returns tallies by drop count, most frequent first
func (r *simulationResult) Sorted() []*itemTally {
	out := make([]*itemTally, 0, len(r.Items))
	for _, t := range r.Items {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Drops != out[j].Drops {
			return out[i].Drops > out[j].Drops
		}
		return out[i].Item.ID < out[j].Item.ID
	})
	return out
}

// runSimulation splits trials across workers. Each worker owns its randomizer
// and resolver, so no draw is shared between goroutines.
func runSimulation(ctx context.Context, sim *simulation) (*simulationResult, error) {
	if sim.Trials < 1 {
		return nil, errors.InvalidArgumentf("trials must be at least 1, got %d", sim.Trials)
	}
	if len(sim.Tables) == 0 {
		return nil, errors.InvalidArgument("at least one loot table is required")
	}
	workers := min(max(sim.Workers, 1), sim.Trials)

	g, ctx := errgroup.WithContext(ctx)
	partials := make([]*simulationResult, workers)

	for w := 0; w < workers; w++ {
		trials := sim.Trials / workers
		if w < sim.Trials%workers {
			trials++
		}

		g.Go(func() error {
			rcfg := &loot.RandomizerConfig{}
			if sim.Seed != nil {
				seed := *sim.Seed + uint64(w)
				rcfg.Seed = &seed
			}
			resolver, err := loot.NewResolver(&loot.Config{Randomizer: loot.NewRandomizer(rcfg)})
			if err != nil {
				return err
			}

			part := newSimulationResult()
			for i := 0; i < trials; i++ {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return errors.WrapWithCode(err, errors.CodeUnavailable, "simulation interrupted")
					}
				}

				dropped := false
				for _, table := range sim.Tables {
					res := resolver.Resolve(table, sim.Rates)
					if res == nil {
						continue
					}
					if res.Procced {
						part.Procs[table.ID]++
					}
					part.Skipped += res.Skipped
					for _, d := range res.Drops {
						part.add(d)
						dropped = true
					}
				}
				if !dropped {
					part.Empty++
				}
				part.Trials++
			}

			partials[w] = part
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := newSimulationResult()
	for _, p := range partials {
		total.merge(p)
	}
	return total, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	catalog, err := content.Load(cfg.ContentDir)
	if err != nil {
		return err
	}
	table, err := catalog.LootTable(args[0])
	if err != nil {
		return err
	}
	rates, err := catalog.RateTable(cfg.WorldTier)
	if err != nil {
		return err
	}

	sim := &simulation{
		Tables:  []*entities.LootTable{table},
		Rates:   rates.RatesAt(simLevel),
		Trials:  simTrials,
		Workers: simWorkers,
	}
	if simWithGlobal {
		global, err := catalog.GlobalLootTable()
		if err != nil {
			return err
		}
		if global.ID != table.ID {
			sim.Tables = append(sim.Tables, global)
		}
	}
	if simSeed != 0 {
		sim.Seed = &simSeed
	}

	res, err := runSimulation(cmd.Context(), sim)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printTitle(w, "%s: %d trials at level %d", table.ID, res.Trials, simLevel)

	rateRows := make([][]string, 0, entities.NumRarities)
	for r := entities.Rarity(0); r < entities.NumRarities; r++ {
		rateRows = append(rateRows, []string{r.String(), fmt.Sprintf("%.4f", sim.Rates.For(r))})
	}
	fmt.Fprintln(w, renderTable([]string{"Rarity", "Rate"}, rateRows))

	itemRows := make([][]string, 0, len(res.Items))
	for _, t := range res.Sorted() {
		itemRows = append(itemRows, []string{
			t.Item.ID,
			t.Item.Rarity.String(),
			strconv.Itoa(t.Drops),
			fmt.Sprintf("%.2f%%", 100*float64(t.Drops)/float64(res.Trials)),
			strconv.Itoa(t.Quantity),
			fmt.Sprintf("%.2f", float64(t.Quantity)/float64(t.Drops)),
		})
	}
	fmt.Fprintln(w, renderTable([]string{"Item", "Rarity", "Drops", "Per trial", "Quantity", "Avg stack"}, itemRows))

	for _, t := range sim.Tables {
		printNote(w, "%s procced on %.2f%% of trials", t.ID, 100*float64(res.Procs[t.ID])/float64(res.Trials))
	}
	printNote(w, "%d trials dropped nothing, %d draws skipped", res.Empty, res.Skipped)
	return nil
}
