// Package loot decides which entries of a loot table drop and in what quantity.
package loot

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
)

//go:generate mockgen -destination=mock/mock_resolver.go -package=lootmock github.com/KirkDiggler/rpg-rewards/internal/engine/loot Resolver,RateProvider

// MaxSelectionAttempts bounds the picks made per draw while looking for an
// entry not yet selected in the current resolution
const MaxSelectionAttempts = 10

// RateProvider supplies the per-rarity drop rates at a player level
type RateProvider interface {
	RatesAt(level int) entities.RarityRates
}

// Drop is one selected entry
type Drop struct {
	Item       *entities.ItemDefinition
	Quantity   int
	EntryIndex int
}

// Result describes one resolution of one table
type Result struct {
	TableID string
	// Procced is false when the table-level chance failed
	Procced bool
	// Eligible is how many entries passed their own chance roll
	Eligible int
	// Requested is the drop count rolled from [1, min(MaxItems, Eligible)]
	Requested int
	// Skipped counts draws that found no unselected entry in time
	Skipped int
	Drops   []Drop
}

// Resolver rolls loot tables
type Resolver interface {
	// Resolve rolls table against the given rarity rates. A nil or
	// misconfigured table resolves to no drops.
	Resolve(table *entities.LootTable, rates entities.RarityRates) *Result
}

// Config holds the dependencies of a Resolver
type Config struct {
	Randomizer Randomizer
}

// Validate ensures all required dependencies are set
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Randomizer == nil {
		vb.RequiredField("Randomizer")
	}
	return vb.Build()
}

type resolver struct {
	random Randomizer
}

// NewResolver creates a Resolver
func NewResolver(cfg *Config) (Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &resolver{random: cfg.Randomizer}, nil
}

func (r *resolver) Resolve(table *entities.LootTable, rates entities.RarityRates) *Result {
	if table == nil {
		slog.Error("Cannot resolve nil loot table")
		return &Result{}
	}

	result := &Result{TableID: table.ID}

	if len(table.Entries) == 0 {
		slog.Info("Loot table has no entries", "table_id", table.ID)
		return result
	}

	// Table proc. A chance of zero never procs, even on a zero roll.
	procRoll := r.random.Float()
	if table.DropChance <= 0 || procRoll > table.DropChance {
		slog.Debug("Loot table failed to proc",
			"table_id", table.ID,
			"required", table.DropChance,
			"rolled", procRoll)
		return result
	}
	result.Procced = true

	if table.MaxItems < 1 {
		slog.Error("Loot table max items must be at least 1",
			"table_id", table.ID,
			"max_items", table.MaxItems)
		return result
	}

	valid := r.eligibleEntries(table, rates)
	result.Eligible = len(valid)
	if len(valid) == 0 {
		slog.Debug("No loot entries passed the drop chance check", "table_id", table.ID)
		return result
	}

	result.Requested = r.random.IntRange(1, min(table.MaxItems, len(valid)))

	used := make([]bool, len(valid))
	usedCount := 0
	for draw := 0; draw < result.Requested; draw++ {
		if usedCount == len(valid) {
			// Every eligible entry has dropped once; later draws may repeat.
			slog.Debug("Resetting loot selection, all eligible entries used", "table_id", table.ID)
			clear(used)
			usedCount = 0
		}

		selected := -1
		for attempt := 0; attempt < MaxSelectionAttempts; attempt++ {
			idx := r.random.IntRange(0, len(valid)-1)
			if !used[idx] {
				selected = idx
				used[idx] = true
				usedCount++
				break
			}
		}
		if selected < 0 {
			slog.Warn("Failed to find unused loot entry",
				"table_id", table.ID,
				"attempts", MaxSelectionAttempts,
				"draw", draw)
			result.Skipped++
			continue
		}

		entryIndex := valid[selected]
		entry := table.Entries[entryIndex]
		result.Drops = append(result.Drops, Drop{
			Item:       entry.Item,
			Quantity:   r.stackSize(table.ID, entry),
			EntryIndex: entryIndex,
		})
	}

	slog.Debug("Loot table resolved",
		"table_id", table.ID,
		"eligible", result.Eligible,
		"requested", result.Requested,
		"dropped", len(result.Drops))

	return result
}

// eligibleEntries rolls every entry against its own chance, in table order
func (r *resolver) eligibleEntries(table *entities.LootTable, rates entities.RarityRates) []int {
	valid := make([]int, 0, len(table.Entries))
	for i, entry := range table.Entries {
		if entry.Item == nil {
			continue
		}

		chance := entry.OverrideDropChance
		if chance <= 0 {
			chance = rates.For(entry.Item.Rarity)
		}

		roll := r.random.Float()
		if chance > 0 && roll <= chance {
			valid = append(valid, i)
			slog.Debug("Loot entry passed drop check",
				"table_id", table.ID,
				"item_id", entry.Item.ID,
				"required", chance,
				"rolled", roll)
		}
	}
	return valid
}

func (r *resolver) stackSize(tableID string, entry entities.LootTableEntry) int {
	if !entry.Item.IsStackable() {
		return 1
	}

	lo, hi := entry.StackRange.Min, entry.StackRange.Max
	if hi < lo {
		slog.Warn("Loot entry stack range is inverted, using minimum",
			"table_id", tableID,
			"item_id", entry.Item.ID,
			"min", lo,
			"max", hi)
		hi = lo
	}
	return max(r.random.IntRange(lo, hi), 1)
}
