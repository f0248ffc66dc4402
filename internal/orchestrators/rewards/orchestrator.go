// Package rewards dispatches composite rewards to their sinks: proficiency
// XP, inventory, the world, attributes and abilities.
package rewards

//go:generate mockgen -destination=mock/mock_service.go -package=rewardsmock github.com/KirkDiggler/rpg-rewards/internal/orchestrators/rewards Service

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/rpg-rewards/internal/engine/loot"
	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	"github.com/KirkDiggler/rpg-rewards/internal/orchestrators/proficiency"
	"github.com/KirkDiggler/rpg-rewards/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-rewards/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/abilities"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/attributes"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/inventory"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/rewardlog"
	"github.com/KirkDiggler/rpg-rewards/internal/world"
)

const (
	// TracerName identifies spans started by the dispatcher
	TracerName = "github.com/KirkDiggler/rpg-rewards/internal/orchestrators/rewards"

	// LootScatter is how far loot drops land from the spawn point on X and Y
	LootScatter = 50.0

	// maxRewardDepth bounds milestone rewards that grant XP that unlocks
	// further milestones
	maxRewardDepth = 8
)

// Content looks up the authored data rewards reference
type Content interface {
	Proficiency(id string) (*entities.ProficiencyDefinition, error)
	GlobalLootTable() (*entities.LootTable, error)
}

// Service gives rewards
type Service interface {
	// Give evaluates every reward in order. Individual reward failures are
	// reported through GiveOutput.Success and the outcomes; the error is
	// reserved for invalid input.
	Give(ctx context.Context, input *GiveInput) (*GiveOutput, error)
}

// Config holds the dependencies for the rewards orchestrator
type Config struct {
	Content     Content
	Proficiency proficiency.Service
	Rates       loot.RateProvider
	Resolver    loot.Resolver
	// Randomizer scatters loot drops; it is shared with Resolver draws under one lock
	Randomizer  loot.Randomizer
	Inventory   inventory.Repository
	World       world.Spawner
	Attributes  attributes.Repository
	Abilities   abilities.Repository
	RewardLog   rewardlog.Repository
	IDGenerator idgen.Generator
	Clock       clock.Clock
	// Tracer defaults to the global otel tracer provider
	Tracer trace.Tracer
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()

	if c.Content == nil {
		vb.RequiredField("Content")
	}
	if c.Proficiency == nil {
		vb.RequiredField("Proficiency")
	}
	if c.Rates == nil {
		vb.RequiredField("Rates")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Randomizer == nil {
		vb.RequiredField("Randomizer")
	}
	if c.Inventory == nil {
		vb.RequiredField("Inventory")
	}
	if c.World == nil {
		vb.RequiredField("World")
	}
	if c.Attributes == nil {
		vb.RequiredField("Attributes")
	}
	if c.Abilities == nil {
		vb.RequiredField("Abilities")
	}
	if c.RewardLog == nil {
		vb.RequiredField("RewardLog")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	content     Content
	proficiency proficiency.Service
	rates       loot.RateProvider
	resolver    loot.Resolver
	random      loot.Randomizer
	inventory   inventory.Repository
	world       world.Spawner
	attributes  attributes.Repository
	abilities   abilities.Repository
	rewardLog   rewardlog.Repository
	idGen       idgen.Generator
	clock       clock.Clock
	tracer      trace.Tracer

	// randomMu serializes draws; randomizers are not safe for concurrent use
	randomMu sync.Mutex
}

// NewOrchestrator creates a new rewards orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}

	return &orchestrator{
		content:     cfg.Content,
		proficiency: cfg.Proficiency,
		rates:       cfg.Rates,
		resolver:    cfg.Resolver,
		random:      cfg.Randomizer,
		inventory:   cfg.Inventory,
		world:       cfg.World,
		attributes:  cfg.Attributes,
		abilities:   cfg.Abilities,
		rewardLog:   cfg.RewardLog,
		idGen:       cfg.IDGenerator,
		clock:       cfg.Clock,
		tracer:      tracer,
	}, nil
}

// dispatch carries one Give call through nested rewards
type dispatch struct {
	rc       entities.RewardContext
	outcomes []entities.Outcome
}

func (d *dispatch) record(o entities.Outcome) bool {
	d.outcomes = append(d.outcomes, o)
	return o.Success
}

func (d *dispatch) fail(kind entities.RewardKind, err error) bool {
	return d.record(entities.Outcome{Kind: kind, Error: err.Error()})
}

func (o *orchestrator) Give(ctx context.Context, input *GiveInput) (*GiveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Recipient == nil || input.Recipient.ID == "" {
		return nil, errors.InvalidArgument("recipient is required")
	}

	ctx, span := o.tracer.Start(ctx, "rewards.Give", trace.WithAttributes(
		attribute.String("player.id", input.Recipient.ID),
		attribute.Int("rewards.count", len(input.Rewards)),
	))
	defer span.End()

	d := &dispatch{rc: input.RewardContext}
	success := o.giveAll(ctx, d, input.Rewards, 0)

	out := &GiveOutput{Success: success, Outcomes: d.outcomes}
	span.SetAttributes(
		attribute.Bool("rewards.success", success),
		attribute.Int("rewards.outcomes", len(d.outcomes)),
	)
	if !success {
		span.SetStatus(codes.Error, "one or more rewards failed")
		slog.Warn("Reward dispatch incomplete",
			"player_id", input.Recipient.ID,
			"rewards", len(input.Rewards),
			"outcomes", len(d.outcomes))
	}

	entry := &entities.RewardLogEntry{
		ID:        o.idGen.Generate(),
		PlayerID:  input.Recipient.ID,
		Success:   success,
		Outcomes:  d.outcomes,
		CreatedAt: o.clock.Now(),
	}
	if _, err := o.rewardLog.Append(ctx, rewardlog.AppendInput{Entry: entry}); err != nil {
		span.RecordError(err)
		slog.Warn("Failed to record reward log entry",
			"player_id", input.Recipient.ID,
			"error", err)
	} else {
		out.LogEntryID = entry.ID
	}

	return out, nil
}

func (o *orchestrator) giveAll(ctx context.Context, d *dispatch, rewards entities.RewardsToGive, depth int) bool {
	if depth > maxRewardDepth {
		slog.Error("Reward nesting too deep, stopping",
			"player_id", d.rc.Recipient.ID,
			"depth", depth)
		return d.fail(entities.RewardKindXP, errors.FailedPrecondition("milestone rewards nest too deeply"))
	}

	success := true
	for _, reward := range rewards {
		if !o.give(ctx, d, reward, depth) {
			success = false
		}
	}
	return success
}

func (o *orchestrator) give(ctx context.Context, d *dispatch, reward entities.Reward, depth int) bool {
	switch r := reward.(type) {
	case entities.XPReward:
		return o.giveXP(ctx, d, r, depth)
	case entities.ItemReward:
		return o.giveItem(ctx, d, r)
	case entities.LootReward:
		return o.giveLoot(ctx, d, r)
	case entities.AbilityReward:
		return o.giveAbility(ctx, d, r)
	case entities.AttributeReward:
		return o.giveAttribute(ctx, d, r)
	case nil:
		slog.Warn("Skipping nil reward", "player_id", d.rc.Recipient.ID)
		return true
	default:
		return d.fail(reward.Kind(), errors.Internalf("unsupported reward %T", reward))
	}
}

func (o *orchestrator) giveXP(ctx context.Context, d *dispatch, r entities.XPReward, depth int) bool {
	def, err := o.content.Proficiency(r.ProficiencyID)
	if err != nil {
		slog.Warn("XP reward references unknown proficiency",
			"proficiency_id", r.ProficiencyID,
			"error", err)
		return d.fail(entities.RewardKindXP, err)
	}

	added, err := o.proficiency.AddXP(ctx, &proficiency.AddXPInput{
		Player:        d.rc.Recipient,
		ProficiencyID: def.ID,
		Scaling: &proficiency.XPScaling{
			Percentage:     r.Percentage,
			OverlevelBonus: r.OverlevelBonus,
			TargetLevel:    d.rc.TargetLevel,
		},
	})
	if err != nil {
		slog.Warn("Failed to add proficiency XP",
			"player_id", d.rc.Recipient.ID,
			"proficiency_id", def.ID,
			"error", err)
		return d.fail(entities.RewardKindXP, err)
	}

	success := d.record(entities.Outcome{
		Kind:          entities.RewardKindXP,
		Success:       true,
		Destination:   entities.DestinationProficiency,
		ProficiencyID: def.ID,
		XP:            added.Applied,
		LevelsGained:  added.NewLevel - added.OldLevel,
	})

	for _, slot := range added.GainedSlots {
		if !o.giveAll(ctx, d, slot.Rewards, depth+1) {
			success = false
		}
	}
	return success
}

func (o *orchestrator) giveItem(ctx context.Context, d *dispatch, r entities.ItemReward) bool {
	if r.Item == nil {
		return d.fail(entities.RewardKindItem, errors.InvalidArgument("item reward has no item"))
	}

	quantity := r.Quantity
	if !r.Item.IsStackable() || quantity < 1 {
		quantity = 1
	}

	return o.place(ctx, d, entities.RewardKindItem, r.Item, quantity, o.spawnPoint(d.rc))
}

func (o *orchestrator) giveLoot(ctx context.Context, d *dispatch, r entities.LootReward) bool {
	rates := o.rates.RatesAt(d.rc.Recipient.Level)
	success := true

	tables := r.Tables
	if !r.SkipGlobal {
		global, err := o.content.GlobalLootTable()
		if err != nil {
			slog.Error("Global loot table is missing", "error", err)
			d.fail(entities.RewardKindLoot, err)
			success = false
		} else {
			tables = append(append([]*entities.LootTable(nil), tables...), global)
		}
	}

	for _, table := range tables {
		if !o.rollTable(ctx, d, table, rates) {
			success = false
		}
	}
	return success
}

func (o *orchestrator) rollTable(ctx context.Context, d *dispatch, table *entities.LootTable, rates entities.RarityRates) bool {
	if table == nil {
		return d.fail(entities.RewardKindLoot, errors.InvalidArgument("loot reward references a nil table"))
	}

	ctx, span := o.tracer.Start(ctx, "rewards.loot_table", trace.WithAttributes(
		attribute.String("loot.table_id", table.ID),
	))
	defer span.End()

	origin := o.spawnPoint(d.rc)

	o.randomMu.Lock()
	result := o.resolver.Resolve(table, rates)
	if result == nil {
		result = &loot.Result{TableID: table.ID}
	}
	offsets := make([]entities.Vector, len(result.Drops))
	for i := range offsets {
		offsets[i] = entities.Vector{
			X: o.random.FloatRange(-LootScatter, LootScatter),
			Y: o.random.FloatRange(-LootScatter, LootScatter),
		}
	}
	o.randomMu.Unlock()

	span.SetAttributes(
		attribute.Bool("loot.procced", result.Procced),
		attribute.Int("loot.drops", len(result.Drops)),
	)
	slog.Info("Loot generation complete",
		"table_id", table.ID,
		"player_id", d.rc.Recipient.ID,
		"procced", result.Procced,
		"eligible", result.Eligible,
		"drops", len(result.Drops))

	success := true
	for i, drop := range result.Drops {
		if !o.place(ctx, d, entities.RewardKindLoot, drop.Item, drop.Quantity, origin.Add(offsets[i])) {
			success = false
		}
	}
	return success
}

// place sends items to the inventory when asked, spilling whatever does
// not fit into the world at location
func (o *orchestrator) place(ctx context.Context, d *dispatch, kind entities.RewardKind, item *entities.ItemDefinition, quantity int, location entities.Vector) bool {
	remaining := quantity

	if d.rc.UseInventory {
		added, err := o.inventory.AddItem(ctx, inventory.AddItemInput{
			PlayerID: d.rc.Recipient.ID,
			Item:     item,
			Quantity: quantity,
		})
		if err != nil {
			slog.Warn("Inventory placement failed, dropping in world",
				"player_id", d.rc.Recipient.ID,
				"item_id", item.ID,
				"error", err)
		} else {
			remaining = added.Remaining
			if added.Placed > 0 {
				d.record(entities.Outcome{
					Kind:        kind,
					Success:     true,
					Destination: entities.DestinationInventory,
					ItemID:      item.ID,
					Quantity:    added.Placed,
					ItemLevel:   d.rc.ItemLevel,
				})
			}
		}
	}

	if remaining == 0 {
		return true
	}

	spawnInput := &world.SpawnInput{
		Item:      item,
		Quantity:  remaining,
		ItemLevel: d.rc.ItemLevel,
		Location:  location,
	}
	if d.rc.IsPrivate {
		spawnInput.RecipientID = d.rc.Recipient.ID
	}

	spawned, err := o.world.Spawn(ctx, spawnInput)
	if err != nil {
		slog.Error("Failed to spawn reward in world",
			"player_id", d.rc.Recipient.ID,
			"item_id", item.ID,
			"quantity", remaining,
			"error", err)
		return d.record(entities.Outcome{
			Kind:     kind,
			ItemID:   item.ID,
			Quantity: remaining,
			Error:    err.Error(),
		})
	}

	return d.record(entities.Outcome{
		Kind:        kind,
		Success:     true,
		Destination: entities.DestinationWorld,
		ItemID:      item.ID,
		Quantity:    remaining,
		ItemLevel:   d.rc.ItemLevel,
		DropID:      spawned.Drop.ID,
	})
}

func (o *orchestrator) spawnPoint(rc entities.RewardContext) entities.Vector {
	if rc.SpawnLocation != nil {
		return *rc.SpawnLocation
	}
	return rc.Recipient.Location
}

func (o *orchestrator) giveAbility(ctx context.Context, d *dispatch, r entities.AbilityReward) bool {
	granted, err := o.abilities.Grant(ctx, abilities.GrantInput{
		PlayerID:  d.rc.Recipient.ID,
		AbilityID: r.AbilityID,
		Activate:  r.Activate,
	})
	if err != nil {
		slog.Warn("Failed to grant ability",
			"player_id", d.rc.Recipient.ID,
			"ability_id", r.AbilityID,
			"error", err)
		return d.fail(entities.RewardKindAbility, err)
	}

	slog.Debug("Ability granted",
		"player_id", d.rc.Recipient.ID,
		"ability_id", r.AbilityID,
		"newly_granted", granted.NewlyGranted,
		"active", granted.Active)

	return d.record(entities.Outcome{
		Kind:        entities.RewardKindAbility,
		Success:     true,
		Destination: entities.DestinationAbility,
		AbilityID:   r.AbilityID,
	})
}

func (o *orchestrator) giveAttribute(ctx context.Context, d *dispatch, r entities.AttributeReward) bool {
	applied, err := o.attributes.Apply(ctx, attributes.ApplyInput{
		PlayerID:  d.rc.Recipient.ID,
		Attribute: r.Attribute,
		Modifier:  r.Modifier,
		Magnitude: r.Magnitude,
	})
	if err != nil {
		slog.Warn("Failed to apply attribute reward",
			"player_id", d.rc.Recipient.ID,
			"attribute", r.Attribute,
			"error", err)
		return d.fail(entities.RewardKindAttribute, err)
	}

	return d.record(entities.Outcome{
		Kind:        entities.RewardKindAttribute,
		Success:     true,
		Destination: entities.DestinationAttribute,
		Attribute:   r.Attribute,
		Delta:       applied.Delta,
	})
}
