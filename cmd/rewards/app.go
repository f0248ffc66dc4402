package main

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-rewards/internal/config"
	"github.com/KirkDiggler/rpg-rewards/internal/content"
	"github.com/KirkDiggler/rpg-rewards/internal/engine/loot"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	"github.com/KirkDiggler/rpg-rewards/internal/orchestrators/proficiency"
	"github.com/KirkDiggler/rpg-rewards/internal/orchestrators/rewards"
	"github.com/KirkDiggler/rpg-rewards/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-rewards/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-rewards/internal/redis"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/abilities"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/attributes"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/inventory"
	proficiencyrepo "github.com/KirkDiggler/rpg-rewards/internal/repositories/proficiency"
	"github.com/KirkDiggler/rpg-rewards/internal/repositories/rewardlog"
	"github.com/KirkDiggler/rpg-rewards/internal/world"
)

// app is the object graph shared by the player commands
type app struct {
	catalog     *content.Catalog
	proficiency proficiency.Service
	rewards     rewards.Service
	world       *world.InMemorySpawner
	inventory   inventory.Repository
	attributes  attributes.Repository
	abilities   abilities.Repository
	rewardLog   rewardlog.Repository

	closers []func() error
}

// appOptions tunes the graph for one command run
type appOptions struct {
	// Seed makes loot rolls reproducible
	Seed *uint64
}

func newApp(ctx context.Context, c *config.Config, opts appOptions) (*app, error) {
	catalog, err := content.Load(c.ContentDir)
	if err != nil {
		return nil, err
	}
	rates, err := catalog.RateTable(c.WorldTier)
	if err != nil {
		return nil, err
	}

	a := &app{catalog: catalog}
	clk := clock.New()

	client, err := redis.NewClient(c.RedisAddr, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create redis client")
	}
	a.closers = append(a.closers, client.Close)

	profRepo, err := a.openProficiencyStore(ctx, c, client, clk)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.proficiency, err = proficiency.NewOrchestrator(&proficiency.Config{
		Repository:  profRepo,
		Definitions: catalog,
		EventBus:    events.NewBus(),
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	if err := a.buildSinks(c, client, clk); err != nil {
		a.Close()
		return nil, err
	}

	random := loot.NewRandomizer(&loot.RandomizerConfig{Seed: opts.Seed})
	resolver, err := loot.NewResolver(&loot.Config{Randomizer: random})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.rewards, err = rewards.NewOrchestrator(&rewards.Config{
		Content:     catalog,
		Proficiency: a.proficiency,
		Rates:       rates,
		Resolver:    resolver,
		Randomizer:  random,
		Inventory:   a.inventory,
		World:       a.world,
		Attributes:  a.attributes,
		Abilities:   a.abilities,
		RewardLog:   a.rewardLog,
		IDGenerator: idgen.NewUUID("reward"),
		Clock:       clk,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *app) openProficiencyStore(ctx context.Context, c *config.Config, client redis.Client, clk clock.Clock) (proficiencyrepo.Repository, error) {
	switch c.Store {
	case config.StoreSQLite:
		repo, err := proficiencyrepo.NewSQLiteRepository(ctx, &proficiencyrepo.SQLiteConfig{
			DSN:   c.SQLitePath,
			Clock: clk,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, repo.Close)
		return repo, nil
	default:
		return proficiencyrepo.NewRedisRepository(&proficiencyrepo.RedisConfig{
			Client: client,
			Clock:  clk,
		})
	}
}

func (a *app) buildSinks(c *config.Config, client redis.Client, clk clock.Clock) error {
	var err error

	a.inventory, err = inventory.NewRedisRepository(&inventory.Config{
		Client:   client,
		Capacity: c.InventoryCapacity,
	})
	if err != nil {
		return err
	}

	a.attributes, err = attributes.NewRedisRepository(&attributes.Config{
		Client: client,
		Caps:   c.AttributeCaps,
	})
	if err != nil {
		return err
	}

	a.abilities, err = abilities.NewRedisRepository(&abilities.Config{Client: client})
	if err != nil {
		return err
	}

	a.rewardLog, err = rewardlog.NewRedisRepository(&rewardlog.Config{
		Client:     client,
		Clock:      clk,
		TTL:        c.RewardLogTTL,
		MaxEntries: c.RewardLogMax,
	})
	if err != nil {
		return err
	}

	a.world, err = world.NewInMemory(&world.Config{
		IDGenerator: idgen.NewPrefixed("drop"),
		Clock:       clk,
	})
	return err
}

// Close releases stores in reverse order of opening
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("Failed to close store", "error", err)
		}
	}
	a.closers = nil
}
