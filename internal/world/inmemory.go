package world

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	"github.com/KirkDiggler/rpg-rewards/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-rewards/internal/pkg/idgen"
)

// Config holds the dependencies of the in-memory spawner
type Config struct {
	IDGenerator idgen.Generator
	Clock       clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

// InMemorySpawner implements Spawner using in-memory storage
type InMemorySpawner struct {
	mu    sync.RWMutex
	drops map[string]*Drop
	ids   idgen.Generator
	clock clock.Clock
}

// NewInMemory creates a new in-memory spawner
func NewInMemory(cfg *Config) (*InMemorySpawner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &InMemorySpawner{
		drops: make(map[string]*Drop),
		ids:   cfg.IDGenerator,
		clock: cfg.Clock,
	}, nil
}

var _ Spawner = (*InMemorySpawner)(nil)

// Spawn places a pickup
func (s *InMemorySpawner) Spawn(_ context.Context, input *SpawnInput) (*SpawnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Item == nil || input.Item.ID == "" {
		return nil, errors.InvalidArgument("item is required")
	}
	if input.Quantity < 1 {
		return nil, errors.InvalidArgumentf("quantity must be at least 1, got %d", input.Quantity)
	}
	if input.Radius < 0 {
		return nil, errors.InvalidArgument("radius must not be negative")
	}

	radius := input.Radius
	if radius == 0 {
		radius = DefaultPickupRadius
	}

	drop := &Drop{
		ID:          s.ids.Generate(),
		ItemID:      input.Item.ID,
		Quantity:    input.Quantity,
		ItemLevel:   input.ItemLevel,
		Location:    input.Location,
		Radius:      radius,
		RecipientID: input.RecipientID,
		SpawnedAt:   s.clock.Now(),
	}

	s.mu.Lock()
	s.drops[drop.ID] = drop
	s.mu.Unlock()

	slog.Debug("World drop spawned",
		"drop_id", drop.ID,
		"item_id", drop.ItemID,
		"quantity", drop.Quantity,
		"private", drop.IsPrivate())

	copied := *drop
	return &SpawnOutput{Drop: &copied}, nil
}

// Claim removes a pickup if the player may take it
func (s *InMemorySpawner) Claim(_ context.Context, input *ClaimInput) (*ClaimOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.DropID == "" {
		return nil, errors.InvalidArgument("drop ID is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	drop, exists := s.drops[input.DropID]
	if !exists {
		return nil, errors.NotFoundf("drop %s not found", input.DropID)
	}
	if drop.IsPrivate() && drop.RecipientID != input.PlayerID {
		return nil, errors.PermissionDeniedf("drop %s belongs to another player", input.DropID).
			WithMeta("drop_id", input.DropID)
	}

	delete(s.drops, input.DropID)

	return &ClaimOutput{Drop: drop}, nil
}

// List returns copies of the visible pickups
func (s *InMemorySpawner) List(_ context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	drops := make([]*Drop, 0, len(s.drops))
	for _, drop := range s.drops {
		if input.PlayerID != "" && drop.IsPrivate() && drop.RecipientID != input.PlayerID {
			continue
		}
		copied := *drop
		drops = append(drops, &copied)
	}
	sort.Slice(drops, func(i, j int) bool {
		if !drops[i].SpawnedAt.Equal(drops[j].SpawnedAt) {
			return drops[i].SpawnedAt.Before(drops[j].SpawnedAt)
		}
		return drops[i].ID < drops[j].ID
	})

	return &ListOutput{Drops: drops}, nil
}
