// Package world tracks reward pickups spawned into the game world
package world

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
)

//go:generate mockgen -destination=mock/mock_spawner.go -package=worldmock github.com/KirkDiggler/rpg-rewards/internal/world Spawner

// DefaultPickupRadius is used when SpawnInput.Radius is zero
const DefaultPickupRadius = 150.0

// Drop is an item pickup waiting in the world
type Drop struct {
	ID        string
	ItemID    string
	Quantity  int
	ItemLevel int
	Location  entities.Vector
	Radius    float64
	// RecipientID is set for private drops only
	RecipientID string
	SpawnedAt   time.Time
}

// IsPrivate reports whether only the recipient may claim the drop
func (d *Drop) IsPrivate() bool {
	return d.RecipientID != ""
}

// Spawner places and removes world pickups
type Spawner interface {
	// Spawn places a pickup and returns its handle
	Spawn(ctx context.Context, input *SpawnInput) (*SpawnOutput, error)

	// Claim removes a pickup on behalf of a player. Private drops may
	// only be claimed by their recipient.
	Claim(ctx context.Context, input *ClaimInput) (*ClaimOutput, error)

	// List returns pickups visible to the player, oldest first.
	// An empty PlayerID lists every pickup.
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
}

// SpawnInput contains parameters for spawning a pickup
type SpawnInput struct {
	Item      *entities.ItemDefinition
	Quantity  int
	ItemLevel int
	Location  entities.Vector
	Radius    float64
	// RecipientID makes the drop private when non-empty
	RecipientID string
}

// SpawnOutput contains the spawned pickup
type SpawnOutput struct {
	Drop *Drop
}

// ClaimInput contains parameters for claiming a pickup
type ClaimInput struct {
	DropID   string
	PlayerID string
}

// ClaimOutput contains the claimed pickup
type ClaimOutput struct {
	Drop *Drop
}

// ListInput contains parameters for listing pickups
type ListInput struct {
	PlayerID string
}

// ListOutput contains the visible pickups
type ListOutput struct {
	Drops []*Drop
}
