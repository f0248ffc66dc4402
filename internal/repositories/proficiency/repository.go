// Package proficiency provides persistence for per-player proficiency XP
package proficiency

import (
	"context"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=proficiencymock github.com/KirkDiggler/rpg-rewards/internal/repositories/proficiency Repository

// Repository stores the XP scalar for each (player, proficiency) pair.
// Levels are never stored; callers derive them from the XP.
type Repository interface {
	// Get returns errors.NotFound when the player was never granted the proficiency
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Set creates or replaces the stored XP
	Set(ctx context.Context, input SetInput) (*SetOutput, error)

	// List returns every proficiency the player holds, sorted by proficiency ID
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// GetInput contains parameters for reading one proficiency
type GetInput struct {
	PlayerID      string
	ProficiencyID string
}

// GetOutput contains the stored state
type GetOutput struct {
	State *entities.ProficiencyState
}

// SetInput contains parameters for storing XP
type SetInput struct {
	PlayerID      string
	ProficiencyID string
	XP            float64
}

// SetOutput contains the state as written
type SetOutput struct {
	State *entities.ProficiencyState
}

// ListInput contains parameters for listing a player's proficiencies
type ListInput struct {
	PlayerID string
}

// ListOutput contains every stored state for the player
type ListOutput struct {
	States []*entities.ProficiencyState
}

const (
	errPlayerIDEmpty      = "player ID cannot be empty"
	errProficiencyIDEmpty = "proficiency ID cannot be empty"
)
