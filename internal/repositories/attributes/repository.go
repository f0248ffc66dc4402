// Package attributes stores base attribute values that proficiency rewards modify
package attributes

import (
	"context"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=attributesmock github.com/KirkDiggler/rpg-rewards/internal/repositories/attributes Repository

// Repository stores base attribute values per player
type Repository interface {
	// Apply combines the stored base value with the magnitude using the
	// modifier and stores the result, clamped to the attribute's cap
	Apply(ctx context.Context, input ApplyInput) (*ApplyOutput, error)

	// Get returns every stored base value for the player
	Get(ctx context.Context, input GetInput) (*GetOutput, error)
}

// ApplyInput contains parameters for modifying an attribute
type ApplyInput struct {
	PlayerID  string
	Attribute string
	Modifier  entities.ModifierOp
	Magnitude float64
}

// ApplyOutput reports the value before and after the change
type ApplyOutput struct {
	Previous float64
	Current  float64
	// Delta is Current minus Previous after clamping
	Delta   float64
	Clamped bool
}

// GetInput contains parameters for reading attributes
type GetInput struct {
	PlayerID string
}

// GetOutput contains the stored base values keyed by attribute
type GetOutput struct {
	Values map[string]float64
}
