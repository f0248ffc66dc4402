// Package abilities records which abilities each player has been granted
package abilities

import "context"

//go:generate mockgen -destination=mock/mock_repository.go -package=abilitiesmock github.com/KirkDiggler/rpg-rewards/internal/repositories/abilities Repository

// Repository stores granted and active ability sets per player
type Repository interface {
	// Grant adds the ability to the player's granted set. Granting an
	// ability twice is not an error.
	Grant(ctx context.Context, input GrantInput) (*GrantOutput, error)

	// List returns the granted and active abilities, sorted
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// GrantInput contains parameters for granting an ability
type GrantInput struct {
	PlayerID  string
	AbilityID string
	Activate  bool
}

// GrantOutput reports what changed
type GrantOutput struct {
	// NewlyGranted is false when the player already had the ability
	NewlyGranted bool
	Active       bool
}

// ListInput contains parameters for listing abilities
type ListInput struct {
	PlayerID string
}

// ListOutput contains the ability sets
type ListOutput struct {
	Granted []string
	Active  []string
}
