// Package inventory provides slot-based item storage for reward recipients
package inventory

import (
	"context"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=inventorymock github.com/KirkDiggler/rpg-rewards/internal/repositories/inventory Repository

// Repository stores each player's inventory as a fixed number of slots.
// A slot holds one ItemStack no larger than the item's StackSizeMax.
type Repository interface {
	// AddItem tops up existing stacks of the item first, then fills empty
	// slots. Whatever does not fit is reported in Remaining and left to the
	// caller; a full inventory is not an error.
	AddItem(ctx context.Context, input AddItemInput) (*AddItemOutput, error)

	// Get returns the occupied slots ordered by slot index
	Get(ctx context.Context, input GetInput) (*GetOutput, error)
}

// AddItemInput contains parameters for placing items
type AddItemInput struct {
	PlayerID string
	Item     *entities.ItemDefinition
	Quantity int
}

// AddItemOutput reports how much of the quantity was placed
type AddItemOutput struct {
	Placed    int
	Remaining int
}

// GetInput contains parameters for reading an inventory
type GetInput struct {
	PlayerID string
}

// Slot is one occupied inventory slot
type Slot struct {
	Index int
	Stack entities.ItemStack
}

// GetOutput contains the inventory contents
type GetOutput struct {
	Capacity int
	Slots    []Slot
}
