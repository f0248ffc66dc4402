// Package rewardlog provides a short-lived ledger of recent reward grants per player
package rewardlog

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=rewardlogmock github.com/KirkDiggler/rpg-rewards/internal/repositories/rewardlog Repository

// AppendInput contains parameters for recording a grant
type AppendInput struct {
	Entry *entities.RewardLogEntry
}

// AppendOutput contains the result of recording a grant
type AppendOutput struct {
	// ExpiresAt is when the player's ledger lapses unless written again
	ExpiresAt time.Time
}

// ListInput contains parameters for reading the ledger
type ListInput struct {
	PlayerID string
	// Limit caps the number of entries returned; 0 returns everything kept
	Limit int
}

// ListOutput contains ledger entries, newest first
type ListOutput struct {
	Entries []*entities.RewardLogEntry
}

// Repository defines the interface for reward ledger storage
type Repository interface {
	// Append records an entry and trims the ledger to its configured length
	Append(ctx context.Context, input AppendInput) (*AppendOutput, error)

	// List returns the most recent entries for a player
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}
