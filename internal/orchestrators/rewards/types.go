package rewards

import "github.com/KirkDiggler/rpg-rewards/internal/entities"

// GiveInput contains a composite reward and the context it is given in
type GiveInput struct {
	entities.RewardContext
	Rewards entities.RewardsToGive
}

// GiveOutput reports what every reward produced
type GiveOutput struct {
	// Success is the AND of every reward's result
	Success  bool
	Outcomes []entities.Outcome
	// LogEntryID is the ledger entry written for this call, if any
	LogEntryID string
}
