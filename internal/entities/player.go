package entities

import "github.com/KirkDiggler/rpg-toolkit/core"

// PlayerEntityType is the core.Entity type reported by players
const PlayerEntityType = "player"

var _ core.Entity = (*Player)(nil)

// Player identifies a reward recipient
type Player struct {
	ID       string `json:"id"`
	Level    int    `json:"level"`
	Location Vector `json:"location"`
}

// GetID returns the player id
func (p *Player) GetID() string {
	return p.ID
}

// GetType returns the entity type for rpg-toolkit
func (p *Player) GetType() string {
	return PlayerEntityType
}
