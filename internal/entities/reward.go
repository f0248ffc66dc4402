package entities

import "time"

// RewardKind tags the payload of a Reward
type RewardKind int

// Reward kinds
const (
	RewardKindXP RewardKind = iota
	RewardKindItem
	RewardKindLoot
	RewardKindAbility
	RewardKindAttribute
)

var rewardKindNames = [...]string{"xp", "item", "loot", "ability", "attribute"}

// String returns the lowercase kind name
func (k RewardKind) String() string {
	if k < RewardKindXP || int(k) >= len(rewardKindNames) {
		return "unknown"
	}
	return rewardKindNames[k]
}

// MarshalText encodes the kind by name
func (k RewardKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name
func (k *RewardKind) UnmarshalText(text []byte) error {
	for i, n := range rewardKindNames {
		if n == string(text) {
			*k = RewardKind(i)
			return nil
		}
	}
	return &UnknownValueError{Kind: "reward kind", Value: string(text)}
}

// Reward is one typed entry of a RewardsToGive list.
// The set of implementations is closed to this package.
type Reward interface {
	Kind() RewardKind
	// ReapplyOnLoad reports whether the reward is idempotent enough to be
	// granted again when a saved proficiency is restored
	ReapplyOnLoad() bool
	isReward()
}

// XPReward grants proficiency XP scaled from the definition's base XP per action
type XPReward struct {
	ProficiencyID  string
	Percentage     float64
	OverlevelBonus float64
}

// ItemReward gives a fixed quantity of an item
type ItemReward struct {
	Item     *ItemDefinition
	Quantity int
}

// LootReward rolls one or more loot tables
type LootReward struct {
	Tables     []*LootTable
	SkipGlobal bool
}

// AbilityReward grants an ability and optionally activates it
type AbilityReward struct {
	AbilityID string
	Activate  bool
}

// AttributeReward modifies a base attribute value
type AttributeReward struct {
	Attribute string
	Modifier  ModifierOp
	Magnitude float64
}

func (XPReward) Kind() RewardKind        { return RewardKindXP }
func (ItemReward) Kind() RewardKind      { return RewardKindItem }
func (LootReward) Kind() RewardKind      { return RewardKindLoot }
func (AbilityReward) Kind() RewardKind   { return RewardKindAbility }
func (AttributeReward) Kind() RewardKind { return RewardKindAttribute }

func (XPReward) ReapplyOnLoad() bool        { return false }
func (ItemReward) ReapplyOnLoad() bool      { return false }
func (LootReward) ReapplyOnLoad() bool      { return false }
func (AbilityReward) ReapplyOnLoad() bool   { return true }
func (AttributeReward) ReapplyOnLoad() bool { return true }

func (XPReward) isReward()        {}
func (ItemReward) isReward()      {}
func (LootReward) isReward()      {}
func (AbilityReward) isReward()   {}
func (AttributeReward) isReward() {}

// RewardsToGive is a composite reward. Giving it evaluates every entry.
type RewardsToGive []Reward

// Contains reports whether an equal reward is already present.
// Loot rewards never compare equal.
func (r RewardsToGive) Contains(reward Reward) bool {
	for _, existing := range r {
		if rewardsEqual(existing, reward) {
			return true
		}
	}
	return false
}

// ReapplyOnLoad returns the subset that is safe to grant again on restore
func (r RewardsToGive) ReapplyOnLoad() RewardsToGive {
	var out RewardsToGive
	for _, reward := range r {
		if reward != nil && reward.ReapplyOnLoad() {
			out = append(out, reward)
		}
	}
	return out
}

func rewardsEqual(a, b Reward) bool {
	switch av := a.(type) {
	case AttributeReward:
		bv, ok := b.(AttributeReward)
		return ok && av == bv
	case AbilityReward:
		bv, ok := b.(AbilityReward)
		return ok && av == bv
	case XPReward:
		bv, ok := b.(XPReward)
		return ok && av == bv
	case ItemReward:
		bv, ok := b.(ItemReward)
		return ok && av == bv
	default:
		return false
	}
}

// RewardContext describes one dispatch call
type RewardContext struct {
	Recipient *Player
	// IsPrivate makes world drops claimable only by the recipient
	IsPrivate bool
	// ItemLevel is stamped on created items
	ItemLevel int
	// TargetLevel is the level of whatever granted the reward; 0 disables overlevel scaling
	TargetLevel int
	// UseInventory sends items to the recipient's inventory before the world
	UseInventory bool
	// SpawnLocation overrides the recipient location for world drops
	SpawnLocation *Vector
}

// Destination says where a reward outcome landed
type Destination string

// Destinations
const (
	DestinationInventory   Destination = "inventory"
	DestinationWorld       Destination = "world"
	DestinationAttribute   Destination = "attribute"
	DestinationAbility     Destination = "ability"
	DestinationProficiency Destination = "proficiency"
)

// Outcome is one concrete result of giving a reward
type Outcome struct {
	Kind          RewardKind  `json:"kind"`
	Success       bool        `json:"success"`
	Destination   Destination `json:"destination,omitempty"`
	ItemID        string      `json:"item_id,omitempty"`
	Quantity      int         `json:"quantity,omitempty"`
	ItemLevel     int         `json:"item_level,omitempty"`
	DropID        string      `json:"drop_id,omitempty"`
	Attribute     string      `json:"attribute,omitempty"`
	Delta         float64     `json:"delta,omitempty"`
	AbilityID     string      `json:"ability_id,omitempty"`
	ProficiencyID string      `json:"proficiency_id,omitempty"`
	XP            float64     `json:"xp,omitempty"`
	LevelsGained  int         `json:"levels_gained,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// RewardLogEntry is one ledger record of a Give call
type RewardLogEntry struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Success   bool      `json:"success"`
	Outcomes  []Outcome `json:"outcomes"`
	CreatedAt time.Time `json:"created_at"`
}
