package entities

// StackRange bounds the quantity rolled for a stackable drop
type StackRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// LootTableEntry is one candidate drop in a loot table
type LootTableEntry struct {
	Item       *ItemDefinition
	StackRange StackRange
	// OverrideDropChance replaces the rarity rate when greater than zero
	OverrideDropChance float64
}

// LootTable is an authored set of candidate drops
type LootTable struct {
	ID       string
	Entries  []LootTableEntry
	MaxItems int
	// DropChance is the probability that the table procs at all
	DropChance float64
}

// Vector is a world position
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}
