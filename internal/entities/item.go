package entities

// ItemDefinition is an authored item that rewards and loot tables reference
type ItemDefinition struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Rarity       Rarity `json:"rarity"`
	StackSizeMax int    `json:"stack_size_max"`
}

// IsStackable reports whether more than one unit fits in a single slot
func (i *ItemDefinition) IsStackable() bool {
	return i != nil && i.StackSizeMax > 1
}

// ItemStack is a quantity of one item held in an inventory slot
type ItemStack struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}
