// Package content loads authored items, loot tables, proficiencies, rarity
// curves and reward sets from YAML.
package content

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
)

// Catalog is validated, immutable content. It is safe for concurrent reads.
type Catalog struct {
	items         map[string]*entities.ItemDefinition
	tables        map[string]*entities.LootTable
	proficiencies map[string]*entities.ProficiencyDefinition
	globalTableID string
	curves        *RarityCurves
	tiers         map[string]WorldTier
	rewardSets    map[string]entities.RewardsToGive
}

// Item looks up an item by id
func (c *Catalog) Item(id string) (*entities.ItemDefinition, error) {
	item, ok := c.items[id]
	if !ok {
		return nil, errors.NotFoundf("item %q not found", id).WithMeta("item_id", id)
	}
	return item, nil
}

// LootTable looks up a loot table by id
func (c *Catalog) LootTable(id string) (*entities.LootTable, error) {
	table, ok := c.tables[id]
	if !ok {
		return nil, errors.NotFoundf("loot table %q not found", id).WithMeta("table_id", id)
	}
	return table, nil
}

// GlobalLootTable returns the table rolled alongside every loot reward
func (c *Catalog) GlobalLootTable() (*entities.LootTable, error) {
	if c.globalTableID == "" {
		return nil, errors.NotFound("no global loot table configured")
	}
	return c.LootTable(c.globalTableID)
}

// Proficiency looks up a proficiency definition by id
func (c *Catalog) Proficiency(id string) (*entities.ProficiencyDefinition, error) {
	def, ok := c.proficiencies[id]
	if !ok {
		return nil, errors.NotFoundf("proficiency %q not found", id).WithMeta("proficiency_id", id)
	}
	return def, nil
}

// ProficiencyIDs returns every proficiency id, sorted
func (c *Catalog) ProficiencyIDs() []string {
	return sortedKeys(c.proficiencies)
}

// LootTableIDs returns every loot table id, sorted
func (c *Catalog) LootTableIDs() []string {
	return sortedKeys(c.tables)
}

// RewardSet looks up a named reward set
func (c *Catalog) RewardSet(name string) (entities.RewardsToGive, error) {
	set, ok := c.rewardSets[name]
	if !ok {
		return nil, errors.NotFoundf("reward set %q not found", name).WithMeta("reward_set", name)
	}
	return set, nil
}

// WorldTier looks up a world tier. The empty id is the unscaled default tier.
func (c *Catalog) WorldTier(id string) (WorldTier, error) {
	if id == "" {
		return DefaultWorldTier, nil
	}
	tier, ok := c.tiers[id]
	if !ok {
		return WorldTier{}, errors.NotFoundf("world tier %q not found", id).WithMeta("world_tier", id)
	}
	return tier, nil
}

// RateTable returns the drop rate provider for a world tier
func (c *Catalog) RateTable(tierID string) (*RateTable, error) {
	tier, err := c.WorldTier(tierID)
	if err != nil {
		return nil, err
	}
	return NewRateTable(c.curves, tier), nil
}

// ResolveRewards converts authored reward specs into rewards, resolving item,
// table and proficiency references against the catalog
func (c *Catalog) ResolveRewards(specs []RewardSpec) (entities.RewardsToGive, error) {
	vb := errors.NewValidationBuilder()
	rewards := c.resolveRewards("rewards", specs, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}
	return rewards, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// build validates a merged file and links its references
func build(f *File) (*Catalog, error) {
	c := &Catalog{
		items:         map[string]*entities.ItemDefinition{},
		tables:        map[string]*entities.LootTable{},
		proficiencies: map[string]*entities.ProficiencyDefinition{},
		tiers:         map[string]WorldTier{},
		rewardSets:    map[string]entities.RewardsToGive{},
	}
	vb := errors.NewValidationBuilder()

	c.buildItems(f.Items, vb)
	c.buildTables(f.LootTables, vb)

	if f.GlobalLootTable != "" {
		if _, ok := c.tables[f.GlobalLootTable]; !ok {
			vb.Fieldf("global_loot_table", "unknown loot table %q", f.GlobalLootTable)
		}
		c.globalTableID = f.GlobalLootTable
	}

	c.buildCurves(f.RarityCurves, vb)
	c.buildTiers(f.WorldTiers, vb)

	// Proficiency ids first so XP rewards can reference any proficiency.
	for _, spec := range f.Proficiencies {
		if spec.ID != "" {
			c.proficiencies[spec.ID] = nil
		}
	}
	c.buildProficiencies(f.Proficiencies, vb)

	for _, name := range sortedKeys(f.RewardSets) {
		c.rewardSets[name] = c.resolveRewards(fmt.Sprintf("reward_sets[%s]", name), f.RewardSets[name], vb)
	}

	if err := vb.Build(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) buildItems(specs []ItemSpec, vb *errors.ValidationBuilder) {
	for i, spec := range specs {
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(spec.ID) == "" {
			vb.RequiredField(field + ".id")
			continue
		}
		if _, dup := c.items[spec.ID]; dup {
			vb.Fieldf(field+".id", "duplicate item %q", spec.ID)
			continue
		}

		rarity := entities.RarityCommon
		if spec.Rarity != "" {
			var ok bool
			if rarity, ok = entities.ParseRarity(spec.Rarity); !ok {
				errors.ValidateEnum(field+".rarity", spec.Rarity, entities.RarityNames(), vb)
			}
		}

		stackMax := spec.StackSizeMax
		if stackMax == 0 {
			stackMax = 1
		}
		if stackMax < 1 {
			vb.Fieldf(field+".stack_size_max", "must be at least 1, got %d", spec.StackSizeMax)
		}

		name := spec.Name
		if name == "" {
			name = spec.ID
		}
		c.items[spec.ID] = &entities.ItemDefinition{
			ID:           spec.ID,
			Name:         name,
			Rarity:       rarity,
			StackSizeMax: stackMax,
		}
	}
}

func (c *Catalog) buildTables(specs []LootTableSpec, vb *errors.ValidationBuilder) {
	for i, spec := range specs {
		field := fmt.Sprintf("loot_tables[%d]", i)
		if strings.TrimSpace(spec.ID) == "" {
			vb.RequiredField(field + ".id")
			continue
		}
		if _, dup := c.tables[spec.ID]; dup {
			vb.Fieldf(field+".id", "duplicate loot table %q", spec.ID)
			continue
		}
		field = fmt.Sprintf("loot_tables[%s]", spec.ID)

		errors.ValidateFraction(field+".drop_chance", spec.DropChance, vb)
		if spec.MaxItems < 1 {
			vb.Fieldf(field+".max_items", "must be at least 1, got %d", spec.MaxItems)
		}

		table := &entities.LootTable{
			ID:         spec.ID,
			DropChance: spec.DropChance,
			MaxItems:   spec.MaxItems,
			Entries:    make([]entities.LootTableEntry, 0, len(spec.Entries)),
		}
		for j, entry := range spec.Entries {
			entryField := fmt.Sprintf("%s.entries[%d]", field, j)

			item, ok := c.items[entry.Item]
			if !ok {
				vb.Fieldf(entryField+".item", "unknown item %q", entry.Item)
			}

			stack := entities.StackRange{Min: entry.StackMin, Max: entry.StackMax}
			if stack.Min == 0 && stack.Max == 0 {
				stack = entities.StackRange{Min: 1, Max: 1}
			}
			if stack.Min < 1 {
				vb.Fieldf(entryField+".stack_min", "must be at least 1, got %d", stack.Min)
			}
			if stack.Max < stack.Min {
				vb.Fieldf(entryField+".stack_max", "must be at least stack_min (%d), got %d", stack.Min, stack.Max)
			}
			errors.ValidateFraction(entryField+".override_drop_chance", entry.OverrideDropChance, vb)

			table.Entries = append(table.Entries, entities.LootTableEntry{
				Item:               item,
				StackRange:         stack,
				OverrideDropChance: entry.OverrideDropChance,
			})
		}
		c.tables[spec.ID] = table
	}
}

func (c *Catalog) buildCurves(specs map[string][]CurveKey, vb *errors.ValidationBuilder) {
	curves := map[entities.Rarity][]CurveKey{}
	for name, keys := range specs {
		field := fmt.Sprintf("rarity_curves[%s]", name)
		rarity, ok := entities.ParseRarity(name)
		if !ok {
			errors.ValidateEnum(field, name, entities.RarityNames(), vb)
			continue
		}
		for i, key := range keys {
			if key.Rate < 0 {
				vb.Fieldf(fmt.Sprintf("%s[%d].rate", field, i), "must not be negative, got %g", key.Rate)
			}
		}
		curves[rarity] = keys
	}
	c.curves = NewRarityCurves(curves)
}

func (c *Catalog) buildTiers(specs []WorldTierSpec, vb *errors.ValidationBuilder) {
	for i, spec := range specs {
		field := fmt.Sprintf("world_tiers[%d]", i)
		if strings.TrimSpace(spec.ID) == "" {
			vb.RequiredField(field + ".id")
			continue
		}
		if spec.LegendaryMultiplier < 0 {
			vb.Fieldf(field+".legendary_multiplier", "must not be negative, got %g", spec.LegendaryMultiplier)
		}
		if spec.ExoticMultiplier < 0 {
			vb.Fieldf(field+".exotic_multiplier", "must not be negative, got %g", spec.ExoticMultiplier)
		}
		c.tiers[spec.ID] = WorldTier{
			ID:                  spec.ID,
			LegendaryMultiplier: spec.LegendaryMultiplier,
			ExoticMultiplier:    spec.ExoticMultiplier,
		}
	}
}

func (c *Catalog) buildProficiencies(specs []ProficiencySpec, vb *errors.ValidationBuilder) {
	seen := map[string]bool{}
	for i, spec := range specs {
		field := fmt.Sprintf("proficiencies[%d]", i)
		if strings.TrimSpace(spec.ID) == "" {
			vb.RequiredField(field + ".id")
			continue
		}
		if seen[spec.ID] {
			vb.Fieldf(field+".id", "duplicate proficiency %q", spec.ID)
			continue
		}
		seen[spec.ID] = true
		field = fmt.Sprintf("proficiencies[%s]", spec.ID)

		if spec.MaxLevel < 1 {
			vb.Fieldf(field+".max_level", "must be at least 1, got %d", spec.MaxLevel)
		}
		errors.ValidatePositive(field+".growth_rate", spec.GrowthRate, vb)
		if spec.BaseXPPerAction < 0 {
			vb.Fieldf(field+".base_xp_per_action", "must not be negative, got %g", spec.BaseXPPerAction)
		}

		name := spec.Name
		if name == "" {
			name = spec.ID
		}
		def := &entities.ProficiencyDefinition{
			ID:              spec.ID,
			Name:            name,
			Description:     spec.Description,
			MaxLevel:        spec.MaxLevel,
			GrowthRate:      spec.GrowthRate,
			BaseXPPerAction: spec.BaseXPPerAction,
		}

		for j, m := range spec.Milestones {
			def.KeyMilestones = append(def.KeyMilestones, entities.KeyMilestone{
				Name:    m.Name,
				Icon:    m.Icon,
				Rewards: c.resolveRewards(fmt.Sprintf("%s.milestones[%d].rewards", field, j), m.Rewards, vb),
			})
		}
		for j, g := range spec.AttributeGoals {
			goalField := fmt.Sprintf("%s.attribute_goals[%d]", field, j)
			errors.ValidateRequired(goalField+".attribute", g.Attribute, vb)
			op, ok := entities.ParseModifierOp(g.Modifier)
			if !ok {
				vb.Fieldf(goalField+".modifier", "unknown modifier %q", g.Modifier)
			}
			def.AttributeGoals = append(def.AttributeGoals, entities.AttributeGoal{
				Attribute: g.Attribute,
				Target:    g.Goal,
				Modifier:  op,
			})
		}

		c.proficiencies[spec.ID] = def
	}
}

func (c *Catalog) resolveRewards(field string, specs []RewardSpec, vb *errors.ValidationBuilder) entities.RewardsToGive {
	rewards := make(entities.RewardsToGive, 0, len(specs))
	for i, spec := range specs {
		if reward := c.resolveReward(fmt.Sprintf("%s[%d]", field, i), spec, vb); reward != nil {
			rewards = append(rewards, reward)
		}
	}
	return rewards
}

func (c *Catalog) resolveReward(field string, spec RewardSpec, vb *errors.ValidationBuilder) entities.Reward {
	switch strings.ToLower(spec.Kind) {
	case "xp":
		if _, ok := c.proficiencies[spec.Proficiency]; !ok {
			vb.Fieldf(field+".proficiency", "unknown proficiency %q", spec.Proficiency)
			return nil
		}
		percentage := spec.Percentage
		if percentage == 0 {
			percentage = 1
		}
		return entities.XPReward{
			ProficiencyID:  spec.Proficiency,
			Percentage:     percentage,
			OverlevelBonus: spec.OverlevelBonus,
		}

	case "item":
		item, ok := c.items[spec.Item]
		if !ok {
			vb.Fieldf(field+".item", "unknown item %q", spec.Item)
			return nil
		}
		quantity := spec.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 {
			vb.Fieldf(field+".quantity", "must be positive, got %d", spec.Quantity)
			return nil
		}
		return entities.ItemReward{Item: item, Quantity: quantity}

	case "loot":
		reward := entities.LootReward{SkipGlobal: spec.SkipGlobal}
		for j, id := range spec.Tables {
			table, ok := c.tables[id]
			if !ok {
				vb.Fieldf(fmt.Sprintf("%s.tables[%d]", field, j), "unknown loot table %q", id)
				continue
			}
			reward.Tables = append(reward.Tables, table)
		}
		return reward

	case "ability":
		if strings.TrimSpace(spec.Ability) == "" {
			vb.RequiredField(field + ".ability")
			return nil
		}
		return entities.AbilityReward{AbilityID: spec.Ability, Activate: spec.Activate}

	case "attribute":
		if strings.TrimSpace(spec.Attribute) == "" {
			vb.RequiredField(field + ".attribute")
			return nil
		}
		op, ok := entities.ParseModifierOp(spec.Modifier)
		if !ok {
			vb.Fieldf(field+".modifier", "unknown modifier %q", spec.Modifier)
			return nil
		}
		return entities.AttributeReward{Attribute: spec.Attribute, Modifier: op, Magnitude: spec.Magnitude}

	default:
		errors.ValidateEnum(field+".kind", spec.Kind, []string{"xp", "item", "loot", "ability", "attribute"}, vb)
		return nil
	}
}
