package content

// File is the YAML layout of a content file. A content directory may split
// these sections across several files; lists are concatenated and maps merged.
type File struct {
	Items           []ItemSpec              `yaml:"items"`
	LootTables      []LootTableSpec         `yaml:"loot_tables"`
	GlobalLootTable string                  `yaml:"global_loot_table"`
	Proficiencies   []ProficiencySpec       `yaml:"proficiencies"`
	RarityCurves    map[string][]CurveKey   `yaml:"rarity_curves"`
	WorldTiers      []WorldTierSpec         `yaml:"world_tiers"`
	RewardSets      map[string][]RewardSpec `yaml:"reward_sets"`
}

// ItemSpec authors an item
type ItemSpec struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Rarity       string `yaml:"rarity"`
	StackSizeMax int    `yaml:"stack_size_max"`
}

// LootTableSpec authors a loot table
type LootTableSpec struct {
	ID         string          `yaml:"id"`
	DropChance float64         `yaml:"drop_chance"`
	MaxItems   int             `yaml:"max_items"`
	Entries    []LootEntrySpec `yaml:"entries"`
}

// LootEntrySpec authors a loot table entry
type LootEntrySpec struct {
	Item               string  `yaml:"item"`
	StackMin           int     `yaml:"stack_min"`
	StackMax           int     `yaml:"stack_max"`
	OverrideDropChance float64 `yaml:"override_drop_chance"`
}

// ProficiencySpec authors a proficiency
type ProficiencySpec struct {
	ID              string              `yaml:"id"`
	Name            string              `yaml:"name"`
	Description     string              `yaml:"description"`
	MaxLevel        int                 `yaml:"max_level"`
	GrowthRate      float64             `yaml:"growth_rate"`
	BaseXPPerAction float64             `yaml:"base_xp_per_action"`
	Milestones      []MilestoneSpec     `yaml:"milestones"`
	AttributeGoals  []AttributeGoalSpec `yaml:"attribute_goals"`
}

// MilestoneSpec authors a key milestone
type MilestoneSpec struct {
	Name    string       `yaml:"name"`
	Icon    string       `yaml:"icon"`
	Rewards []RewardSpec `yaml:"rewards"`
}

// AttributeGoalSpec authors an attribute goal
type AttributeGoalSpec struct {
	Attribute string  `yaml:"attribute"`
	Goal      float64 `yaml:"goal"`
	Modifier  string  `yaml:"modifier"`
}

// CurveKey is one point of a rarity curve
type CurveKey struct {
	Level float64 `yaml:"level"`
	Rate  float64 `yaml:"rate"`
}

// WorldTierSpec authors a world tier
type WorldTierSpec struct {
	ID                  string  `yaml:"id"`
	LegendaryMultiplier float64 `yaml:"legendary_multiplier"`
	ExoticMultiplier    float64 `yaml:"exotic_multiplier"`
}

// RewardSpec authors one reward. Kind selects which fields apply:
//
//	xp:        proficiency, percentage, overlevel_bonus
//	item:      item, quantity
//	loot:      tables, skip_global
//	ability:   ability, activate
//	attribute: attribute, modifier, magnitude
type RewardSpec struct {
	Kind           string   `yaml:"kind"`
	Proficiency    string   `yaml:"proficiency,omitempty"`
	Percentage     float64  `yaml:"percentage,omitempty"`
	OverlevelBonus float64  `yaml:"overlevel_bonus,omitempty"`
	Item           string   `yaml:"item,omitempty"`
	Quantity       int      `yaml:"quantity,omitempty"`
	Tables         []string `yaml:"tables,omitempty"`
	SkipGlobal     bool     `yaml:"skip_global,omitempty"`
	Ability        string   `yaml:"ability,omitempty"`
	Activate       bool     `yaml:"activate,omitempty"`
	Attribute      string   `yaml:"attribute,omitempty"`
	Modifier       string   `yaml:"modifier,omitempty"`
	Magnitude      float64  `yaml:"magnitude,omitempty"`
}

func (f *File) merge(o *File) {
	f.Items = append(f.Items, o.Items...)
	f.LootTables = append(f.LootTables, o.LootTables...)
	f.Proficiencies = append(f.Proficiencies, o.Proficiencies...)
	f.WorldTiers = append(f.WorldTiers, o.WorldTiers...)
	if o.GlobalLootTable != "" {
		f.GlobalLootTable = o.GlobalLootTable
	}
	if len(o.RarityCurves) > 0 && f.RarityCurves == nil {
		f.RarityCurves = map[string][]CurveKey{}
	}
	for k, v := range o.RarityCurves {
		f.RarityCurves[k] = v
	}
	if len(o.RewardSets) > 0 && f.RewardSets == nil {
		f.RewardSets = map[string][]RewardSpec{}
	}
	for k, v := range o.RewardSets {
		f.RewardSets[k] = v
	}
}
