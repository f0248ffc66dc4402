package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-rewards/internal/content"
)

// Fixture ids defined by ContentYAML
const (
	MiningID        = "mining"
	CopperVeinID    = "copper_vein"
	FirstLoginSet   = "first_login"
	TestPlayerID    = "player-test-001"
	OtherTestPlayer = "player-test-002"
)

// ContentYAML is a small but complete content catalog: one proficiency with
// milestones and attribute goals, two loot tables, rarity curves, tiers and
// reward sets.
const ContentYAML = `
items:
  - {id: iron_ore, name: Iron Ore, rarity: common, stack_size_max: 50}
  - {id: silver_ore, name: Silver Ore, rarity: rare, stack_size_max: 50}
  - {id: ruby, name: Ruby, rarity: epic, stack_size_max: 10}
  - {id: miners_pick, name: Miner's Pick, rarity: legendary}
  - {id: starmetal_core, name: Starmetal Core, rarity: exotic}

loot_tables:
  - id: copper_vein
    drop_chance: 1.0
    max_items: 2
    entries:
      - {item: iron_ore, stack_min: 2, stack_max: 5}
      - {item: silver_ore, stack_min: 1, stack_max: 3}
      - {item: ruby, override_drop_chance: 0.1}
  - id: world_drops
    drop_chance: 0.25
    max_items: 1
    entries:
      - {item: miners_pick}
      - {item: starmetal_core}

global_loot_table: world_drops

rarity_curves:
  common: [{level: 1, rate: 0.9}, {level: 50, rate: 0.6}]
  rare: [{level: 1, rate: 0.2}, {level: 50, rate: 0.4}]
  epic: [{level: 1, rate: 0.05}, {level: 50, rate: 0.15}]
  legendary: [{level: 1, rate: 0.01}, {level: 50, rate: 0.05}]
  exotic: [{level: 1, rate: 0.001}, {level: 50, rate: 0.01}]

world_tiers:
  - {id: normal, legendary_multiplier: 1, exotic_multiplier: 1}
  - {id: nightmare, legendary_multiplier: 2, exotic_multiplier: 5}

proficiencies:
  - id: mining
    name: Mining
    description: Extract ore from veins
    max_level: 10
    growth_rate: 1.2
    base_xp_per_action: 10
    milestones:
      - name: Prospector
        icon: pick-1
      - name: Deep Delver
        icon: pick-2
        rewards:
          - {kind: ability, ability: ore_sense}
      - name: Master Miner
        icon: pick-3
        rewards:
          - {kind: item, item: miners_pick}
    attribute_goals:
      - {attribute: strength, goal: 10, modifier: additive}
      - {attribute: mining_speed, goal: 5, modifier: additive}

reward_sets:
  copper_vein_mined:
    - {kind: xp, proficiency: mining, percentage: 1, overlevel_bonus: 0.1}
    - {kind: loot, tables: [copper_vein]}
  first_login:
    - {kind: attribute, attribute: stamina, modifier: additive, magnitude: 5}
    - {kind: item, item: silver_ore, quantity: 3}
`

// LoadCatalog parses ContentYAML
func LoadCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	catalog, err := content.Parse([]byte(ContentYAML))
	require.NoError(t, err, "fixture content must be valid")
	return catalog
}

// WriteContentDir writes ContentYAML into a temporary content directory
func WriteContentDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "content.yaml"), []byte(ContentYAML), 0o600)
	require.NoError(t, err)
	return dir
}
