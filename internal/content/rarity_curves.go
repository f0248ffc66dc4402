package content

import (
	"log/slog"
	"sort"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
)

// Curve maps a player level to a drop rate. Keys are sorted by level.
type Curve []CurveKey

// NewCurve returns the keys sorted by level
func NewCurve(keys []CurveKey) Curve {
	c := append(Curve(nil), keys...)
	sort.SliceStable(c, func(i, j int) bool { return c[i].Level < c[j].Level })
	return c
}

// Eval interpolates linearly between keys and holds the end values outside them
func (c Curve) Eval(level float64) float64 {
	switch {
	case len(c) == 0:
		return 0
	case level <= c[0].Level:
		return c[0].Rate
	case level >= c[len(c)-1].Level:
		return c[len(c)-1].Rate
	}

	i := sort.Search(len(c), func(i int) bool { return c[i].Level >= level })
	lo, hi := c[i-1], c[i]
	if hi.Level == lo.Level {
		return hi.Rate
	}
	t := (level - lo.Level) / (hi.Level - lo.Level)
	return lo.Rate + t*(hi.Rate-lo.Rate)
}

// WorldTier scales the rarest drop rates
type WorldTier struct {
	ID                  string
	LegendaryMultiplier float64
	ExoticMultiplier    float64
}

// DefaultWorldTier leaves every rate unscaled
var DefaultWorldTier = WorldTier{ID: "default", LegendaryMultiplier: 1, ExoticMultiplier: 1}

// RarityCurves holds one curve per rarity tier
type RarityCurves struct {
	curves [entities.NumRarities]Curve
}

// NewRarityCurves builds curves keyed by rarity
func NewRarityCurves(curves map[entities.Rarity][]CurveKey) *RarityCurves {
	rc := &RarityCurves{}
	for rarity, keys := range curves {
		if rarity.IsValid() {
			rc.curves[rarity] = NewCurve(keys)
		}
	}
	return rc
}

// Curve returns the curve for one rarity
func (r *RarityCurves) Curve(rarity entities.Rarity) Curve {
	if r == nil || !rarity.IsValid() {
		return nil
	}
	return r.curves[rarity]
}

// RateTable evaluates rarity curves under a world tier.
// It implements loot.RateProvider.
type RateTable struct {
	curves *RarityCurves
	tier   WorldTier
}

// NewRateTable creates a RateTable
func NewRateTable(curves *RarityCurves, tier WorldTier) *RateTable {
	return &RateTable{curves: curves, tier: tier}
}

// RatesAt returns the five drop rates at a player level, each clamped to [0, 1]
func (t *RateTable) RatesAt(level int) entities.RarityRates {
	if level < 1 {
		slog.Warn("Player level below 1, evaluating drop rates at level 1", "level", level)
		level = 1
	}

	var rates entities.RarityRates
	for i := range rates {
		rates[i] = t.curves.Curve(entities.Rarity(i)).Eval(float64(level))
	}
	rates[entities.RarityLegendary] *= t.tier.LegendaryMultiplier
	rates[entities.RarityExotic] *= t.tier.ExoticMultiplier

	for i, r := range rates {
		rates[i] = min(max(r, 0), 1)
	}

	slog.Debug("Drop rates evaluated",
		"level", level,
		"world_tier", t.tier.ID,
		"common", rates[entities.RarityCommon],
		"rare", rates[entities.RarityRare],
		"epic", rates[entities.RarityEpic],
		"legendary", rates[entities.RarityLegendary],
		"exotic", rates[entities.RarityExotic])

	return rates
}
