package loot

import (
	"log/slog"
	"math/rand/v2"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-rewards/internal/errors"
)

// Randomizer supplies every random draw the loot engine makes
type Randomizer interface {
	// Float returns a uniform value in [0, 1)
	Float() float64
	// IntRange returns a uniform integer in [lo, hi]
	IntRange(lo, hi int) int
	// FloatRange returns a uniform value in [lo, hi)
	FloatRange(lo, hi float64) float64
}

// RandomizerConfig configures NewRandomizer
type RandomizerConfig struct {
	// Roller draws integers. Defaults to dice.DefaultRoller, or to a roller
	// on the seeded source when Seed is set.
	Roller dice.Roller
	// Seed makes every draw reproducible. Nil seeds from the runtime.
	Seed *uint64
}

type randomizer struct {
	roller dice.Roller
	rng    *rand.Rand
}

// NewRandomizer returns a Randomizer. It is not safe for concurrent use;
// give each goroutine its own.
func NewRandomizer(cfg *RandomizerConfig) Randomizer {
	if cfg == nil {
		cfg = &RandomizerConfig{}
	}

	var rng *rand.Rand
	if cfg.Seed != nil {
		rng = rand.New(rand.NewPCG(*cfg.Seed, *cfg.Seed^0x9e3779b97f4a7c15))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	roller := cfg.Roller
	if roller == nil {
		if cfg.Seed != nil {
			roller = &sourceRoller{rng: rng}
		} else {
			roller = dice.DefaultRoller
		}
	}

	return &randomizer{roller: roller, rng: rng}
}

func (r *randomizer) Float() float64 {
	return r.rng.Float64()
}

func (r *randomizer) FloatRange(lo, hi float64) float64 {
	return lo + r.rng.Float64()*(hi-lo)
}

// IntRange rolls a die with hi-lo+1 faces
func (r *randomizer) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	roll, err := r.roller.Roll(hi - lo + 1)
	if err != nil {
		slog.Warn("Dice roll failed, using lower bound", "lo", lo, "hi", hi, "error", err)
		return lo
	}
	return lo + roll - 1
}

// sourceRoller is a dice.Roller over a seeded source
type sourceRoller struct {
	rng *rand.Rand
}

func (s *sourceRoller) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, errors.InvalidArgumentf("die size must be positive, got %d", size)
	}
	return s.rng.IntN(size) + 1, nil
}

func (s *sourceRoller) RollN(count, size int) ([]int, error) {
	if size <= 0 {
		return nil, errors.InvalidArgumentf("die size must be positive, got %d", size)
	}
	out := make([]int, count)
	for i := range out {
		out[i] = s.rng.IntN(size) + 1
	}
	return out, nil
}
