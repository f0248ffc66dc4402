package idgen_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-rewards/internal/pkg/idgen"
)

func TestSequentialGenerator(t *testing.T) {
	gen := idgen.NewSequential("drop")
	assert.Equal(t, "drop_1", gen.Generate())
	assert.Equal(t, "drop_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}

func TestPrefixedGenerator(t *testing.T) {
	gen := idgen.NewPrefixed("drop")
	a := gen.Generate()
	b := gen.Generate()

	assert.True(t, strings.HasPrefix(a, "drop_"))
	assert.NotEqual(t, a, b)
	assert.Len(t, strings.Split(a, "_"), 3)
}

func TestUUIDGenerator(t *testing.T) {
	gen := idgen.NewUUID("reward")
	id := gen.Generate()
	require.True(t, strings.HasPrefix(id, "reward_"))

	_, err := uuid.Parse(strings.TrimPrefix(id, "reward_"))
	assert.NoError(t, err)

	_, err = uuid.Parse(idgen.NewUUID("").Generate())
	assert.NoError(t, err)
}
