package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollMultiplier(t *testing.T) {
	// (99/50) * 0.98 = 1.9404
	assert.InDelta(t, 1.9404, RollMultiplier(50), 1e-9)

	// Extremes
	assert.InDelta(t, 99.0/99*0.98, RollMultiplier(1), 1e-9)
	assert.InDelta(t, 99.0*0.98, RollMultiplier(99), 1e-9)
}

func TestRollWinChance(t *testing.T) {
	assert.InDelta(t, 0.5, RollWinChance(50), 1e-9)
	assert.InDelta(t, 0.99, RollWinChance(1), 1e-9)
	assert.InDelta(t, 0.01, RollWinChance(99), 1e-9)
}

func TestResolveRoll(t *testing.T) {
	// Target 50 pays 1.9404x, so stake 1000 wins 940 net
	won, winnings, net, err := ResolveRoll(50, 50, 1000)
	require.NoError(t, err)
	assert.True(t, won)
	assert.Equal(t, int64(1940), winnings, "winnings are floored")
	assert.Equal(t, int64(940), net)

	// Roll below target loses the stake
	won, winnings, net, err = ResolveRoll(50, 49, 1000)
	require.NoError(t, err)
	assert.False(t, won)
	assert.Zero(t, winnings)
	assert.Equal(t, int64(-1000), net)

	// Expected value stays below break-even for every target
	for target := 1; target <= 99; target++ {
		ev := RollWinChance(target) * RollMultiplier(target)
		assert.Less(t, ev, 1.0, "target %d", target)
	}
}

func TestResolveRoll_TargetRange(t *testing.T) {
	for _, target := range []int{0, 100, -5} {
		_, _, _, err := ResolveRoll(target, 10, 100)
		assert.ErrorIs(t, err, ErrTargetOutOfRange)
	}
}

func TestRoll_Range(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		roll := Roll(r)
		assert.GreaterOrEqual(t, roll, 0)
		assert.LessOrEqual(t, roll, 99)
	}
}
