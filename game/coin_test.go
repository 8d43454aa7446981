package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlipCoin_Fair(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	heads := 0
	const flips = 100000
	for i := 0; i < flips; i++ {
		if FlipCoin(r) == Heads {
			heads++
		}
	}
	assert.InDelta(t, 0.5, float64(heads)/flips, 0.01)
}

func TestNormalizeCall(t *testing.T) {
	for input, want := range map[string]string{
		"heads": Heads, "h": Heads, "HEADS": Heads,
		"tails": Tails, "t": Tails, " Tails ": Tails,
	} {
		got, ok := NormalizeCall(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	_, ok := NormalizeCall("edge")
	assert.False(t, ok)
}
