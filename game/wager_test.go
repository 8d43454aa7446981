package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStake_Keywords(t *testing.T) {
	stake, err := ParseStake("all", 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), stake)

	stake, err = ParseStake("half", 1001)
	require.NoError(t, err)
	assert.Equal(t, int64(500), stake, "half floors the division")

	// Keywords are case-insensitive and tolerate whitespace
	stake, err = ParseStake("  ALL ", 250)
	require.NoError(t, err)
	assert.Equal(t, int64(250), stake)
}

func TestParseStake_Literal(t *testing.T) {
	stake, err := ParseStake("750", 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(750), stake)

	// Exactly the balance is allowed
	stake, err = ParseStake("1000", 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), stake)
}

func TestParseStake_Rejections(t *testing.T) {
	_, err := ParseStake("lots", 1000)
	assert.ErrorIs(t, err, ErrInvalidStakeFormat)

	_, err = ParseStake("12.5", 1000)
	assert.ErrorIs(t, err, ErrInvalidStakeFormat)

	_, err = ParseStake("0", 1000)
	assert.ErrorIs(t, err, ErrNonPositiveStake)

	_, err = ParseStake("-50", 1000)
	assert.ErrorIs(t, err, ErrNonPositiveStake)

	// "all" on an empty balance is non-positive, not insufficient
	_, err = ParseStake("all", 0)
	assert.ErrorIs(t, err, ErrNonPositiveStake)

	_, err = ParseStake("1001", 1000)
	var insufficientErr *InsufficientFundsError
	require.True(t, errors.As(err, &insufficientErr))
	assert.Equal(t, int64(1000), insufficientErr.Balance)
	assert.Equal(t, int64(1), insufficientErr.Shortfall())
}
