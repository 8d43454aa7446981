package game

import (
	"errors"
)

// Target roll: the player picks a target in [1, 99] and wins when a
// uniform roll in [0, 99] lands on or above it.

// ErrTargetOutOfRange is returned for targets outside [1, 99].
var ErrTargetOutOfRange = errors.New("target must be between 1 and 99")

// rollHouseEdge is the fixed 2% house edge applied to every payout,
// independent of the chosen target.
const rollHouseEdge = 0.98

// RollWinChance returns the probability of rolling target or higher.
func RollWinChance(target int) float64 {
	return float64(100-target) / 100
}

// RollMultiplier returns the payout multiplier for a target:
// (99 / (100 - target)) * 0.98.
func RollMultiplier(target int) float64 {
	return 99 / float64(100-target) * rollHouseEdge
}

// Roll draws the uniform roll in [0, 99].
func Roll(r Source) int {
	return r.Intn(100)
}

// ResolveRoll computes the winnings and net delta for one target roll.
// Winnings are floored; a loss forfeits the stake.
func ResolveRoll(target, roll int, stake int64) (won bool, winnings int64, netDelta int64, err error) {
	if target < 1 || target > 99 {
		return false, 0, 0, ErrTargetOutOfRange
	}
	if roll < target {
		return false, 0, -stake, nil
	}
	winnings = int64(float64(stake) * RollMultiplier(target))
	return true, winnings, winnings - stake, nil
}
