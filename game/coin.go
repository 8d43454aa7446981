package game

import (
	"strings"
)

// Coin sides for the coin flip game.
const (
	Heads = "heads"
	Tails = "tails"
)

// FlipCoin performs a fair 50/50 draw.
func FlipCoin(r Source) string {
	if r.Intn(2) == 0 {
		return Heads
	}
	return Tails
}

// NormalizeCall resolves a player's side call ("heads", "tails", "h", "t",
// any case) to a canonical side. ok is false for anything else.
func NormalizeCall(call string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(call)) {
	case Heads, "h":
		return Heads, true
	case Tails, "t":
		return Tails, true
	default:
		return "", false
	}
}
