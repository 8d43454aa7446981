package models

import "time"

// GameKind identifies one of the casino games
type GameKind string

const (
	GameCoinFlip   GameKind = "coinflip"
	GameTargetRoll GameKind = "roll"
	GameSlots      GameKind = "slots"
	GameBlackjack  GameKind = "blackjack"
)

// GameRound is the durable record of a single resolved game
type GameRound struct {
	ID        string         `db:"id"`
	DiscordID int64          `db:"discord_id"`
	Game      GameKind       `db:"game"`
	Stake     int64          `db:"stake"`
	Won       bool           `db:"won"`
	Push      bool           `db:"push"`
	NetDelta  int64          `db:"net_delta"`
	Details   map[string]any `db:"details"`
	CreatedAt time.Time      `db:"created_at"`
}

// CoinFlipResult is the outcome of a single coin flip game
type CoinFlipResult struct {
	Won        bool
	Call       string // "heads" or "tails"
	Landed     string
	Stake      int64
	NetDelta   int64
	NewBalance int64
}

// TargetRollResult is the outcome of a single target-roll game
type TargetRollResult struct {
	Won        bool
	Target     int
	Roll       int
	Multiplier float64
	WinChance  float64
	Stake      int64
	Winnings   int64
	NetDelta   int64
	NewBalance int64
}

// SlotsResult is the outcome of a single slot machine spin
type SlotsResult struct {
	Won        bool
	Grid       [3][3]string
	Payline    [3]string
	Multiplier int64
	Stake      int64
	Winnings   int64
	NetDelta   int64
	NewBalance int64
}
