package models

import (
	"time"
)

// Account represents a Discord user's currency account
type Account struct {
	DiscordID       int64      `db:"discord_id"`
	Username        string     `db:"username"`
	Balance         int64      `db:"balance"`
	TotalEarned     int64      `db:"total_earned"`
	TotalSpent      int64      `db:"total_spent"`
	GamblingWins    int64      `db:"gambling_wins"`
	GamblingLosses  int64      `db:"gambling_losses"`
	LastDailyClaim  *time.Time `db:"last_daily_claim"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// GamesResolved returns how many non-push games this account has finished.
func (a *Account) GamesResolved() int64 {
	return a.GamblingWins + a.GamblingLosses
}

// WinRate returns the gambling win percentage, or 0 with ok=false if no
// games have been resolved yet.
func (a *Account) WinRate() (float64, bool) {
	total := a.GamesResolved()
	if total == 0 {
		return 0, false
	}
	return float64(a.GamblingWins) / float64(total) * 100, true
}

// TransferResult represents the outcome of a transfer (returned to the user)
type TransferResult struct {
	Amount        int64
	RecipientName string
	NewBalance    int64
}

// DailyResult represents the outcome of a daily reward claim
type DailyResult struct {
	Reward     int64
	NewBalance int64
}
