package models

// ScoreboardEntry represents one row of the balance leaderboard
type ScoreboardEntry struct {
	Rank        int
	DiscordID   int64
	Username    string
	Balance     int64
	TotalEarned int64
	TotalSpent  int64
	WinRate     float64
	HasWinRate  bool
}

// EconomyStats holds aggregate statistics across all accounts
type EconomyStats struct {
	TotalAccounts  int64
	TotalCurrency  int64
	AverageBalance float64
	RichestBalance int64
	PoorestBalance int64
}

// UserStats bundles an account with its recent gambling activity
type UserStats struct {
	Account      *Account
	RecentRounds []*GameRound
}
