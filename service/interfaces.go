package service

import (
	"context"
	"time"

	"croupier/events"
	"croupier/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByDiscordID retrieves an account by Discord ID, nil if absent
	GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error)

	// Create creates a new account seeded with the starting balance
	Create(ctx context.Context, discordID int64, username string, startingBalance int64) (*models.Account, error)

	// UpdateUsername refreshes the cached display name
	UpdateUsername(ctx context.Context, discordID int64, username string) error

	// ApplyDelta applies a signed balance change atomically and returns the
	// updated account
	ApplyDelta(ctx context.Context, discordID int64, delta int64) (*models.Account, error)

	// RecordGameResult increments the win or loss counter
	RecordGameResult(ctx context.Context, discordID int64, won bool) error

	// SetLastDailyClaim stamps the daily reward claim time
	SetLastDailyClaim(ctx context.Context, discordID int64, claimedAt time.Time) error

	// Reset restores an account to the starting balance
	Reset(ctx context.Context, discordID int64, startingBalance int64) (*models.Account, error)

	// GetAll returns all accounts ordered by balance, richest first
	GetAll(ctx context.Context) ([]*models.Account, error)

	// GetEconomyStats aggregates economy-wide totals
	GetEconomyStats(ctx context.Context) (*models.EconomyStats, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns the most recent entries for a user
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error)
}

// GameRoundRepository defines the interface for game round data access
type GameRoundRepository interface {
	// Create records a resolved game round
	Create(ctx context.Context, round *models.GameRound) error

	// GetByUser returns the most recent rounds for a user
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.GameRound, error)
}

// GamblingChannelRepository defines the interface for the per-guild
// gambling channel allow-list
type GamblingChannelRepository interface {
	// GetByGuild returns the allow-listed channel IDs for a guild
	GetByGuild(ctx context.Context, guildID int64) ([]int64, error)

	// Add allow-lists a channel, reporting whether it was newly added
	Add(ctx context.Context, guildID, channelID int64) (bool, error)

	// Remove drops a channel, reporting whether it was listed
	Remove(ctx context.Context, guildID, channelID int64) (bool, error)

	// Clear removes all allow-listed channels for a guild
	Clear(ctx context.Context, guildID int64) (int64, error)
}

// LedgerService defines the interface for account and currency operations
type LedgerService interface {
	// GetOrCreateAccount retrieves an account or creates one with the
	// starting balance
	GetOrCreateAccount(ctx context.Context, discordID int64, username string) (*models.Account, error)

	// ClaimDaily grants the daily reward, enforcing the 24 hour cooldown
	ClaimDaily(ctx context.Context, discordID int64, username string) (*models.DailyResult, error)

	// Transfer moves amount from sender to recipient atomically
	Transfer(ctx context.Context, fromDiscordID, toDiscordID int64, amount int64, fromUsername, toUsername string) (*models.TransferResult, error)

	// AdjustBalance applies an administrative balance change
	AdjustBalance(ctx context.Context, discordID int64, username string, delta int64, reason string) (*models.Account, error)

	// ResetAccount restores an account to the starting balance
	ResetAccount(ctx context.Context, discordID int64) (*models.Account, error)

	// GetHistory returns recent balance history for a user
	GetHistory(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error)
}

// ChannelPolicyService defines the interface for gambling channel policy
type ChannelPolicyService interface {
	// CheckAllowed returns ErrChannelNotAllowed when gambling commands are
	// restricted away from the given channel
	CheckAllowed(ctx context.Context, guildID, channelID int64) error

	// ListChannels returns the configured allow-list for a guild
	ListChannels(ctx context.Context, guildID int64) ([]int64, error)

	// AddChannel allow-lists a channel
	AddChannel(ctx context.Context, guildID, channelID int64) (bool, error)

	// RemoveChannel drops a channel from the allow-list
	RemoveChannel(ctx context.Context, guildID, channelID int64) (bool, error)

	// ClearChannels removes the entire allow-list for a guild
	ClearChannels(ctx context.Context, guildID int64) (int64, error)
}

// GamesService defines the interface for the single-step casino games
type GamesService interface {
	// PlayCoinFlip wagers stakeExpr on a coin flip. An empty call bets on
	// heads.
	PlayCoinFlip(ctx context.Context, discordID int64, username, stakeExpr, call string) (*models.CoinFlipResult, error)

	// PlayTargetRoll wagers stakeExpr on rolling at or above target
	PlayTargetRoll(ctx context.Context, discordID int64, username, stakeExpr string, target int) (*models.TargetRollResult, error)

	// PlaySlots wagers stakeExpr on one slot machine spin
	PlaySlots(ctx context.Context, discordID int64, username, stakeExpr string) (*models.SlotsResult, error)
}

// BlackjackService defines the interface for the multi-step blackjack game
type BlackjackService interface {
	// StartRound deals a new round, holding the stake against the session.
	// A player may hold one live session per channel.
	StartRound(ctx context.Context, discordID int64, username, stakeExpr string, channelID int64) (*models.BlackjackView, error)

	// Hit draws a card for the player's live session
	Hit(ctx context.Context, discordID, channelID int64) (*models.BlackjackView, error)

	// Stand ends the player's turn and plays out the dealer
	Stand(ctx context.Context, discordID, channelID int64) (*models.BlackjackView, error)

	// SetExpiryHandler registers the callback invoked when a live session
	// times out
	SetExpiryHandler(handler ExpiryHandler)
}

// StatsService defines the interface for statistics operations
type StatsService interface {
	// GetScoreboard returns the top accounts by balance
	GetScoreboard(ctx context.Context, limit int) ([]*models.ScoreboardEntry, error)

	// GetUserStats returns an account with its recent gambling activity
	GetUserStats(ctx context.Context, discordID int64) (*models.UserStats, error)

	// GetEconomyStats returns economy-wide aggregates
	GetEconomyStats(ctx context.Context) (*models.EconomyStats, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	GameRoundRepository() GameRoundRepository
	GamblingChannelRepository() GamblingChannelRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
