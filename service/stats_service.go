package service

import (
	"context"
	"fmt"

	"croupier/models"
)

const recentRoundsLimit = 10

// statsService implements the StatsService interface
type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
	}
}

// GetScoreboard returns the top accounts by balance
func (s *statsService) GetScoreboard(ctx context.Context, limit int) ([]*models.ScoreboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accounts, err := uow.AccountRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	entries := make([]*models.ScoreboardEntry, 0, len(accounts))
	for i, account := range accounts {
		winRate, hasWinRate := account.WinRate()
		entries = append(entries, &models.ScoreboardEntry{
			Rank:        i + 1,
			DiscordID:   account.DiscordID,
			Username:    account.Username,
			Balance:     account.Balance,
			TotalEarned: account.TotalEarned,
			TotalSpent:  account.TotalSpent,
			WinRate:     winRate,
			HasWinRate:  hasWinRate,
		})
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

// GetUserStats returns an account with its recent gambling activity
func (s *statsService) GetUserStats(ctx context.Context, discordID int64) (*models.UserStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	rounds, err := uow.GameRoundRepository().GetByUser(ctx, discordID, recentRoundsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent rounds: %w", err)
	}

	return &models.UserStats{
		Account:      account,
		RecentRounds: rounds,
	}, nil
}

// GetEconomyStats returns economy-wide aggregates
func (s *statsService) GetEconomyStats(ctx context.Context) (*models.EconomyStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stats, err := uow.AccountRepository().GetEconomyStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get economy stats: %w", err)
	}

	return stats, nil
}
