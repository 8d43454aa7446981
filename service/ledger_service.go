package service

import (
	"context"
	"fmt"
	"time"

	"croupier/config"
	"croupier/events"
	"croupier/game"
	"croupier/models"
)

// Daily reward jitter bounds, inclusive.
const (
	dailyJitterMin = -50
	dailyJitterMax = 100
)

const dailyCooldown = 24 * time.Hour

// ledgerService implements the LedgerService interface
type ledgerService struct {
	uowFactory UnitOfWorkFactory
	rng        game.Source
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory, rng game.Source) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
		rng:        rng,
	}
}

// getOrCreateAccount is the transactional core of GetOrCreateAccount, shared
// with the other ledger operations that implicitly open accounts.
func getOrCreateAccount(ctx context.Context, uow UnitOfWork, discordID int64, username string) (*models.Account, error) {
	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	if account != nil {
		if username != "" && account.Username != username {
			if err := uow.AccountRepository().UpdateUsername(ctx, discordID, username); err != nil {
				return nil, fmt.Errorf("failed to update username: %w", err)
			}
			account.Username = username
		}
		return account, nil
	}

	startingBalance := config.Get().StartingBalance
	account, err = uow.AccountRepository().Create(ctx, discordID, username, startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   0,
		BalanceAfter:    startingBalance,
		ChangeAmount:    startingBalance,
		TransactionType: models.TransactionTypeInitial,
		TransactionMetadata: map[string]any{
			"username": username,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record initial balance: %w", err)
	}

	return account, nil
}

// GetOrCreateAccount retrieves an account or creates one with the starting balance
func (s *ledgerService) GetOrCreateAccount(ctx context.Context, discordID int64, username string) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, discordID, username)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account, nil
}

// ClaimDaily grants the daily reward, enforcing the 24 hour cooldown
func (s *ledgerService) ClaimDaily(ctx context.Context, discordID int64, username string) (*models.DailyResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, discordID, username)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if account.LastDailyClaim != nil {
		elapsed := now.Sub(*account.LastDailyClaim)
		if elapsed < dailyCooldown {
			return nil, &DailyCooldownError{Remaining: dailyCooldown - elapsed}
		}
	}

	jitter := int64(s.rng.Intn(dailyJitterMax-dailyJitterMin+1) + dailyJitterMin)
	reward := config.Get().DailyReward + jitter

	updated, err := uow.AccountRepository().ApplyDelta(ctx, discordID, reward)
	if err != nil {
		return nil, fmt.Errorf("failed to apply daily reward: %w", err)
	}
	if err := uow.AccountRepository().SetLastDailyClaim(ctx, discordID, now); err != nil {
		return nil, fmt.Errorf("failed to stamp daily claim: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   account.Balance,
		BalanceAfter:    updated.Balance,
		ChangeAmount:    reward,
		TransactionType: models.TransactionTypeDaily,
		TransactionMetadata: map[string]any{
			"base_reward": config.Get().DailyReward,
			"jitter":      jitter,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record daily reward: %w", err)
	}

	uow.EventBus().Publish(events.DailyClaimedEvent{
		UserID: discordID,
		Reward: reward,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.DailyResult{
		Reward:     reward,
		NewBalance: updated.Balance,
	}, nil
}

// Transfer moves amount from sender to recipient. Both legs happen inside
// one transaction so a crash can never debit without crediting.
func (s *ledgerService) Transfer(ctx context.Context, fromDiscordID, toDiscordID int64, amount int64, fromUsername, toUsername string) (*models.TransferResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("transfer amount must be positive")
	}
	if fromDiscordID == toDiscordID {
		return nil, ErrSelfTransfer
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	sender, err := getOrCreateAccount(ctx, uow, fromDiscordID, fromUsername)
	if err != nil {
		return nil, err
	}
	if sender.Balance < amount {
		return nil, &game.InsufficientFundsError{Balance: sender.Balance, Stake: amount}
	}

	recipient, err := getOrCreateAccount(ctx, uow, toDiscordID, toUsername)
	if err != nil {
		return nil, err
	}

	updatedSender, err := uow.AccountRepository().ApplyDelta(ctx, fromDiscordID, -amount)
	if err != nil {
		return nil, fmt.Errorf("failed to debit sender: %w", err)
	}
	updatedRecipient, err := uow.AccountRepository().ApplyDelta(ctx, toDiscordID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit recipient: %w", err)
	}

	fromHistory := &models.BalanceHistory{
		DiscordID:       fromDiscordID,
		BalanceBefore:   sender.Balance,
		BalanceAfter:    updatedSender.Balance,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeTransferOut,
		TransactionMetadata: map[string]any{
			"recipient_discord_id": toDiscordID,
			"recipient_username":   toUsername,
			"transfer_amount":      amount,
		},
	}
	if err := RecordBalanceChange(ctx, uow, fromHistory); err != nil {
		return nil, fmt.Errorf("failed to record sender balance change: %w", err)
	}

	toHistory := &models.BalanceHistory{
		DiscordID:       toDiscordID,
		BalanceBefore:   recipient.Balance,
		BalanceAfter:    updatedRecipient.Balance,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeTransferIn,
		TransactionMetadata: map[string]any{
			"sender_discord_id": fromDiscordID,
			"sender_username":   fromUsername,
			"transfer_amount":   amount,
		},
	}
	if err := RecordBalanceChange(ctx, uow, toHistory); err != nil {
		return nil, fmt.Errorf("failed to record recipient balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TransferResult{
		Amount:        amount,
		RecipientName: updatedRecipient.Username,
		NewBalance:    updatedSender.Balance,
	}, nil
}

// AdjustBalance applies an administrative balance change
func (s *ledgerService) AdjustBalance(ctx context.Context, discordID int64, username string, delta int64, reason string) (*models.Account, error) {
	if delta == 0 {
		return nil, fmt.Errorf("adjustment must be non-zero")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, discordID, username)
	if err != nil {
		return nil, err
	}

	updated, err := uow.AccountRepository().ApplyDelta(ctx, discordID, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to apply adjustment: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   account.Balance,
		BalanceAfter:    updated.Balance,
		ChangeAmount:    delta,
		TransactionType: models.TransactionTypeAdminAdjust,
		TransactionMetadata: map[string]any{
			"reason": reason,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record adjustment: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, nil
}

// ResetAccount restores an account to the starting balance
func (s *ledgerService) ResetAccount(ctx context.Context, discordID int64) (*models.Account, error) {
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

	startingBalance := config.Get().StartingBalance
	updated, err := uow.AccountRepository().Reset(ctx, discordID, startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to reset account: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   account.Balance,
		BalanceAfter:    updated.Balance,
		ChangeAmount:    updated.Balance - account.Balance,
		TransactionType: models.TransactionTypeAdminAdjust,
		TransactionMetadata: map[string]any{
			"reason": "account reset",
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record reset: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, nil
}

// GetHistory returns recent balance history for a user
func (s *ledgerService) GetHistory(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	histories, err := uow.BalanceHistoryRepository().GetByUser(ctx, discordID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}

	return histories, nil
}
