package repository

import (
	"context"
	"fmt"
	"time"

	"croupier/database"
	"croupier/models"
	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `
	discord_id, username, balance, total_earned, total_spent,
	gambling_wins, gambling_losses, last_daily_claim, created_at, updated_at
`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.DiscordID,
		&account.Username,
		&account.Balance,
		&account.TotalEarned,
		&account.TotalSpent,
		&account.GamblingWins,
		&account.GamblingLosses,
		&account.LastDailyClaim,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByDiscordID retrieves an account by Discord ID. Returns nil without
// error when the account does not exist.
func (r *AccountRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE discord_id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, discordID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account for discord ID %d: %w", discordID, err)
	}

	return account, nil
}

// Create creates a new account. The starting balance seeds both balance
// and total_earned so that balance = total_earned - total_spent holds
// from the first row onward.
func (r *AccountRepository) Create(ctx context.Context, discordID int64, username string, startingBalance int64) (*models.Account, error) {
	query := `
		INSERT INTO accounts (discord_id, username, balance, total_earned)
		VALUES ($1, $2, $3, $3)
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, discordID, username, startingBalance))
	if err != nil {
		return nil, fmt.Errorf("failed to create account for discord ID %d: %w", discordID, err)
	}

	return account, nil
}

// UpdateUsername refreshes the cached display name
func (r *AccountRepository) UpdateUsername(ctx context.Context, discordID int64, username string) error {
	query := `
		UPDATE accounts
		SET username = $1, updated_at = NOW()
		WHERE discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, username, discordID)
	if err != nil {
		return fmt.Errorf("failed to update username for account %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account with discord ID %d not found", discordID)
	}

	return nil
}

// ApplyDelta applies a signed balance change in a single atomic statement.
// Positive deltas accrue to total_earned, negative deltas to total_spent.
// A negative delta that would drive the balance below zero affects no rows.
func (r *AccountRepository) ApplyDelta(ctx context.Context, discordID int64, delta int64) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $1,
		    total_earned = total_earned + CASE WHEN $1 > 0 THEN $1 ELSE 0 END,
		    total_spent = total_spent + CASE WHEN $1 < 0 THEN -$1 ELSE 0 END,
		    updated_at = NOW()
		WHERE discord_id = $2 AND balance + $1 >= 0
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, delta, discordID))
	if err == pgx.ErrNoRows {
		// Distinguish a missing account from an overdraft
		existing, getErr := r.GetByDiscordID(ctx, discordID)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, fmt.Errorf("account with discord ID %d not found", discordID)
		}
		return nil, fmt.Errorf("insufficient balance for account %d: have %d, need %d", discordID, existing.Balance, -delta)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply balance delta for account %d: %w", discordID, err)
	}

	return account, nil
}

// RecordGameResult increments the win or loss counter
func (r *AccountRepository) RecordGameResult(ctx context.Context, discordID int64, won bool) error {
	query := `
		UPDATE accounts
		SET gambling_wins = gambling_wins + CASE WHEN $1 THEN 1 ELSE 0 END,
		    gambling_losses = gambling_losses + CASE WHEN $1 THEN 0 ELSE 1 END,
		    updated_at = NOW()
		WHERE discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, won, discordID)
	if err != nil {
		return fmt.Errorf("failed to record game result for account %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account with discord ID %d not found", discordID)
	}

	return nil
}

// SetLastDailyClaim stamps the daily reward claim time
func (r *AccountRepository) SetLastDailyClaim(ctx context.Context, discordID int64, claimedAt time.Time) error {
	query := `
		UPDATE accounts
		SET last_daily_claim = $1, updated_at = NOW()
		WHERE discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, claimedAt, discordID)
	if err != nil {
		return fmt.Errorf("failed to set daily claim for account %d: %w", discordID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account with discord ID %d not found", discordID)
	}

	return nil
}

// Reset restores an account to the state a fresh Create would produce:
// the starting balance seeds balance and total_earned, everything else
// clears.
func (r *AccountRepository) Reset(ctx context.Context, discordID int64, startingBalance int64) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET balance = $1,
		    total_earned = $1,
		    total_spent = 0,
		    gambling_wins = 0,
		    gambling_losses = 0,
		    last_daily_claim = NULL,
		    updated_at = NOW()
		WHERE discord_id = $2
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, startingBalance, discordID))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("account with discord ID %d not found", discordID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reset account %d: %w", discordID, err)
	}

	return account, nil
}

// GetAll returns all accounts ordered by balance, richest first
func (r *AccountRepository) GetAll(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY balance DESC, discord_id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// GetEconomyStats aggregates economy-wide totals across all accounts
func (r *AccountRepository) GetEconomyStats(ctx context.Context) (*models.EconomyStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(balance), 0),
		       COALESCE(AVG(balance), 0)::DOUBLE PRECISION,
		       COALESCE(MAX(balance), 0),
		       COALESCE(MIN(balance), 0)
		FROM accounts
	`

	var stats models.EconomyStats
	err := r.q.QueryRow(ctx, query).Scan(
		&stats.TotalAccounts,
		&stats.TotalCurrency,
		&stats.AverageBalance,
		&stats.RichestBalance,
		&stats.PoorestBalance,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get economy stats: %w", err)
	}

	return &stats, nil
}
