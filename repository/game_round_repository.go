package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"croupier/database"
	"croupier/models"
	"github.com/google/uuid"
)

// GameRoundRepository implements the GameRoundRepository interface
type GameRoundRepository struct {
	q queryable
}

// NewGameRoundRepository creates a new game round repository
func NewGameRoundRepository(db *database.DB) *GameRoundRepository {
	return &GameRoundRepository{q: db.Pool}
}

// newGameRoundRepositoryWithTx creates a new game round repository with a transaction
func newGameRoundRepositoryWithTx(tx queryable) *GameRoundRepository {
	return &GameRoundRepository{q: tx}
}

// Create records a resolved game round. The round ID is assigned here.
func (r *GameRoundRepository) Create(ctx context.Context, round *models.GameRound) error {
	if round.ID == "" {
		round.ID = uuid.New().String()
	}

	detailsJSON, err := json.Marshal(round.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal game round details: %w", err)
	}

	query := `
		INSERT INTO game_rounds (id, discord_id, game, stake, won, push, net_delta, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err = r.q.QueryRow(ctx, query,
		round.ID,
		round.DiscordID,
		round.Game,
		round.Stake,
		round.Won,
		round.Push,
		round.NetDelta,
		detailsJSON,
	).Scan(&round.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create game round for user %d: %w", round.DiscordID, err)
	}

	return nil
}

// GetByUser returns the most recent rounds for a user
func (r *GameRoundRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.GameRound, error) {
	query := `
		SELECT id, discord_id, game, stake, won, push, net_delta, details, created_at
		FROM game_rounds
		WHERE discord_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, discordID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get game rounds for user %d: %w", discordID, err)
	}
	defer rows.Close()

	var rounds []*models.GameRound
	for rows.Next() {
		var round models.GameRound
		var detailsJSON []byte

		err := rows.Scan(
			&round.ID,
			&round.DiscordID,
			&round.Game,
			&round.Stake,
			&round.Won,
			&round.Push,
			&round.NetDelta,
			&detailsJSON,
			&round.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game round: %w", err)
		}

		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &round.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal game round details: %w", err)
			}
		}

		rounds = append(rounds, &round)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game rounds: %w", err)
	}

	return rounds, nil
}
