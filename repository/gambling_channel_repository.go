package repository

import (
	"context"
	"fmt"

	"croupier/database"
)

// GamblingChannelRepository implements the GamblingChannelRepository interface
type GamblingChannelRepository struct {
	q queryable
}

// NewGamblingChannelRepository creates a new gambling channel repository
func NewGamblingChannelRepository(db *database.DB) *GamblingChannelRepository {
	return &GamblingChannelRepository{q: db.Pool}
}

// newGamblingChannelRepositoryWithTx creates a new gambling channel repository with a transaction
func newGamblingChannelRepositoryWithTx(tx queryable) *GamblingChannelRepository {
	return &GamblingChannelRepository{q: tx}
}

// GetByGuild returns the allow-listed channel IDs for a guild. An empty
// result means the guild has no allow-list configured.
func (r *GamblingChannelRepository) GetByGuild(ctx context.Context, guildID int64) ([]int64, error) {
	query := `
		SELECT channel_id
		FROM gambling_channels
		WHERE guild_id = $1
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get gambling channels for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var channels []int64
	for rows.Next() {
		var channelID int64
		if err := rows.Scan(&channelID); err != nil {
			return nil, fmt.Errorf("failed to scan gambling channel: %w", err)
		}
		channels = append(channels, channelID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate gambling channels: %w", err)
	}

	return channels, nil
}

// Add allow-lists a channel for a guild. Adding an already listed channel
// is a no-op and reports false.
func (r *GamblingChannelRepository) Add(ctx context.Context, guildID, channelID int64) (bool, error) {
	query := `
		INSERT INTO gambling_channels (guild_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (guild_id, channel_id) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query, guildID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to add gambling channel %d for guild %d: %w", channelID, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}

// Remove drops a channel from the guild allow-list. Removing a channel that
// is not listed reports false.
func (r *GamblingChannelRepository) Remove(ctx context.Context, guildID, channelID int64) (bool, error) {
	query := `
		DELETE FROM gambling_channels
		WHERE guild_id = $1 AND channel_id = $2
	`

	result, err := r.q.Exec(ctx, query, guildID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to remove gambling channel %d for guild %d: %w", channelID, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}

// Clear removes every allow-listed channel for a guild, returning the guild
// to its default open state.
func (r *GamblingChannelRepository) Clear(ctx context.Context, guildID int64) (int64, error) {
	query := `DELETE FROM gambling_channels WHERE guild_id = $1`

	result, err := r.q.Exec(ctx, query, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear gambling channels for guild %d: %w", guildID, err)
	}

	return result.RowsAffected(), nil
}
