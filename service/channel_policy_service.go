package service

import (
	"context"
	"fmt"
)

// channelPolicyService implements the ChannelPolicyService interface
type channelPolicyService struct {
	uowFactory UnitOfWorkFactory
}

// NewChannelPolicyService creates a new channel policy service
func NewChannelPolicyService(uowFactory UnitOfWorkFactory) ChannelPolicyService {
	return &channelPolicyService{
		uowFactory: uowFactory,
	}
}

// CheckAllowed enforces the guild's gambling channel allow-list. A guild
// with no configured channels allows gambling everywhere.
func (s *channelPolicyService) CheckAllowed(ctx context.Context, guildID, channelID int64) error {
	channels, err := s.ListChannels(ctx, guildID)
	if err != nil {
		return err
	}

	if len(channels) == 0 {
		return nil
	}

	for _, allowed := range channels {
		if allowed == channelID {
			return nil
		}
	}

	return ErrChannelNotAllowed
}

// ListChannels returns the configured allow-list for a guild
func (s *channelPolicyService) ListChannels(ctx context.Context, guildID int64) ([]int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	channels, err := uow.GamblingChannelRepository().GetByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gambling channels: %w", err)
	}

	return channels, nil
}

// AddChannel allow-lists a channel for a guild
func (s *channelPolicyService) AddChannel(ctx context.Context, guildID, channelID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	added, err := uow.GamblingChannelRepository().Add(ctx, guildID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to add gambling channel: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return added, nil
}

// RemoveChannel drops a channel from the allow-list
func (s *channelPolicyService) RemoveChannel(ctx context.Context, guildID, channelID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	removed, err := uow.GamblingChannelRepository().Remove(ctx, guildID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to remove gambling channel: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return removed, nil
}

// ClearChannels removes the entire allow-list for a guild
func (s *channelPolicyService) ClearChannels(ctx context.Context, guildID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	removed, err := uow.GamblingChannelRepository().Clear(ctx, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear gambling channels: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return removed, nil
}
