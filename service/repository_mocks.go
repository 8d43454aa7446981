package service

import (
	"context"
	"time"

	"croupier/events"
	"croupier/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, discordID int64, username string, startingBalance int64) (*models.Account, error) {
	args := m.Called(ctx, discordID, username, startingBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateUsername(ctx context.Context, discordID int64, username string) error {
	args := m.Called(ctx, discordID, username)
	return args.Error(0)
}

func (m *MockAccountRepository) ApplyDelta(ctx context.Context, discordID int64, delta int64) (*models.Account, error) {
	args := m.Called(ctx, discordID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) RecordGameResult(ctx context.Context, discordID int64, won bool) error {
	args := m.Called(ctx, discordID, won)
	return args.Error(0)
}

func (m *MockAccountRepository) SetLastDailyClaim(ctx context.Context, discordID int64, claimedAt time.Time) error {
	args := m.Called(ctx, discordID, claimedAt)
	return args.Error(0)
}

func (m *MockAccountRepository) Reset(ctx context.Context, discordID int64, startingBalance int64) (*models.Account, error) {
	args := m.Called(ctx, discordID, startingBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAll(ctx context.Context) ([]*models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetEconomyStats(ctx context.Context) (*models.EconomyStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EconomyStats), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockGameRoundRepository is a mock implementation of GameRoundRepository
type MockGameRoundRepository struct {
	mock.Mock
}

func (m *MockGameRoundRepository) Create(ctx context.Context, round *models.GameRound) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *MockGameRoundRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.GameRound, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameRound), args.Error(1)
}

// MockGamblingChannelRepository is a mock implementation of GamblingChannelRepository
type MockGamblingChannelRepository struct {
	mock.Mock
}

func (m *MockGamblingChannelRepository) GetByGuild(ctx context.Context, guildID int64) ([]int64, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockGamblingChannelRepository) Add(ctx context.Context, guildID, channelID int64) (bool, error) {
	args := m.Called(ctx, guildID, channelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGamblingChannelRepository) Remove(ctx context.Context, guildID, channelID int64) (bool, error) {
	args := m.Called(ctx, guildID, channelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGamblingChannelRepository) Clear(ctx context.Context, guildID int64) (int64, error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// noopPublisher drops events; the default bus for mocked units of work
type noopPublisher struct{}

func (noopPublisher) Publish(events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// plain fields so tests wire in the repository mocks they care about.
type MockUnitOfWork struct {
	mock.Mock
	accountRepo         AccountRepository
	balanceHistoryRepo  BalanceHistoryRepository
	gameRoundRepo       GameRoundRepository
	gamblingChannelRepo GamblingChannelRepository
	eventBus            EventPublisher
}

// SetRepositories wires the repository mocks this unit of work hands out
func (m *MockUnitOfWork) SetRepositories(
	accountRepo AccountRepository,
	balanceHistoryRepo BalanceHistoryRepository,
	gameRoundRepo GameRoundRepository,
	gamblingChannelRepo GamblingChannelRepository,
) {
	m.accountRepo = accountRepo
	m.balanceHistoryRepo = balanceHistoryRepo
	m.gameRoundRepo = gameRoundRepo
	m.gamblingChannelRepo = gamblingChannelRepo
}

// SetEventBus overrides the default no-op event publisher
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.balanceHistoryRepo
}

func (m *MockUnitOfWork) GameRoundRepository() GameRoundRepository {
	return m.gameRoundRepo
}

func (m *MockUnitOfWork) GamblingChannelRepository() GamblingChannelRepository {
	return m.gamblingChannelRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return noopPublisher{}
	}
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
