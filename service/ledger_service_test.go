package service

import (
	"context"
	"testing"
	"time"

	"croupier/game"
	"croupier/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_GetOrCreateAccount_Existing(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil)

	svc := NewLedgerService(mockFactory, &scriptSource{vals: []int{0}})

	existing := &models.Account{DiscordID: 123456, Username: "player", Balance: 5000}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(existing, nil)

	account, err := svc.GetOrCreateAccount(ctx, 123456, "player")

	require.NoError(t, err)
	assert.Equal(t, existing, account)
	mockAccountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_GetOrCreateAccount_SeedsStartingBalance(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)

	mockUoW.SetRepositories(mockAccountRepo, mockHistoryRepo, nil, nil)

	svc := NewLedgerService(mockFactory, &scriptSource{vals: []int{0}})

	created := &models.Account{DiscordID: 123456, Username: "player", Balance: 1000}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(nil, nil)
	mockAccountRepo.On("Create", ctx, int64(123456), "player", int64(1000)).Return(created, nil)
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeInitial &&
			h.BalanceBefore == 0 &&
			h.BalanceAfter == 1000 &&
			h.ChangeAmount == 1000
	})).Return(nil)

	account, err := svc.GetOrCreateAccount(ctx, 123456, "player")

	require.NoError(t, err)
	assert.Equal(t, int64(1000), account.Balance)
	mockAccountRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestLedgerService_ClaimDaily_Granted(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)

	mockUoW.SetRepositories(mockAccountRepo, mockHistoryRepo, nil, nil)

	// Intn(151) == 0 maps to the minimum jitter of -50, reward 450
	svc := NewLedgerService(mockFactory, &scriptSource{vals: []int{0}})

	lastClaim := time.Now().Add(-25 * time.Hour)
	account := &models.Account{DiscordID: 123456, Username: "player", Balance: 1000, LastDailyClaim: &lastClaim}
	updated := &models.Account{DiscordID: 123456, Username: "player", Balance: 1450}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(account, nil)
	mockAccountRepo.On("ApplyDelta", ctx, int64(123456), int64(450)).Return(updated, nil)
	mockAccountRepo.On("SetLastDailyClaim", ctx, int64(123456), mock.AnythingOfType("time.Time")).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeDaily && h.ChangeAmount == 450
	})).Return(nil)

	result, err := svc.ClaimDaily(ctx, 123456, "player")

	require.NoError(t, err)
	assert.Equal(t, int64(450), result.Reward)
	assert.Equal(t, int64(1450), result.NewBalance)
	mockAccountRepo.AssertExpectations(t)
}

func TestLedgerService_ClaimDaily_Cooldown(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil)

	svc := NewLedgerService(mockFactory, &scriptSource{vals: []int{0}})

	lastClaim := time.Now().Add(-1 * time.Hour)
	account := &models.Account{DiscordID: 123456, Username: "player", Balance: 1000, LastDailyClaim: &lastClaim}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetByDiscordID", ctx, int64(123456)).Return(account, nil)

	_, err := svc.ClaimDaily(ctx, 123456, "player")

	var cooldown *DailyCooldownError
	require.ErrorAs(t, err, &cooldown)
	assert.Greater(t, cooldown.Remaining, 22*time.Hour)
	mockAccountRepo.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_Transfer_BothLegsInOneTransaction(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)

	mockUoW.SetRepositories(mockAccountRepo, mockHistoryRepo, nil, nil)

	svc := NewLedgerService(mockFactory, &scriptSource{vals: []int{0}})

	sender := &models.Account{DiscordID: 111, Username: "alice", Balance: 1000}
	recipient := &models.Account{DiscordID: 222, Username: "bob", Balance: 200}
	updatedSender := &models.Account{DiscordID: 111, Username: "alice", Balance: 700}
	updatedRecipient := &models.Account{DiscordID: 222, Username: "bob", Balance: 500}

	// One Create, one Begin, one Commit: both legs share a transaction
	mockFactory.On("Create").Return(mockUoW).Once()
	mockUoW.On("Begin", ctx).Return(nil).Once()
	mockUoW.On("Commit").Return(nil).Once()
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetByDiscordID", ctx, int64(111)).Return(sender, nil)
	mockAccountRepo.On("GetByDiscordID", ctx, int64(222)).Return(recipient, nil)
	mockAccountRepo.On("ApplyDelta", ctx, int64(111), int64(-300)).Return(updatedSender, nil)
	mockAccountRepo.On("ApplyDelta", ctx, int64(222), int64(300)).Return(updatedRecipient, nil)

	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.DiscordID == 111 && h.TransactionType == models.TransactionTypeTransferOut && h.ChangeAmount == -300
	})).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.DiscordID == 222 && h.TransactionType == models.TransactionTypeTransferIn && h.ChangeAmount == 300
	})).Return(nil)

	result, err := svc.Transfer(ctx, 111, 222, 300, "alice", "bob")

	require.NoError(t, err)
	assert.Equal(t, int64(300), result.Amount)
	assert.Equal(t, "bob", result.RecipientName)
	assert.Equal(t, int64(700), result.NewBalance)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestLedgerService_Transfer_InsufficientFunds(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)

	mockUoW.SetRepositories(mockAccountRepo, nil, nil, nil)

	svc := NewLedgerService(mockFactory, &scriptSource{vals: []int{0}})

	sender := &models.Account{DiscordID: 111, Username: "alice", Balance: 100}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetByDiscordID", ctx, int64(111)).Return(sender, nil)

	_, err := svc.Transfer(ctx, 111, 222, 300, "alice", "bob")

	var insufficient *game.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	mockAccountRepo.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_Transfer_RejectsSelf(t *testing.T) {
	svc := NewLedgerService(new(MockUnitOfWorkFactory), &scriptSource{vals: []int{0}})

	_, err := svc.Transfer(context.Background(), 111, 111, 300, "alice", "alice")
	assert.ErrorIs(t, err, ErrSelfTransfer)
}

func TestLedgerService_Transfer_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewLedgerService(new(MockUnitOfWorkFactory), &scriptSource{vals: []int{0}})

	_, err := svc.Transfer(context.Background(), 111, 222, 0, "alice", "bob")
	assert.Error(t, err)

	_, err = svc.Transfer(context.Background(), 111, 222, -5, "alice", "bob")
	assert.Error(t, err)
}
