package repository

import (
	"context"
	"testing"

	"croupier/models"
	"croupier/repository/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRoundRepository_CreateAndGetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accountRepo := NewAccountRepository(testDB.DB)
	repo := NewGameRoundRepository(testDB.DB)
	ctx := context.Background()

	_, err := accountRepo.Create(ctx, 123456, "testuser", 1000)
	require.NoError(t, err)

	round := testutil.CreateTestRound(123456, models.GameSlots, true)
	require.NoError(t, repo.Create(ctx, round))

	// The repository assigns a UUID when none is given
	_, err = uuid.Parse(round.ID)
	assert.NoError(t, err)
	assert.False(t, round.CreatedAt.IsZero())

	lost := testutil.CreateTestRound(123456, models.GameCoinFlip, false)
	require.NoError(t, repo.Create(ctx, lost))

	rounds, err := repo.GetByUser(ctx, 123456, 10)
	require.NoError(t, err)
	require.Len(t, rounds, 2)

	// Newest first
	assert.Equal(t, lost.ID, rounds[0].ID)
	assert.Equal(t, models.GameCoinFlip, rounds[0].Game)
	assert.False(t, rounds[0].Won)
	assert.Equal(t, int64(-100), rounds[0].NetDelta)
	assert.Equal(t, true, rounds[0].Details["test"])

	rounds, err = repo.GetByUser(ctx, 123456, 1)
	require.NoError(t, err)
	assert.Len(t, rounds, 1)
}

func TestBalanceHistoryRepository_RecordAndGetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accountRepo := NewAccountRepository(testDB.DB)
	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	_, err := accountRepo.Create(ctx, 123456, "testuser", 1000)
	require.NoError(t, err)

	history := testutil.CreateTestHistory(123456, models.TransactionTypeGameLoss)
	require.NoError(t, repo.Record(ctx, history))
	assert.NotZero(t, history.ID)
	assert.False(t, history.CreatedAt.IsZero())

	second := testutil.CreateTestHistory(123456, models.TransactionTypeDaily)
	second.ChangeAmount = 500
	require.NoError(t, repo.Record(ctx, second))

	histories, err := repo.GetByUser(ctx, 123456, 10)
	require.NoError(t, err)
	require.Len(t, histories, 2)
	assert.Equal(t, models.TransactionTypeDaily, histories[0].TransactionType)
	assert.Equal(t, true, histories[0].TransactionMetadata["test"])
}
