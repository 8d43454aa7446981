package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"croupier/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_GetByDiscordID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("account not found", func(t *testing.T) {
		account, err := repo.GetByDiscordID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("account found", func(t *testing.T) {
		created, err := repo.Create(ctx, 123456, "testuser", 1000)
		require.NoError(t, err)

		account, err := repo.GetByDiscordID(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, account)

		assert.Equal(t, created.DiscordID, account.DiscordID)
		assert.Equal(t, "testuser", account.Username)
		assert.Equal(t, int64(1000), account.Balance)
		assert.Equal(t, int64(1000), account.TotalEarned, "starting balance seeds total earned")
		assert.Zero(t, account.TotalSpent)
		assert.Nil(t, account.LastDailyClaim)
	})
}

func TestAccountRepository_Create_DuplicateFails(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 123456, "testuser", 1000)
	require.NoError(t, err)

	_, err = repo.Create(ctx, 123456, "testuser", 1000)
	assert.Error(t, err)
}

func TestAccountRepository_ApplyDelta(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 123456, "testuser", 1000)
	require.NoError(t, err)

	t.Run("positive delta accrues to total earned", func(t *testing.T) {
		account, err := repo.ApplyDelta(ctx, 123456, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), account.Balance)
		assert.Equal(t, int64(1500), account.TotalEarned)
		assert.Equal(t, int64(0), account.TotalSpent)
	})

	t.Run("negative delta accrues to total spent", func(t *testing.T) {
		account, err := repo.ApplyDelta(ctx, 123456, -300)
		require.NoError(t, err)
		assert.Equal(t, int64(1200), account.Balance)
		assert.Equal(t, int64(1500), account.TotalEarned)
		assert.Equal(t, int64(300), account.TotalSpent)
	})

	t.Run("overdraft affects no rows", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, 123456, -999999)
		assert.Error(t, err)

		account, err := repo.GetByDiscordID(ctx, 123456)
		require.NoError(t, err)
		assert.Equal(t, int64(1200), account.Balance)
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, 999999, 100)
		assert.Error(t, err)
	})
}

// The ledger identity balance = earned - spent must hold across any
// interleaving of concurrent deltas; creation seeds earned with the
// starting balance so the identity holds from the first row.
func TestAccountRepository_ApplyDelta_ConcurrentKeepsIdentity(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	const starting = int64(100000)
	_, err := repo.Create(ctx, 123456, "testuser", starting)
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		delta := int64(100)
		if i%2 == 1 {
			delta = -100
		}
		go func(d int64) {
			defer wg.Done()
			_, err := repo.ApplyDelta(ctx, 123456, d)
			assert.NoError(t, err)
		}(delta)
	}
	wg.Wait()

	account, err := repo.GetByDiscordID(ctx, 123456)
	require.NoError(t, err)
	assert.Equal(t, starting, account.Balance)
	assert.Equal(t, account.TotalEarned-account.TotalSpent, account.Balance)
	assert.Equal(t, starting+1000, account.TotalEarned)
	assert.Equal(t, int64(1000), account.TotalSpent)
}

func TestAccountRepository_RecordGameResult(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 123456, "testuser", 1000)
	require.NoError(t, err)

	require.NoError(t, repo.RecordGameResult(ctx, 123456, true))
	require.NoError(t, repo.RecordGameResult(ctx, 123456, true))
	require.NoError(t, repo.RecordGameResult(ctx, 123456, false))

	account, err := repo.GetByDiscordID(ctx, 123456)
	require.NoError(t, err)
	assert.Equal(t, int64(2), account.GamblingWins)
	assert.Equal(t, int64(1), account.GamblingLosses)
}

func TestAccountRepository_SetLastDailyClaim(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 123456, "testuser", 1000)
	require.NoError(t, err)

	claimedAt := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.SetLastDailyClaim(ctx, 123456, claimedAt))

	account, err := repo.GetByDiscordID(ctx, 123456)
	require.NoError(t, err)
	require.NotNil(t, account.LastDailyClaim)
	assert.WithinDuration(t, claimedAt, *account.LastDailyClaim, time.Second)
}

func TestAccountRepository_Reset(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 123456, "testuser", 1000)
	require.NoError(t, err)
	_, err = repo.ApplyDelta(ctx, 123456, 500)
	require.NoError(t, err)
	require.NoError(t, repo.RecordGameResult(ctx, 123456, true))
	require.NoError(t, repo.SetLastDailyClaim(ctx, 123456, time.Now()))

	account, err := repo.Reset(ctx, 123456, 1000)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), account.Balance)
	assert.Equal(t, int64(1000), account.TotalEarned, "reset matches a freshly created account")
	assert.Zero(t, account.TotalSpent)
	assert.Zero(t, account.GamblingWins)
	assert.Zero(t, account.GamblingLosses)
	assert.Nil(t, account.LastDailyClaim)
}

func TestAccountRepository_GetAllOrdersByBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 1, "poor", 100)
	require.NoError(t, err)
	_, err = repo.Create(ctx, 2, "rich", 9000)
	require.NoError(t, err)
	_, err = repo.Create(ctx, 3, "middle", 4000)
	require.NoError(t, err)

	accounts, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "rich", accounts[0].Username)
	assert.Equal(t, "middle", accounts[1].Username)
	assert.Equal(t, "poor", accounts[2].Username)
}

func TestAccountRepository_GetEconomyStats(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty economy", func(t *testing.T) {
		stats, err := repo.GetEconomyStats(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.TotalAccounts)
		assert.Zero(t, stats.TotalCurrency)
	})

	t.Run("aggregates", func(t *testing.T) {
		_, err := repo.Create(ctx, 1, "a", 100)
		require.NoError(t, err)
		_, err = repo.Create(ctx, 2, "b", 300)
		require.NoError(t, err)

		stats, err := repo.GetEconomyStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalAccounts)
		assert.Equal(t, int64(400), stats.TotalCurrency)
		assert.InDelta(t, 200.0, stats.AverageBalance, 0.01)
		assert.Equal(t, int64(300), stats.RichestBalance)
		assert.Equal(t, int64(100), stats.PoorestBalance)
	})
}
