package testutil

import (
	"croupier/models"
)

// CreateTestHistory creates a balance history entry with default amounts
func CreateTestHistory(discordID int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   1000,
		BalanceAfter:    900,
		ChangeAmount:    -100,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestRound creates a resolved game round with default values
func CreateTestRound(discordID int64, kind models.GameKind, won bool) *models.GameRound {
	netDelta := int64(100)
	if !won {
		netDelta = -100
	}
	return &models.GameRound{
		DiscordID: discordID,
		Game:      kind,
		Stake:     100,
		Won:       won,
		NetDelta:  netDelta,
		Details: map[string]any{
			"test": true,
		},
	}
}
