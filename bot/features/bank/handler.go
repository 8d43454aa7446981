package bank

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"croupier/bot/common"
	"croupier/game"
	"croupier/models"
	"croupier/service"
)

const historyPageSize = 10

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	account, err := f.ledgerService.GetOrCreateAccount(ctx, discordID, i.Member.User.Username)
	if err != nil {
		log.Errorf("Error getting account %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)

	message := fmt.Sprintf("%s, your current balance: **%s chips**", displayName, common.FormatChips(account.Balance))
	if err := common.RespondWithMessage(s, i, message, false); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}

func (f *Feature) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.ledgerService.ClaimDaily(ctx, discordID, i.Member.User.Username)
	if err != nil {
		var cooldown *service.DailyCooldownError
		if errors.As(err, &cooldown) {
			nextClaim := time.Now().Add(cooldown.Remaining)
			common.RespondWithError(s, i, fmt.Sprintf("You already claimed your daily reward. Next claim %s.",
				common.FormatDiscordTimestamp(nextClaim, "R")))
			return
		}
		log.Errorf("Error claiming daily for %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to claim daily reward. Please try again.")
		return
	}

	message := fmt.Sprintf("🪙 Daily reward claimed: **+%s chips**. New balance: **%s chips**",
		common.FormatChips(result.Reward), common.FormatChips(result.NewBalance))
	if err := common.RespondWithMessage(s, i, message, false); err != nil {
		log.Errorf("Error responding to daily command: %v", err)
	}
}

func (f *Feature) handleGive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var amount int64
	var recipient *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			recipient = opt.UserValue(s)
		}
	}

	if recipient == nil {
		common.RespondWithError(s, i, "Invalid recipient user.")
		return
	}
	if recipient.Bot {
		common.RespondWithError(s, i, "Bots have no use for chips.")
		return
	}
	if amount <= 0 {
		common.RespondWithError(s, i, "Amount must be positive.")
		return
	}

	fromDiscordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing sender Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	toDiscordID, err := strconv.ParseInt(recipient.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing recipient Discord ID %s: %v", recipient.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.ledgerService.Transfer(ctx, fromDiscordID, toDiscordID, amount, i.Member.User.Username, recipient.Username)
	if err != nil {
		if errors.Is(err, service.ErrSelfTransfer) {
			common.RespondWithError(s, i, "You cannot give chips to yourself.")
			return
		}
		var insufficient *game.InsufficientFundsError
		if errors.As(err, &insufficient) {
			common.RespondWithError(s, i, fmt.Sprintf("You only have **%s chips**, short by **%s**.",
				common.FormatChips(insufficient.Balance), common.FormatChips(insufficient.Shortfall())))
			return
		}
		log.Errorf("Error transferring %d chips from %d to %d: %v", amount, fromDiscordID, toDiscordID, err)
		common.RespondWithError(s, i, "Unable to process transfer. Please try again.")
		return
	}

	senderName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	recipientName := common.GetDisplayName(s, i.GuildID, recipient.ID)

	message := fmt.Sprintf("✅ **%s** gave **%s chips** to **%s**. Your balance: **%s chips**",
		senderName, common.FormatChips(result.Amount), recipientName, common.FormatChips(result.NewBalance))
	if err := common.RespondWithMessage(s, i, message, false); err != nil {
		log.Errorf("Error responding to give command: %v", err)
	}
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	entries, err := f.ledgerService.GetHistory(ctx, discordID, historyPageSize)
	if err != nil {
		log.Errorf("Error getting history for %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to retrieve history. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "📒 Balance History",
		Color: 0x5865f2,
	}

	if len(entries) == 0 {
		embed.Description = "No balance changes recorded yet."
	} else {
		var lines strings.Builder
		for _, entry := range entries {
			lines.WriteString(fmt.Sprintf("%s  **%s** %s → **%s chips**\n",
				common.FormatDiscordTimestamp(entry.CreatedAt, "R"),
				common.FormatSignedChips(entry.ChangeAmount),
				historyLabel(entry.TransactionType),
				common.FormatChips(entry.BalanceAfter)))
		}
		embed.Description = lines.String()
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to history command: %v", err)
	}
}

// historyLabel renders a transaction type for display
func historyLabel(t models.TransactionType) string {
	switch t {
	case models.TransactionTypeInitial:
		return "starting balance"
	case models.TransactionTypeDaily:
		return "daily reward"
	case models.TransactionTypeGameWin:
		return "game win"
	case models.TransactionTypeGameLoss:
		return "game loss"
	case models.TransactionTypeTransferIn:
		return "received"
	case models.TransactionTypeTransferOut:
		return "sent"
	case models.TransactionTypeAdminAdjust:
		return "admin adjustment"
	default:
		return string(t)
	}
}
