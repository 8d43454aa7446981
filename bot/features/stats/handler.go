package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"croupier/bot/common"
	"croupier/models"
	"croupier/service"
)

const leaderboardSize = 10

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	entries, err := f.statsService.GetScoreboard(ctx, leaderboardSize)
	if err != nil {
		log.Errorf("Error getting scoreboard: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve leaderboard. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🏆 Chip Leaderboard",
		Color: 0xf1c40f,
	}

	if len(entries) == 0 {
		embed.Description = "No accounts yet. Play a game to open one."
	} else {
		var table strings.Builder
		table.WriteString("```\n")
		table.WriteString(fmt.Sprintf("%-4s %-20s %-12s %s\n", "", "Player", "Balance", "Win %"))
		table.WriteString(strings.Repeat("-", 46) + "\n")

		for _, entry := range entries {
			displayName := common.GetDisplayNameInt64(s, i.GuildID, entry.DiscordID)
			if len(displayName) > 20 {
				displayName = displayName[:17] + "..."
			}

			winRate := "-"
			if entry.HasWinRate {
				winRate = fmt.Sprintf("%.1f", entry.WinRate)
			}

			table.WriteString(fmt.Sprintf("%-4s %-20s %-12s %s\n",
				rankBadge(entry.Rank), displayName, common.FormatChips(entry.Balance), winRate))
		}
		table.WriteString("```")
		embed.Description = table.String()
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}

func (f *Feature) handleUserStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	// Default to the invoking user
	targetUser := i.Member.User
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			targetUser = opt.UserValue(s)
		}
	}

	targetID, err := strconv.ParseInt(targetUser.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", targetUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	stats, err := f.statsService.GetUserStats(ctx, targetID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			common.RespondWithError(s, i, fmt.Sprintf("**%s** has no account yet.", targetUser.Username))
			return
		}
		log.Errorf("Error getting stats for %d: %v", targetID, err)
		common.RespondWithError(s, i, "Unable to retrieve stats. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, targetUser.ID)
	embed := buildUserStatsEmbed(stats, displayName)

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to stats command: %v", err)
	}
}

func (f *Feature) handleEconomy(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	stats, err := f.statsService.GetEconomyStats(ctx)
	if err != nil {
		log.Errorf("Error getting economy stats: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve economy stats. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🏦 Economy Overview",
		Color: 0x5865f2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Accounts", Value: common.FormatChips(stats.TotalAccounts), Inline: true},
			{Name: "Chips in circulation", Value: common.FormatChips(stats.TotalCurrency), Inline: true},
			{Name: "Average balance", Value: fmt.Sprintf("%.1f", stats.AverageBalance), Inline: true},
			{Name: "Richest", Value: common.FormatChips(stats.RichestBalance), Inline: true},
			{Name: "Poorest", Value: common.FormatChips(stats.PoorestBalance), Inline: true},
		},
	}

	if stats.TotalAccounts == 0 {
		embed.Description = "No accounts yet."
		embed.Fields = nil
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to economy command: %v", err)
	}
}

func buildUserStatsEmbed(stats *models.UserStats, displayName string) *discordgo.MessageEmbed {
	account := stats.Account

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 Stats for %s", displayName),
		Color: 0x5865f2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Balance", Value: common.FormatChips(account.Balance) + " chips", Inline: true},
			{Name: "Total earned", Value: common.FormatChips(account.TotalEarned), Inline: true},
			{Name: "Total spent", Value: common.FormatChips(account.TotalSpent), Inline: true},
			{Name: "Record", Value: fmt.Sprintf("%d W / %d L", account.GamblingWins, account.GamblingLosses), Inline: true},
		},
	}

	if winRate, ok := account.WinRate(); ok {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Win rate", Value: fmt.Sprintf("%.1f%%", winRate), Inline: true,
		})
	}

	if len(stats.RecentRounds) > 0 {
		var lines strings.Builder
		for _, round := range stats.RecentRounds {
			lines.WriteString(fmt.Sprintf("%s %s, staked %s, %s\n",
				roundBadge(round), round.Game, common.FormatChips(round.Stake),
				common.FormatSignedChips(round.NetDelta)))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Recent rounds", Value: lines.String(),
		})
	}

	return embed
}

func roundBadge(round *models.GameRound) string {
	switch {
	case round.Push:
		return "🤝"
	case round.Won:
		return "🟢"
	default:
		return "🔴"
	}
}

func rankBadge(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", rank)
	}
}
