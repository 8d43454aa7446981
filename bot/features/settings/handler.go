package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"croupier/bot/common"
	"croupier/service"
)

// handleGambling handles the /gambling channel allow-list subcommands
func (f *Feature) handleGambling(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: addchannel, removechannel, list, or clear")
		return
	}

	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	switch options[0].Name {
	case "addchannel":
		f.handleAddChannel(s, i, guildID, options[0].Options)
	case "removechannel":
		f.handleRemoveChannel(s, i, guildID, options[0].Options)
	case "list":
		f.handleListChannels(s, i, guildID)
	case "clear":
		f.handleClearChannels(s, i, guildID)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

func (f *Feature) handleAddChannel(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	channelID, ok := channelOption(s, i, options)
	if !ok {
		return
	}

	added, err := f.policyService.AddChannel(ctx, guildID, channelID)
	if err != nil {
		log.Errorf("Error adding gambling channel %d/%d: %v", guildID, channelID, err)
		common.RespondWithError(s, i, "Unable to update the channel list. Please try again.")
		return
	}

	if !added {
		common.RespondWithError(s, i, fmt.Sprintf("<#%d> is already on the gambling channel list.", channelID))
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Gambling commands are now allowed in <#%d>.", channelID), true); err != nil {
		log.Errorf("Error responding to gambling addchannel: %v", err)
	}
}

func (f *Feature) handleRemoveChannel(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	channelID, ok := channelOption(s, i, options)
	if !ok {
		return
	}

	removed, err := f.policyService.RemoveChannel(ctx, guildID, channelID)
	if err != nil {
		log.Errorf("Error removing gambling channel %d/%d: %v", guildID, channelID, err)
		common.RespondWithError(s, i, "Unable to update the channel list. Please try again.")
		return
	}

	if !removed {
		common.RespondWithError(s, i, fmt.Sprintf("<#%d> is not on the gambling channel list.", channelID))
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Removed <#%d> from the gambling channel list.", channelID), true); err != nil {
		log.Errorf("Error responding to gambling removechannel: %v", err)
	}
}

func (f *Feature) handleListChannels(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	ctx := context.Background()

	channels, err := f.policyService.ListChannels(ctx, guildID)
	if err != nil {
		log.Errorf("Error listing gambling channels for %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to retrieve the channel list. Please try again.")
		return
	}

	var message string
	if len(channels) == 0 {
		message = "No gambling channels configured. Gambling commands are allowed everywhere."
	} else {
		mentions := make([]string, 0, len(channels))
		for _, channelID := range channels {
			mentions = append(mentions, fmt.Sprintf("<#%d>", channelID))
		}
		message = "Gambling commands are restricted to: " + strings.Join(mentions, ", ")
	}

	if err := common.RespondWithMessage(s, i, message, true); err != nil {
		log.Errorf("Error responding to gambling list: %v", err)
	}
}

func (f *Feature) handleClearChannels(s *discordgo.Session, i *discordgo.InteractionCreate, guildID int64) {
	ctx := context.Background()

	removed, err := f.policyService.ClearChannels(ctx, guildID)
	if err != nil {
		log.Errorf("Error clearing gambling channels for %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to clear the channel list. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Cleared %d channel(s). Gambling commands are now allowed everywhere.", removed), true); err != nil {
		log.Errorf("Error responding to gambling clear: %v", err)
	}
}

// handleAward applies an administrative balance adjustment
func (f *Feature) handleAward(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var amount int64
	var reason string
	var targetUser *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			targetUser = opt.UserValue(s)
		case "amount":
			amount = opt.IntValue()
		case "reason":
			reason = opt.StringValue()
		}
	}

	if targetUser == nil {
		common.RespondWithError(s, i, "Invalid target user.")
		return
	}
	if amount == 0 {
		common.RespondWithError(s, i, "Amount must be non-zero. Use a negative amount to deduct.")
		return
	}

	targetID, err := strconv.ParseInt(targetUser.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing target Discord ID %s: %v", targetUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	account, err := f.ledgerService.AdjustBalance(ctx, targetID, targetUser.Username, amount, reason)
	if err != nil {
		log.Errorf("Error adjusting balance of %d by %d: %v", targetID, amount, err)
		common.RespondWithError(s, i, "Unable to adjust the balance. Please try again.")
		return
	}

	targetName := common.GetDisplayName(s, i.GuildID, targetUser.ID)
	message := fmt.Sprintf("Adjusted **%s**'s balance by **%s chips**. New balance: **%s chips**",
		targetName, common.FormatSignedChips(amount), common.FormatChips(account.Balance))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to award command: %v", err)
	}
}

// handleReset restores an account to the starting balance
func (f *Feature) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var targetUser *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			targetUser = opt.UserValue(s)
		}
	}

	if targetUser == nil {
		common.RespondWithError(s, i, "Invalid target user.")
		return
	}

	targetID, err := strconv.ParseInt(targetUser.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing target Discord ID %s: %v", targetUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	account, err := f.ledgerService.ResetAccount(ctx, targetID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			common.RespondWithError(s, i, fmt.Sprintf("**%s** has no account to reset.", targetUser.Username))
			return
		}
		log.Errorf("Error resetting account %d: %v", targetID, err)
		common.RespondWithError(s, i, "Unable to reset the account. Please try again.")
		return
	}

	targetName := common.GetDisplayName(s, i.GuildID, targetUser.ID)
	message := fmt.Sprintf("Reset **%s**'s account to **%s chips**.",
		targetName, common.FormatChips(account.Balance))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to reset command: %v", err)
	}
}

// channelOption extracts the channel argument, defaulting to the current
// channel when omitted
func channelOption(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) (int64, bool) {
	channelIDStr := i.ChannelID
	for _, opt := range options {
		if opt.Name == "channel" {
			if ch := opt.ChannelValue(s); ch != nil {
				channelIDStr = ch.ID
			}
		}
	}

	channelID, err := strconv.ParseInt(channelIDStr, 10, 64)
	if err != nil {
		log.Errorf("Error parsing channel ID %s: %v", channelIDStr, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return 0, false
	}

	return channelID, true
}
