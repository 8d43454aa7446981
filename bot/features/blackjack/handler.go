package blackjack

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"croupier/bot/common"
	"croupier/game"
	"croupier/models"
	"croupier/service"
)

func (f *Feature) handleBlackjack(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if !f.checkChannel(ctx, s, i) {
		return
	}

	var stakeExpr string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "stake" {
			stakeExpr = opt.StringValue()
		}
	}

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	channelID, err := strconv.ParseInt(i.ChannelID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing channel ID %s: %v", i.ChannelID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	view, err := f.blackjackService.StartRound(ctx, discordID, i.Member.User.Username, stakeExpr, channelID)
	if err != nil {
		f.respondStartError(s, i, err)
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	embed := buildEmbed(view, displayName)

	var components []discordgo.MessageComponent
	if !view.Done {
		components = actionButtons()
	}

	if err := common.RespondWithEmbed(s, i, embed, components, false); err != nil {
		log.Errorf("Error responding to blackjack command: %v", err)
		return
	}

	if !view.Done {
		msg, err := s.InteractionResponse(i.Interaction)
		if err != nil {
			log.Errorf("Error fetching blackjack round message: %v", err)
			return
		}
		f.roundMessages.Store(view.SessionID, msg.ID)
	}
}

func (f *Feature) handleAction(s *discordgo.Session, i *discordgo.InteractionCreate, hit bool) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	channelID, err := strconv.ParseInt(i.ChannelID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing channel ID %s: %v", i.ChannelID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var view *models.BlackjackView
	if hit {
		view, err = f.blackjackService.Hit(ctx, discordID, channelID)
	} else {
		view, err = f.blackjackService.Stand(ctx, discordID, channelID)
	}
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			common.RespondWithError(s, i, "You have no blackjack round in progress here. Start one with `/blackjack`.")
			return
		}
		log.Errorf("Error resolving blackjack action for %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to play that action. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	embed := buildEmbed(view, displayName)

	components := []discordgo.MessageComponent{}
	if !view.Done {
		components = actionButtons()
	} else {
		f.roundMessages.Delete(view.SessionID)
	}

	if err := common.UpdateComponentMessage(s, i, embed, components); err != nil {
		log.Errorf("Error updating blackjack message: %v", err)
	}
}

// checkChannel enforces the gambling channel allow-list
func (f *Feature) checkChannel(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return false
	}

	channelID, err := strconv.ParseInt(i.ChannelID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing channel ID %s: %v", i.ChannelID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return false
	}

	if err := f.policyService.CheckAllowed(ctx, guildID, channelID); err != nil {
		if errors.Is(err, service.ErrChannelNotAllowed) {
			common.RespondWithError(s, i, "🚫 Gambling commands are not allowed in this channel.")
			return false
		}
		log.Errorf("Error checking gambling channel %d/%d: %v", guildID, channelID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return false
	}

	return true
}

func (f *Feature) respondStartError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	var insufficient *game.InsufficientFundsError
	switch {
	case errors.Is(err, service.ErrSessionInProgress):
		common.RespondWithError(s, i, "You already have a blackjack round in progress in this channel. Finish it first.")
	case errors.As(err, &insufficient):
		common.RespondWithError(s, i, fmt.Sprintf("You only have **%s chips**, short by **%s**.",
			common.FormatChips(insufficient.Balance), common.FormatChips(insufficient.Shortfall())))
	case errors.Is(err, game.ErrInvalidStakeFormat):
		common.RespondWithError(s, i, "Invalid stake. Use a number, `all`, or `half`.")
	case errors.Is(err, game.ErrNonPositiveStake):
		common.RespondWithError(s, i, "Stake must be a positive amount.")
	default:
		log.Errorf("Error starting blackjack round: %v", err)
		common.RespondWithError(s, i, "Unable to deal a round. Please try again.")
	}
}

func actionButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		&discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				&discordgo.Button{
					Label:    "Hit",
					Style:    discordgo.PrimaryButton,
					CustomID: CustomIDHit,
				},
				&discordgo.Button{
					Label:    "Stand",
					Style:    discordgo.SecondaryButton,
					CustomID: CustomIDStand,
				},
			},
		},
	}
}

// buildEmbed renders a session snapshot. Live rounds show only the dealer's
// up card; finished rounds show both full hands and the settled outcome.
func buildEmbed(view *models.BlackjackView, displayName string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🃏 Blackjack — %s chips", common.FormatChips(view.Stake)),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   fmt.Sprintf("%s (%d)", displayName, view.PlayerValue),
				Value:  strings.Join(view.PlayerHand, "  "),
				Inline: true,
			},
		},
	}

	if view.Done {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Dealer (%d)", view.DealerValue),
			Value:  strings.Join(view.DealerHand, "  "),
			Inline: true,
		})
		embed.Description = outcomeLine(view)
		embed.Color = outcomeColor(view.Outcome)
	} else {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Dealer",
			Value:  strings.Join(view.DealerHand, "  ") + "  🂠",
			Inline: true,
		})
		embed.Description = "Hit to draw another card, stand to play out the dealer."
		embed.Color = 0x5865f2
	}

	return embed
}

func outcomeLine(view *models.BlackjackView) string {
	switch view.Outcome {
	case models.BlackjackNatural:
		return fmt.Sprintf("🎉 **Blackjack!** You won **%s chips**. New balance: **%s chips**",
			common.FormatChips(view.NetDelta), common.FormatChips(view.NewBalance))
	case models.BlackjackPlayerWin:
		return common.FormatGameResult(true, view.NetDelta, view.NewBalance)
	case models.BlackjackDealerWin:
		return common.FormatGameResult(false, view.NetDelta, view.NewBalance)
	case models.BlackjackPush:
		return fmt.Sprintf("🤝 **Push.** Your stake comes back. Balance: **%s chips**",
			common.FormatChips(view.NewBalance))
	case models.BlackjackExpired:
		return "⏰ Round timed out. The stake was not taken."
	default:
		return ""
	}
}

func outcomeColor(outcome string) int {
	switch outcome {
	case models.BlackjackPlayerWin, models.BlackjackNatural:
		return 0x57f287
	case models.BlackjackDealerWin:
		return 0xed4245
	default:
		return 0x99aab5
	}
}
