package games

import (
	"context"
	"errors"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"croupier/bot/common"
	"croupier/service"
)

// Feature owns the single-step games: coinflip, roll, slots, slotodds.
type Feature struct {
	gamesService  service.GamesService
	policyService service.ChannelPolicyService
}

func New(gamesService service.GamesService, policyService service.ChannelPolicyService) *Feature {
	return &Feature{
		gamesService:  gamesService,
		policyService: policyService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "coinflip":
		f.handleCoinFlip(s, i)
	case "roll":
		f.handleRoll(s, i)
	case "slots":
		f.handleSlots(s, i)
	case "slotodds":
		f.handleSlotOdds(s, i)
	}
}

// checkChannel enforces the guild's gambling channel allow-list before a
// wager is accepted. It responds to the interaction itself on rejection.
func checkChannel(ctx context.Context, policyService service.ChannelPolicyService, s *discordgo.Session, i *discordgo.InteractionCreate) bool {
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

	if err := policyService.CheckAllowed(ctx, guildID, channelID); err != nil {
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
