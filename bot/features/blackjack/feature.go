package blackjack

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"croupier/bot/common"
	"croupier/models"
	"croupier/service"
)

// Component custom IDs for the in-round action buttons.
const (
	CustomIDHit   = "blackjack_hit"
	CustomIDStand = "blackjack_stand"
)

// Feature owns the multi-step blackjack game: the /blackjack command and
// the hit/stand button interactions.
type Feature struct {
	blackjackService service.BlackjackService
	policyService    service.ChannelPolicyService

	// session ID -> Discord message ID of the live round's embed, kept so
	// an expiring round can strip its buttons
	roundMessages sync.Map
}

func New(blackjackService service.BlackjackService, policyService service.ChannelPolicyService) *Feature {
	return &Feature{
		blackjackService: blackjackService,
		policyService:    policyService,
	}
}

// BindExpiry starts announcing timed-out sessions on the Discord session.
// Call once the websocket connection is open.
func (f *Feature) BindExpiry(s *discordgo.Session) {
	f.blackjackService.SetExpiryHandler(func(view *models.BlackjackView) {
		channelID := strconv.FormatInt(view.ChannelID, 10)

		if messageID, ok := f.roundMessages.LoadAndDelete(view.SessionID); ok {
			disabled := common.DisableComponents(actionButtons())
			edit := discordgo.NewMessageEdit(channelID, messageID.(string))
			edit.Components = &disabled
			if _, err := s.ChannelMessageEditComplex(edit); err != nil {
				log.Errorf("Error disabling buttons for expired blackjack session %s: %v", view.SessionID, err)
			}
		}

		message := fmt.Sprintf("⏰ <@%d>'s blackjack round timed out. The **%s chip** stake was not taken.",
			view.DiscordID, common.FormatChips(view.Stake))
		if _, err := s.ChannelMessageSend(channelID, message); err != nil {
			log.Errorf("Error announcing expired blackjack session %s: %v", view.SessionID, err)
		}
	})
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBlackjack(s, i)
}

// HandleInteraction handles hit/stand button clicks
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	switch i.MessageComponentData().CustomID {
	case CustomIDHit:
		f.handleAction(s, i, true)
	case CustomIDStand:
		f.handleAction(s, i, false)
	}
}
