package settings

import (
	"github.com/bwmarrin/discordgo"

	"croupier/bot/common"
	"croupier/service"
)

// Feature owns the administrative commands: the gambling channel
// allow-list and account adjustments.
type Feature struct {
	policyService service.ChannelPolicyService
	ledgerService service.LedgerService
}

func New(policyService service.ChannelPolicyService, ledgerService service.LedgerService) *Feature {
	return &Feature{
		policyService: policyService,
		ledgerService: ledgerService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(i) {
		common.RespondWithError(s, i, "❌ You need administrator permissions to use this command")
		return
	}

	switch i.ApplicationCommandData().Name {
	case "gambling":
		f.handleGambling(s, i)
	case "award":
		f.handleAward(s, i)
	case "reset":
		f.handleReset(s, i)
	}
}
