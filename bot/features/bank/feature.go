package bank

import (
	"github.com/bwmarrin/discordgo"

	"croupier/service"
)

// Feature owns the account-facing commands: balance, daily, give, history.
type Feature struct {
	ledgerService service.LedgerService
}

func New(ledgerService service.LedgerService) *Feature {
	return &Feature{
		ledgerService: ledgerService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "balance":
		f.handleBalance(s, i)
	case "daily":
		f.handleDaily(s, i)
	case "give":
		f.handleGive(s, i)
	case "history":
		f.handleHistory(s, i)
	}
}
