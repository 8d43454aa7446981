package stats

import (
	"github.com/bwmarrin/discordgo"

	"croupier/service"
)

// Feature owns the read-only statistics commands: leaderboard, stats, economy.
type Feature struct {
	statsService service.StatsService
}

func New(statsService service.StatsService) *Feature {
	return &Feature{
		statsService: statsService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "leaderboard":
		f.handleLeaderboard(s, i)
	case "stats":
		f.handleUserStats(s, i)
	case "economy":
		f.handleEconomy(s, i)
	}
}
