package games

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
)

func (f *Feature) handleCoinFlip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if !checkChannel(ctx, f.policyService, s, i) {
		return
	}

	var stakeExpr, call string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "stake":
			stakeExpr = opt.StringValue()
		case "call":
			call = opt.StringValue()
		}
	}

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.gamesService.PlayCoinFlip(ctx, discordID, i.Member.User.Username, stakeExpr, call)
	if err != nil {
		respondWagerError(s, i, err)
		return
	}

	side := "🪙"
	if result.Landed == game.Tails {
		side = "🔘"
	}

	embed := &discordgo.MessageEmbed{
		Title: "🪙 Coin Flip",
		Description: fmt.Sprintf("You called **%s**. The coin landed on %s **%s**.\n\n%s",
			result.Call, side, result.Landed,
			common.FormatGameResult(result.Won, result.NetDelta, result.NewBalance)),
		Color: resultColor(result.Won),
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to coinflip command: %v", err)
	}
}

func (f *Feature) handleRoll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if !checkChannel(ctx, f.policyService, s, i) {
		return
	}

	var stakeExpr string
	var target int
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "stake":
			stakeExpr = opt.StringValue()
		case "target":
			target = int(opt.IntValue())
		}
	}

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.gamesService.PlayTargetRoll(ctx, discordID, i.Member.User.Username, stakeExpr, target)
	if err != nil {
		respondWagerError(s, i, err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🎲 Target Roll",
		Description: fmt.Sprintf("Target **%d** or higher (%.1f%% to win, pays %.2fx). You rolled **%d**.\n\n%s",
			result.Target, result.WinChance*100, result.Multiplier, result.Roll,
			common.FormatGameResult(result.Won, result.NetDelta, result.NewBalance)),
		Color: resultColor(result.Won),
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to roll command: %v", err)
	}
}

func (f *Feature) handleSlots(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if !checkChannel(ctx, f.policyService, s, i) {
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

	result, err := f.gamesService.PlaySlots(ctx, discordID, i.Member.User.Username, stakeExpr)
	if err != nil {
		respondWagerError(s, i, err)
		return
	}

	var outcome string
	if result.Won {
		outcome = fmt.Sprintf("**%dx payout!** %s",
			result.Multiplier, common.FormatGameResult(true, result.NetDelta, result.NewBalance))
	} else {
		outcome = common.FormatGameResult(false, result.NetDelta, result.NewBalance)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎰 Slots",
		Description: fmt.Sprintf("%s\n%s", formatGrid(result.Grid), outcome),
		Color:       resultColor(result.Won),
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Error responding to slots command: %v", err)
	}
}

func (f *Feature) handleSlotOdds(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var table strings.Builder
	table.WriteString("```\n")
	table.WriteString(fmt.Sprintf("%-8s %-10s %-12s %s\n", "Symbol", "Reel %", "Triple %", "Pays"))
	table.WriteString(strings.Repeat("-", 40) + "\n")
	for _, odd := range game.SlotOdds() {
		table.WriteString(fmt.Sprintf("%-8s %-10.1f %-12.3f %dx\n",
			odd.Symbol, odd.ReelChance*100, odd.TripleChance*100, odd.TripleMultiplier))
	}
	table.WriteString("```")

	embed := &discordgo.MessageEmbed{
		Title:       "🎰 Slot Machine Odds",
		Description: table.String(),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Any pair",
				Value: fmt.Sprintf("%.1f%% chance, pays %dx", game.PairChance()*100, game.PairMultiplier),
			},
		},
		Color: 0x5865f2,
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, true); err != nil {
		log.Errorf("Error responding to slotodds command: %v", err)
	}
}

// formatGrid renders the 3x3 grid with the middle payline marked
func formatGrid(grid [3][3]string) string {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		if row == 1 {
			b.WriteString("▶ ")
		} else {
			b.WriteString("   ")
		}
		b.WriteString(strings.Join(grid[row][:], " "))
		if row == 1 {
			b.WriteString(" ◀")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func resultColor(won bool) int {
	if won {
		return 0x57f287
	}
	return 0xed4245
}

// respondWagerError maps a rejected wager to an ephemeral message
func respondWagerError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	var insufficient *game.InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		common.RespondWithError(s, i, fmt.Sprintf("You only have **%s chips**, short by **%s**.",
			common.FormatChips(insufficient.Balance), common.FormatChips(insufficient.Shortfall())))
	case errors.Is(err, game.ErrInvalidStakeFormat):
		common.RespondWithError(s, i, "Invalid stake. Use a number, `all`, or `half`.")
	case errors.Is(err, game.ErrNonPositiveStake):
		common.RespondWithError(s, i, "Stake must be a positive amount.")
	case errors.Is(err, game.ErrTargetOutOfRange):
		common.RespondWithError(s, i, "Target must be between 1 and 99.")
	default:
		log.Errorf("Error resolving wager: %v", err)
		common.RespondWithError(s, i, "Unable to place wager. Please try again.")
	}
}
