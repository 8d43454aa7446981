package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"croupier/bot/features/bank"
	"croupier/bot/features/blackjack"
	"croupier/bot/features/games"
	"croupier/bot/features/settings"
	"croupier/bot/features/stats"
	"croupier/events"
	"croupier/service"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	eventBus *events.Bus

	bankFeature      *bank.Feature
	gamesFeature     *games.Feature
	blackjackFeature *blackjack.Feature
	statsFeature     *stats.Feature
	settingsFeature  *settings.Feature
}

func New(config Config, ledgerService service.LedgerService, gamesService service.GamesService, blackjackService service.BlackjackService, policyService service.ChannelPolicyService, statsService service.StatsService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		config:           config,
		session:          dg,
		eventBus:         eventBus,
		bankFeature:      bank.New(ledgerService),
		gamesFeature:     games.New(gamesService, policyService),
		blackjackFeature: blackjack.New(blackjackService, policyService),
		statsFeature:     stats.New(statsService),
		settingsFeature:  settings.New(policyService, ledgerService),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component interaction handlers
	dg.AddHandler(bot.blackjackFeature.HandleInteraction)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Announce timed-out blackjack rounds in their channel
	bot.blackjackFeature.BindExpiry(dg)

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance", "daily", "give", "history":
		b.bankFeature.HandleCommand(s, i)
	case "coinflip", "roll", "slots", "slotodds":
		b.gamesFeature.HandleCommand(s, i)
	case "blackjack":
		b.blackjackFeature.HandleCommand(s, i)
	case "leaderboard", "stats", "economy":
		b.statsFeature.HandleCommand(s, i)
	case "gambling", "award", "reset":
		b.settingsFeature.HandleCommand(s, i)
	}
}

func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your current chip balance",
		},
		{
			Name:        "daily",
			Description: "Claim your daily chip reward",
		},
		{
			Name:        "give",
			Description: "Give chips to another player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to give chips to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount of chips to give",
					Required:    true,
					MinValue:    &commandMinOne,
				},
			},
		},
		{
			Name:        "history",
			Description: "Show your recent balance changes",
		},
		{
			Name:        "coinflip",
			Description: "Wager chips on a coin flip",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "stake",
					Description: "Amount of chips, 'all', or 'half'",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "call",
					Description: "Side to call (defaults to heads)",
					Required:    false,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "heads", Value: "heads"},
						{Name: "tails", Value: "tails"},
					},
				},
			},
		},
		{
			Name:        "roll",
			Description: "Wager chips on rolling at or above a target",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "stake",
					Description: "Amount of chips, 'all', or 'half'",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "target",
					Description: "Target roll from 1 to 99, higher pays more",
					Required:    true,
					MinValue:    &commandMinOne,
					MaxValue:    99,
				},
			},
		},
		{
			Name:        "slots",
			Description: "Wager chips on a slot machine spin",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "stake",
					Description: "Amount of chips, 'all', or 'half'",
					Required:    true,
				},
			},
		},
		{
			Name:        "slotodds",
			Description: "Show the slot machine odds table",
		},
		{
			Name:        "blackjack",
			Description: "Play a round of blackjack against the dealer",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "stake",
					Description: "Amount of chips, 'all', or 'half'",
					Required:    true,
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show the richest players",
		},
		{
			Name:        "stats",
			Description: "Show detailed statistics for a player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to check stats for (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "economy",
			Description: "Show economy-wide statistics",
		},
		{
			Name:        "gambling",
			Description: "Manage the gambling channel allow-list (admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "addchannel",
					Description: "Allow gambling commands in a channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Channel to allow (defaults to this one)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "removechannel",
					Description: "Remove a channel from the allow-list",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Channel to remove (defaults to this one)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List the allowed gambling channels",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear",
					Description: "Clear the allow-list, allowing gambling everywhere",
				},
			},
		},
		{
			Name:        "award",
			Description: "Adjust a player's balance (admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to adjust",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Chips to add (negative to deduct)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Reason for the adjustment",
					Required:    false,
				},
			},
		},
		{
			Name:        "reset",
			Description: "Reset a player's account to the starting balance (admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to reset",
					Required:    true,
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

var commandMinOne = float64(1)
