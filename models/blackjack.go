package models

// Blackjack outcomes as presented to users. Empty while a round is live.
const (
	BlackjackPlayerWin = "player_win"
	BlackjackNatural   = "player_blackjack"
	BlackjackDealerWin = "dealer_win"
	BlackjackPush      = "push"
	BlackjackExpired   = "expired"
)

// BlackjackView is a presentation snapshot of one blackjack session.
// While the round is live only the dealer's first card is revealed.
type BlackjackView struct {
	SessionID   string
	DiscordID   int64
	ChannelID   int64
	Stake       int64
	PlayerHand  []string
	DealerHand  []string
	PlayerValue int
	DealerValue int
	Done        bool
	Outcome     string
	NetDelta    int64
	NewBalance  int64
}
