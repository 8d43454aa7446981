package game

import (
	"errors"
)

// Phase is the blackjack table state
type Phase string

const (
	PhaseDealt      Phase = "dealt"
	PhasePlayerTurn Phase = "player_turn"
	PhasePlayerBust Phase = "player_bust"
	PhaseDealerTurn Phase = "dealer_turn"
	PhaseResolved   Phase = "resolved"
)

// Action is a player move during their turn
type Action string

const (
	ActionHit   Action = "hit"
	ActionStand Action = "stand"
)

// Result is the terminal outcome of a blackjack round
type Result string

const (
	ResultPlayerWin       Result = "player_win"
	ResultPlayerBlackjack Result = "player_blackjack"
	ResultDealerWin       Result = "dealer_win"
	ResultPush            Result = "push"
)

const dealerStandsAt = 17

var (
	errNotPlayerTurn = errors.New("blackjack: not the player's turn")
	errNotResolved   = errors.New("blackjack: round not resolved")
)

// Table is the pure blackjack state machine for one round: a shuffled
// deck, a player hand, a dealer hand and the current phase. It performs
// no I/O and applies no balance changes.
type Table struct {
	deck   []Card
	player []Card
	dealer []Card
	phase  Phase
	result Result
}

// NewTable deals a fresh round from a deck shuffled with r.
func NewTable(r Source) *Table {
	return NewTableWithDeck(ShuffledDeck(r))
}

// NewTableWithDeck deals a fresh round from a prepared deck. Cards are
// drawn from the front, two to the player and then two to the dealer.
func NewTableWithDeck(deck []Card) *Table {
	t := &Table{deck: deck, phase: PhaseDealt}
	t.player = append(t.player, t.draw(), t.draw())
	t.dealer = append(t.dealer, t.draw(), t.draw())

	// A two-card 21 resolves immediately: blackjack, or a push when the
	// dealer also has one.
	if HandValue(t.player) == 21 {
		if HandValue(t.dealer) == 21 {
			t.result = ResultPush
		} else {
			t.result = ResultPlayerBlackjack
		}
		t.phase = PhaseResolved
		return t
	}

	t.phase = PhasePlayerTurn
	return t
}

func (t *Table) draw() Card {
	c := t.deck[0]
	t.deck = t.deck[1:]
	return c
}

// Phase returns the current phase.
func (t *Table) Phase() Phase { return t.phase }

// PlayerHand returns a copy of the player's cards.
func (t *Table) PlayerHand() []Card { return append([]Card(nil), t.player...) }

// DealerHand returns a copy of the dealer's cards.
func (t *Table) DealerHand() []Card { return append([]Card(nil), t.dealer...) }

// PlayerValue returns the player's current hand value.
func (t *Table) PlayerValue() int { return HandValue(t.player) }

// DealerValue returns the dealer's current hand value.
func (t *Table) DealerValue() int { return HandValue(t.dealer) }

// DealerUpCard returns the dealer's visible first card.
func (t *Table) DealerUpCard() Card { return t.dealer[0] }

// Hit draws one card for the player. A value over 21 busts the player and
// resolves the round as a dealer win without a dealer turn; reaching
// exactly 21 stands automatically.
func (t *Table) Hit() error {
	if t.phase != PhasePlayerTurn {
		return errNotPlayerTurn
	}
	t.player = append(t.player, t.draw())

	switch value := HandValue(t.player); {
	case value > 21:
		// Bust short-circuits to a loss; the dealer never plays.
		t.phase = PhasePlayerBust
		t.result = ResultDealerWin
	case value == 21:
		return t.Stand()
	}
	return nil
}

// Stand ends the player's turn and plays out the dealer: hit below 17,
// stand at 17 or more, then compare hands.
func (t *Table) Stand() error {
	if t.phase != PhasePlayerTurn {
		return errNotPlayerTurn
	}
	t.phase = PhaseDealerTurn

	for HandValue(t.dealer) < dealerStandsAt {
		t.dealer = append(t.dealer, t.draw())
	}

	playerValue := HandValue(t.player)
	dealerValue := HandValue(t.dealer)
	switch {
	case dealerValue > 21 || playerValue > dealerValue:
		t.result = ResultPlayerWin
	case playerValue < dealerValue:
		t.result = ResultDealerWin
	default:
		t.result = ResultPush
	}
	t.phase = PhaseResolved
	return nil
}

// Apply forwards a player action to the table.
func (t *Table) Apply(action Action) error {
	if action == ActionHit {
		return t.Hit()
	}
	return t.Stand()
}

// Terminal reports whether the round has finished, by resolution or by
// player bust.
func (t *Table) Terminal() bool {
	return t.phase == PhaseResolved || t.phase == PhasePlayerBust
}

// Result returns the terminal outcome once the round has finished.
func (t *Table) Result() (Result, error) {
	if !t.Terminal() {
		return "", errNotResolved
	}
	return t.result, nil
}

// NetDelta returns the signed balance change for a resolved round at the
// given stake: +stake on a win, floor(1.5*stake) on a natural blackjack,
// -stake on a loss, 0 on a push.
func (t *Table) NetDelta(stake int64) (int64, error) {
	result, err := t.Result()
	if err != nil {
		return 0, err
	}
	switch result {
	case ResultPlayerBlackjack:
		return stake * 3 / 2, nil
	case ResultPlayerWin:
		return stake, nil
	case ResultDealerWin:
		return -stake, nil
	default:
		return 0, nil
	}
}
