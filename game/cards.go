package game

import (
	"strings"
)

// Suit is one of the four standard card suits
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

func (s Suit) String() string {
	return map[Suit]string{Spades: "♠️", Hearts: "♥️", Diamonds: "♦️", Clubs: "♣️"}[s]
}

// Rank is a standard card rank, Ace through King
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return map[Rank]string{
			Two: "2", Three: "3", Four: "4", Five: "5", Six: "6",
			Seven: "7", Eight: "8", Nine: "9", Ten: "10",
		}[r]
	}
}

// Card is a single playing card
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// blackjackValue returns the card's blackjack value, counting aces high.
func (c Card) blackjackValue() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// NewDeck returns an unshuffled standard 52-card deck, no jokers.
func NewDeck() []Card {
	cards := make([]Card, 0, 52)
	for s := Spades; s <= Clubs; s++ {
		for r := Ace; r <= King; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return cards
}

// ShuffledDeck returns a standard deck shuffled with the given source.
func ShuffledDeck(r Source) []Card {
	cards := NewDeck()
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

// HandValue computes a blackjack hand value. Aces count 11 and are
// re-counted as 1 one at a time while the total exceeds 21.
func HandValue(hand []Card) int {
	value := 0
	aces := 0
	for _, c := range hand {
		value += c.blackjackValue()
		if c.Rank == Ace {
			aces++
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}

// FormatHand renders a hand as a space-separated card list.
func FormatHand(hand []Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
