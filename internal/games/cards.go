package games

import (
	"github.com/MJE43/points-casino-go/internal/engine"
)

// Card represents a playing card with rank and suit.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// String returns a human-readable card representation like "♠A" or "♦10".
func (c Card) String() string {
	return c.Suit + c.Rank
}

// IsRed reports whether the card belongs to a red suit.
func (c Card) IsRed() bool {
	return c.Suit == "♥" || c.Suit == "♦"
}

var cardSuits = []string{"♠", "♥", "♦", "♣"}

var cardRanks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// blackjackDecks is the number of 52-card decks shuffled into a shoe.
const blackjackDecks = 6

// NewShoe builds a freshly shuffled shoe of the given number of decks.
// Cards are drawn from the end of the slice.
func NewShoe(decks int, src engine.Source) []Card {
	shoe := make([]Card, 0, decks*52)
	for d := 0; d < decks; d++ {
		for _, suit := range cardSuits {
			for _, rank := range cardRanks {
				shoe = append(shoe, Card{Rank: rank, Suit: suit})
			}
		}
	}
	engine.Shuffle(src, len(shoe), func(i, j int) {
		shoe[i], shoe[j] = shoe[j], shoe[i]
	})
	return shoe
}

// blackjackCardValue returns the blackjack point value of a card.
// 2-10: face value, J/Q/K: 10, A: 11 (soft).
func blackjackCardValue(rank string) int {
	switch rank {
	case "A":
		return 11
	case "J", "Q", "K", "10":
		return 10
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	case "7":
		return 7
	case "8":
		return 8
	case "9":
		return 9
	default:
		return 0
	}
}

// HandValue calculates the best blackjack hand value, downgrading soft aces
// from 11 to 1 while the total exceeds 21.
func HandValue(cards []Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		total += blackjackCardValue(c.Rank)
		if c.Rank == "A" {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsNatural reports whether a two-card hand is a natural blackjack.
func IsNatural(cards []Card) bool {
	return len(cards) == 2 && HandValue(cards) == 21
}

// canSplitPair reports whether a two-card hand may be split. Equality is by
// blackjack point value, so any two ten-value cards form a splittable pair.
func canSplitPair(cards []Card) bool {
	return len(cards) == 2 && blackjackCardValue(cards[0].Rank) == blackjackCardValue(cards[1].Rank)
}
