package games

// SideBet resolves independently of the main blackjack wager. A winning side
// bet pays stake * multiplier in winnings on top of the returned stake; a
// multiplier of 0 means the stake is forfeited.
type SideBet interface {
	Name() string
	// Resolve inspects the player and dealer hands and returns the payout
	// multiplier together with a short outcome label ("" on a loss).
	Resolve(player, dealer []Card) (float64, string)
}

// PerfectPairs pays on the player's initial two cards forming a pair:
// same suit 25:1, same color 12:1, mixed colors 6:1. Resolved exactly once,
// immediately after the initial deal.
type PerfectPairs struct{}

func (PerfectPairs) Name() string { return "perfect_pairs" }

func (PerfectPairs) Resolve(player, _ []Card) (float64, string) {
	if len(player) != 2 {
		return 0, ""
	}
	a, b := player[0], player[1]
	if a.Rank != b.Rank {
		return 0, ""
	}
	if a.Suit == b.Suit {
		return 25, "perfect"
	}
	if a.IsRed() == b.IsRed() {
		return 12, "colored"
	}
	return 6, "mixed"
}

// Insurance pays 2:1 when the dealer's full hand is a natural blackjack.
// Offerable only while the dealer shows an ace.
type Insurance struct{}

func (Insurance) Name() string { return "insurance" }

func (Insurance) Resolve(_, dealer []Card) (float64, string) {
	if IsNatural(dealer) {
		return 2, "dealer_blackjack"
	}
	return 0, ""
}
