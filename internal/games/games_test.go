package games

// testWallet is a minimal in-memory Wallet for engine tests.
type testWallet struct {
	points int64
	played int
	wins   int
}

func newTestWallet(points int64) *testWallet { return &testWallet{points: points} }

func (w *testWallet) Balance() int64 { return w.points }

func (w *testWallet) Debit(amount int64) bool {
	if amount <= 0 || amount > w.points {
		return false
	}
	w.points -= amount
	return true
}

func (w *testWallet) Credit(amount int64) {
	if amount > 0 {
		w.points += amount
	}
}

func (w *testWallet) AddGamesPlayed(n int) { w.played += n }
func (w *testWallet) AddWin()              { w.wins++ }

// shoeFor builds a shoe that deals the given cards in order. Cards are drawn
// from the end of a shoe, so the deal order is reversed.
func shoeFor(cards ...Card) []Card {
	shoe := make([]Card, len(cards))
	for i, c := range cards {
		shoe[len(cards)-1-i] = c
	}
	return shoe
}

func c(rank, suit string) Card { return Card{Rank: rank, Suit: suit} }
