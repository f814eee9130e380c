package games

import (
	"errors"
	"testing"

	"github.com/MJE43/points-casino-go/internal/engine"
)

// deal order is player, dealer up-card, player, dealer hole card; further
// cards in the shoe feed hits and the dealer's draws.

func TestBlackjackNaturalPaysThreeToTwo(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("A", "♠"), c("9", "♥"), c("K", "♦"), c("8", "♣"),
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if r.Phase() != PhaseResolved {
		t.Fatalf("phase = %q, want resolved", r.Phase())
	}
	// 100 - 20 + floor(20*2.5) = 130
	if w.Balance() != 130 {
		t.Errorf("balance = %d, want 130", w.Balance())
	}
	sum := r.Summary()
	if sum == nil || sum.TotalWinnings != 50 || sum.Net != 30 {
		t.Errorf("summary = %+v, want winnings 50 net 30", sum)
	}
	if len(r.State().Results) != 1 || r.State().Results[0].Outcome != "blackjack" {
		t.Errorf("results = %+v, want one blackjack outcome", r.State().Results)
	}
}

func TestBlackjackNaturalPushAgainstDealerNatural(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("A", "♠"), c("K", "♥"), c("Q", "♦"), c("A", "♣"),
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Dealer shows a king, no insurance offer; both naturals push.
	if r.Phase() != PhaseResolved {
		t.Fatalf("phase = %q, want resolved", r.Phase())
	}
	if w.Balance() != 100 {
		t.Errorf("balance = %d, want stake returned", w.Balance())
	}
	if r.State().Results[0].Outcome != "push" {
		t.Errorf("outcome = %q, want push", r.State().Results[0].Outcome)
	}
}

func TestBlackjackDealerNaturalLoses(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("9", "♠"), c("K", "♥"), c("8", "♦"), c("A", "♣"),
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if r.Phase() != PhaseResolved {
		t.Fatalf("phase = %q, want resolved", r.Phase())
	}
	if w.Balance() != 80 {
		t.Errorf("balance = %d, want 80", w.Balance())
	}
}

func TestBlackjackHitBustLoses(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("10", "♠"), c("7", "♥"), c("6", "♦"), c("10", "♣"),
		c("K", "♠"), // player hit card, bust at 26
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Hit(); err != nil {
		t.Fatal(err)
	}
	if r.Phase() != PhaseResolved {
		t.Fatalf("phase = %q, want resolved after bust", r.Phase())
	}
	if r.State().Results[0].Outcome != "bust" {
		t.Errorf("outcome = %q, want bust", r.State().Results[0].Outcome)
	}
	if w.Balance() != 80 {
		t.Errorf("balance = %d, want 80", w.Balance())
	}
	if w.played != 1 || w.wins != 0 {
		t.Errorf("counters played=%d wins=%d, want 1/0", w.played, w.wins)
	}
}

func TestBlackjackStandDealerDraws(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("10", "♠"), c("6", "♥"), c("9", "♦"), c("5", "♣"),
		c("K", "♠"), // dealer draws to 21... 6+5+10 = 21
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Stand(); err != nil {
		t.Fatal(err)
	}
	st := r.State()
	if st.DealerValue != 21 {
		t.Errorf("dealer value = %d, want 21", st.DealerValue)
	}
	if st.Results[0].Outcome != "lose" {
		t.Errorf("outcome = %q, want lose", st.Results[0].Outcome)
	}
}

func TestBlackjackDealerStandsOnSoftSeventeen(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("10", "♠"), c("6", "♥"), c("8", "♦"), c("A", "♣"),
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Dealer 6 + hole ace = soft 17, stands; player 18 wins.
	if err := r.Stand(); err != nil {
		t.Fatal(err)
	}
	st := r.State()
	if st.DealerValue != 17 {
		t.Errorf("dealer value = %d, want soft 17", st.DealerValue)
	}
	if len(st.Dealer) != 2 {
		t.Errorf("dealer drew %d cards, want none past soft 17", len(st.Dealer)-2)
	}
	if st.Results[0].Outcome != "win" {
		t.Errorf("outcome = %q, want win", st.Results[0].Outcome)
	}
	if w.Balance() != 120 {
		t.Errorf("balance = %d, want 120", w.Balance())
	}
}

func TestBlackjackDealerBustPaysAllHands(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("10", "♠"), c("6", "♥"), c("8", "♦"), c("10", "♣"),
		c("K", "♠"), // dealer 6+10+10 = 26, bust
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Stand(); err != nil {
		t.Fatal(err)
	}
	if got := r.State().Results[0].Outcome; got != "win" {
		t.Errorf("outcome = %q, want win on dealer bust", got)
	}
	if w.Balance() != 120 {
		t.Errorf("balance = %d, want 120", w.Balance())
	}
}

func TestBlackjackDouble(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("5", "♠"), c("6", "♥"), c("6", "♦"), c("10", "♣"),
		c("10", "♠"), // double card: 21
		c("K", "♥"),  // dealer 6+10+10 = 26, bust
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Double(); err != nil {
		t.Fatal(err)
	}
	if r.Phase() != PhaseResolved {
		t.Fatalf("phase = %q, want resolved", r.Phase())
	}
	// 100 - 20 - 20 + 80 = 140
	if w.Balance() != 140 {
		t.Errorf("balance = %d, want 140", w.Balance())
	}
	sum := r.Summary()
	if sum.TotalBet != 40 || sum.TotalWinnings != 80 {
		t.Errorf("summary = %+v, want bet 40 winnings 80", sum)
	}
}

func TestBlackjackDoubleOnlyFirstAction(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("2", "♠"), c("6", "♥"), c("3", "♦"), c("10", "♣"),
		c("4", "♠"),
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Hit(); err != nil {
		t.Fatal(err)
	}
	if err := r.Double(); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("double after hit = %v, want ErrInvalidAction", err)
	}
}

func TestBlackjackDoubleInsufficientFunds(t *testing.T) {
	w := newTestWallet(25)
	r, err := newBlackjackRound(w, shoeFor(
		c("5", "♠"), c("6", "♥"), c("6", "♦"), c("10", "♣"),
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Double(); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("double with 5 left = %v, want ErrInsufficientFunds", err)
	}
	if w.Balance() != 5 {
		t.Errorf("balance = %d, failed double must not debit", w.Balance())
	}
}

func TestBlackjackSplit(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("8", "♠"), c("6", "♥"), c("8", "♦"), c("10", "♣"),
		c("10", "♠"), // first split hand second card: 18
		c("9", "♥"),  // second split hand second card: 17
		c("K", "♦"),  // dealer 6+10+10 = 26, bust
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Split(); err != nil {
		t.Fatal(err)
	}
	st := r.State()
	if len(st.Hands) != 2 {
		t.Fatalf("hands = %d, want 2 after split", len(st.Hands))
	}
	if st.Hands[0].Value != 18 || st.Hands[1].Value != 17 {
		t.Errorf("hand values = %d/%d, want 18/17", st.Hands[0].Value, st.Hands[1].Value)
	}

	if err := r.Stand(); err != nil {
		t.Fatal(err)
	}
	if err := r.Stand(); err != nil {
		t.Fatal(err)
	}
	if r.Phase() != PhaseResolved {
		t.Fatalf("phase = %q, want resolved", r.Phase())
	}
	// Both hands beat the busted dealer: 100 - 40 + 80 = 140.
	if w.Balance() != 140 {
		t.Errorf("balance = %d, want 140", w.Balance())
	}
	if len(r.State().Results) != 2 {
		t.Errorf("results = %d, want one per hand", len(r.State().Results))
	}
}

func TestBlackjackSplitRequiresPair(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("8", "♠"), c("6", "♥"), c("9", "♦"), c("10", "♣"),
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Split(); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("split without pair = %v, want ErrInvalidAction", err)
	}
}

func TestBlackjackResplitToFourHands(t *testing.T) {
	w := newTestWallet(200)
	r, err := newBlackjackRound(w, shoeFor(
		c("8", "♠"), c("6", "♥"), c("8", "♦"), c("10", "♣"),
		c("8", "♥"), c("2", "♠"), // first split deals another 8 to hand one
		c("8", "♣"), c("3", "♠"), // second split
		c("4", "♠"), c("5", "♠"), // third split
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := r.Split(); err != nil {
			t.Fatalf("split %d: %v", i+1, err)
		}
	}
	if got := len(r.State().Hands); got != 4 {
		t.Fatalf("hands = %d, want 4", got)
	}
	if err := r.Split(); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("fifth hand split = %v, want ErrInvalidAction", err)
	}
	if w.Balance() != 200-80 {
		t.Errorf("balance = %d, want 120 after four stakes", w.Balance())
	}
}

func TestBlackjackInsurancePaysOnDealerNatural(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("9", "♠"), c("A", "♥"), c("8", "♦"), c("K", "♣"),
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if r.Phase() != PhaseInsurance {
		t.Fatalf("phase = %q, want insurance offer on dealer ace", r.Phase())
	}
	if err := r.Insurance(10); err != nil {
		t.Fatal(err)
	}
	// Hand loses 20, insurance returns 10*3. 100 - 20 - 10 + 30 = 100.
	if r.Phase() != PhaseResolved {
		t.Fatalf("phase = %q, want resolved", r.Phase())
	}
	if w.Balance() != 100 {
		t.Errorf("balance = %d, want 100", w.Balance())
	}
	st := r.State()
	if len(st.SideBets) != 1 || st.SideBets[0].Outcome != "dealer_blackjack" || st.SideBets[0].Winnings != 30 {
		t.Errorf("side bets = %+v, want dealer_blackjack paying 30", st.SideBets)
	}
}

func TestBlackjackInsuranceWaived(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("9", "♠"), c("A", "♥"), c("8", "♦"), c("7", "♣"),
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Insurance(0); err != nil {
		t.Fatal(err)
	}
	// No dealer natural: play continues.
	if r.Phase() != PhasePlayerTurn {
		t.Fatalf("phase = %q, want player_turn", r.Phase())
	}
	if w.Balance() != 80 {
		t.Errorf("balance = %d, want only the base stake debited", w.Balance())
	}
}

func TestBlackjackInsuranceLimits(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("9", "♠"), c("A", "♥"), c("8", "♦"), c("7", "♣"),
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Insurance(21); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("insurance above bet = %v, want ErrInvalidConfiguration", err)
	}
	if err := r.Insurance(-1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("negative insurance = %v, want ErrInvalidConfiguration", err)
	}
	if err := r.Hit(); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("hit during insurance offer = %v, want ErrInvalidAction", err)
	}
}

func TestBlackjackPerfectPairsSettlesOnDeal(t *testing.T) {
	cases := []struct {
		name    string
		first   Card
		second  Card
		outcome string
		win     int64 // stake 10
	}{
		{"perfect", c("8", "♠"), c("8", "♠"), "perfect", 260},
		{"colored", c("8", "♥"), c("8", "♦"), "colored", 130},
		{"mixed", c("8", "♠"), c("8", "♥"), "mixed", 70},
		{"no pair", c("8", "♠"), c("9", "♥"), "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWallet(100)
			r, err := newBlackjackRound(w, shoeFor(
				tc.first, c("6", "♥"), tc.second, c("10", "♣"),
				c("5", "♠"), c("K", "♦"),
			), 20, 10)
			if err != nil {
				t.Fatal(err)
			}
			st := r.State()
			if len(st.SideBets) != 1 {
				t.Fatalf("side bets = %d, want 1", len(st.SideBets))
			}
			sb := st.SideBets[0]
			if sb.Name != "perfect_pairs" || sb.Outcome != tc.outcome || sb.Winnings != tc.win {
				t.Errorf("side bet = %+v, want outcome %q winnings %d", sb, tc.outcome, tc.win)
			}
		})
	}
}

func TestBlackjackHoleCardHiddenUntilResolved(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("10", "♠"), c("6", "♥"), c("9", "♦"), c("10", "♣"),
		c("5", "♥"), // dealer draws from 16
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	st := r.State()
	if len(st.Dealer) != 1 {
		t.Fatalf("visible dealer cards = %d, want 1 before reveal", len(st.Dealer))
	}
	if st.DealerValue != 0 {
		t.Errorf("dealer value leaked = %d", st.DealerValue)
	}
	if err := r.Stand(); err != nil {
		t.Fatal(err)
	}
	if st := r.State(); len(st.Dealer) < 2 {
		t.Errorf("dealer cards = %d after resolution, want full hand", len(st.Dealer))
	}
}

func TestBlackjackRejectsBadStakes(t *testing.T) {
	w := newTestWallet(100)
	if _, err := NewBlackjackRound(w, engine.NewProvable("s", "c", 1, 0), 0, 0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero bet = %v, want ErrInvalidConfiguration", err)
	}
	if _, err := NewBlackjackRound(w, engine.NewProvable("s", "c", 1, 0), 20, -1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("negative side bet = %v, want ErrInvalidConfiguration", err)
	}
	if _, err := NewBlackjackRound(w, engine.NewProvable("s", "c", 1, 0), 200, 0); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("oversized bet = %v, want ErrInsufficientFunds", err)
	}
	if w.Balance() != 100 {
		t.Errorf("balance = %d, rejected deals must not debit", w.Balance())
	}
}

func TestBlackjackActionsAfterResolve(t *testing.T) {
	w := newTestWallet(100)
	r, err := newBlackjackRound(w, shoeFor(
		c("A", "♠"), c("9", "♥"), c("K", "♦"), c("8", "♣"),
	), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Hit(); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("hit after resolve = %v, want ErrInvalidAction", err)
	}
	if err := r.Stand(); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("stand after resolve = %v, want ErrInvalidAction", err)
	}
}
