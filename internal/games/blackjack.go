package games

import (
	"fmt"
	"math"

	"github.com/MJE43/points-casino-go/internal/engine"
)

// BlackjackPhase identifies where a round is in its lifecycle.
type BlackjackPhase string

const (
	// PhaseInsurance: dealer shows an ace; the player must place or waive
	// insurance before the hole card is peeked.
	PhaseInsurance BlackjackPhase = "insurance"
	// PhasePlayerTurn: one player hand is active and accepting actions.
	PhasePlayerTurn BlackjackPhase = "player_turn"
	// PhaseResolved: all bets settled, results available.
	PhaseResolved BlackjackPhase = "resolved"
)

const (
	blackjackMaxHands = 4
	dealerStandsAt    = 17
)

// Hand is a single player hand. Splitting creates additional hands with
// equal bets.
type Hand struct {
	Cards    []Card `json:"cards"`
	Bet      int64  `json:"bet"`
	Doubled  bool   `json:"doubled"`
	Finished bool   `json:"finished"`
}

// HandResult is the settled outcome of one player hand.
type HandResult struct {
	Hand     int    `json:"hand"`
	Outcome  string `json:"outcome"` // "blackjack", "win", "push", "lose", "bust"
	Winnings int64  `json:"winnings"`
}

// SideBetResult is the settled outcome of one side bet.
type SideBetResult struct {
	Name     string `json:"name"`
	Stake    int64  `json:"stake"`
	Outcome  string `json:"outcome"` // "" when the stake is forfeited
	Winnings int64  `json:"winnings"`
}

// BlackjackRound is one round of six-deck blackjack: deal, optional
// insurance, per-hand player turns with hit/stand/double/split, dealer draw
// to 17, and per-hand settlement. The main bet and any perfect-pairs stake
// are debited when the round is created.
type BlackjackRound struct {
	wallet Wallet
	shoe   []Card

	phase   BlackjackPhase
	dealer  []Card
	hands   []*Hand
	current int

	baseBet      int64
	insuranceBet int64

	dealerBlackjack bool
	holeRevealed    bool

	sideBets []SideBetResult
	results  []HandResult

	totalStaked   int64
	totalCredited int64
	summary       *RoundSummary
}

// NewBlackjackRound debits bet plus perfectPairsBet, builds a fresh shuffled
// shoe, deals the initial cards, and resolves the perfect-pairs side bet.
// If the dealer shows an ace the round pauses in PhaseInsurance; otherwise
// naturals are checked immediately.
func NewBlackjackRound(w Wallet, src engine.Source, bet, perfectPairsBet int64) (*BlackjackRound, error) {
	return newBlackjackRound(w, NewShoe(blackjackDecks, src), bet, perfectPairsBet)
}

// newBlackjackRound deals from a prepared shoe. Cards come off the end.
func newBlackjackRound(w Wallet, shoe []Card, bet, perfectPairsBet int64) (*BlackjackRound, error) {
	if bet <= 0 {
		return nil, fmt.Errorf("%w: bet must be positive, got %d", ErrInvalidConfiguration, bet)
	}
	if perfectPairsBet < 0 {
		return nil, fmt.Errorf("%w: negative perfect pairs bet %d", ErrInvalidConfiguration, perfectPairsBet)
	}
	if !w.Debit(bet + perfectPairsBet) {
		return nil, fmt.Errorf("%w: stake %d exceeds balance %d", ErrInsufficientFunds, bet+perfectPairsBet, w.Balance())
	}

	r := &BlackjackRound{
		wallet:      w,
		shoe:        shoe,
		baseBet:     bet,
		totalStaked: bet + perfectPairsBet,
	}
	r.hands = []*Hand{{Bet: bet}}

	// Standard deal order: player, dealer up-card, player, dealer hole card.
	r.hands[0].Cards = append(r.hands[0].Cards, r.draw())
	r.dealer = append(r.dealer, r.draw())
	r.hands[0].Cards = append(r.hands[0].Cards, r.draw())
	r.dealer = append(r.dealer, r.draw())

	if perfectPairsBet > 0 {
		r.settleSideBet(PerfectPairs{}, perfectPairsBet)
	}

	if r.dealer[0].Rank == "A" {
		r.phase = PhaseInsurance
		return r, nil
	}
	r.finishDeal()
	return r, nil
}

// Insurance places an insurance side bet of up to the original bet and then
// peeks the hole card. An amount of zero waives insurance.
func (r *BlackjackRound) Insurance(amount int64) error {
	if r.phase != PhaseInsurance {
		return fmt.Errorf("%w: insurance not offerable", ErrInvalidAction)
	}
	if amount < 0 || amount > r.baseBet {
		return fmt.Errorf("%w: insurance must be between 0 and the original bet %d", ErrInvalidConfiguration, r.baseBet)
	}
	if amount > 0 {
		if !r.wallet.Debit(amount) {
			return fmt.Errorf("%w: insurance stake %d exceeds balance %d", ErrInsufficientFunds, amount, r.wallet.Balance())
		}
		r.insuranceBet = amount
		r.totalStaked += amount
	}
	r.finishDeal()
	return nil
}

// Hit draws one card to the active hand. The hand finishes automatically on
// 21 or a bust.
func (r *BlackjackRound) Hit() error {
	h, err := r.activeHand()
	if err != nil {
		return err
	}
	h.Cards = append(h.Cards, r.draw())
	if HandValue(h.Cards) >= 21 {
		h.Finished = true
		r.advance()
	}
	return nil
}

// Stand finishes the active hand immediately.
func (r *BlackjackRound) Stand() error {
	h, err := r.activeHand()
	if err != nil {
		return err
	}
	h.Finished = true
	r.advance()
	return nil
}

// Double doubles the active hand's bet, draws exactly one card, and
// finishes the hand. Legal only as the hand's first action.
func (r *BlackjackRound) Double() error {
	h, err := r.activeHand()
	if err != nil {
		return err
	}
	if len(h.Cards) != 2 {
		return fmt.Errorf("%w: double only as the first action", ErrInvalidAction)
	}
	if !r.wallet.Debit(h.Bet) {
		return fmt.Errorf("%w: double requires %d more, balance %d", ErrInsufficientFunds, h.Bet, r.wallet.Balance())
	}
	r.totalStaked += h.Bet
	h.Bet *= 2
	h.Doubled = true
	h.Cards = append(h.Cards, r.draw())
	h.Finished = true
	r.advance()
	return nil
}

// Split splits the first hand's equal-value pair into two hands, debiting
// one more bet-equivalent and dealing a card to each. At most four hands
// may result from cumulative splits.
func (r *BlackjackRound) Split() error {
	h, err := r.activeHand()
	if err != nil {
		return err
	}
	if r.current != 0 {
		return fmt.Errorf("%w: split only from the first hand", ErrInvalidAction)
	}
	if len(r.hands) >= blackjackMaxHands {
		return fmt.Errorf("%w: at most %d hands", ErrInvalidAction, blackjackMaxHands)
	}
	if !canSplitPair(h.Cards) {
		return fmt.Errorf("%w: split requires an equal-value pair", ErrInvalidAction)
	}
	if !r.wallet.Debit(h.Bet) {
		return fmt.Errorf("%w: split requires %d more, balance %d", ErrInsufficientFunds, h.Bet, r.wallet.Balance())
	}
	r.totalStaked += h.Bet

	second := &Hand{Cards: []Card{h.Cards[1]}, Bet: h.Bet}
	h.Cards = h.Cards[:1]
	r.hands = append(r.hands[:1], append([]*Hand{second}, r.hands[1:]...)...)

	h.Cards = append(h.Cards, r.draw())
	second.Cards = append(second.Cards, r.draw())
	return nil
}

func (r *BlackjackRound) activeHand() (*Hand, error) {
	if r.phase != PhasePlayerTurn {
		return nil, fmt.Errorf("%w: no active hand in phase %q", ErrInvalidAction, r.phase)
	}
	return r.hands[r.current], nil
}

func (r *BlackjackRound) draw() Card {
	c := r.shoe[len(r.shoe)-1]
	r.shoe = r.shoe[:len(r.shoe)-1]
	return c
}

// settleSideBet resolves a side bet immediately, crediting stake plus
// winnings on a hit and forfeiting the stake otherwise.
func (r *BlackjackRound) settleSideBet(sb SideBet, stake int64) {
	mult, label := sb.Resolve(r.hands[0].Cards, r.dealer)
	res := SideBetResult{Name: sb.Name(), Stake: stake, Outcome: label}
	if mult > 0 {
		res.Winnings = int64(math.Floor(float64(stake) * (mult + 1)))
		r.wallet.Credit(res.Winnings)
		r.totalCredited += res.Winnings
	}
	r.sideBets = append(r.sideBets, res)
}

// finishDeal peeks for naturals once any insurance decision is in.
func (r *BlackjackRound) finishDeal() {
	r.dealerBlackjack = IsNatural(r.dealer)

	if r.insuranceBet > 0 {
		r.settleSideBet(Insurance{}, r.insuranceBet)
	}

	player := r.hands[0]
	switch {
	case IsNatural(player.Cards) && r.dealerBlackjack:
		r.holeRevealed = true
		r.settleHand(0, "push", player.Bet)
		r.finishRound()
	case IsNatural(player.Cards):
		// 3:2 on the natural: stake plus 1.5x stake.
		r.settleHand(0, "blackjack", int64(math.Floor(float64(player.Bet)*2.5)))
		r.finishRound()
	case r.dealerBlackjack:
		r.holeRevealed = true
		r.settleHand(0, "lose", 0)
		r.finishRound()
	default:
		r.phase = PhasePlayerTurn
	}
}

// advance moves to the next unfinished hand or, when none remain, plays the
// dealer and settles the round.
func (r *BlackjackRound) advance() {
	for r.current+1 < len(r.hands) {
		r.current++
		if !r.hands[r.current].Finished {
			return
		}
	}
	r.dealerTurn()
}

func (r *BlackjackRound) dealerTurn() {
	r.holeRevealed = true
	for HandValue(r.dealer) < dealerStandsAt {
		r.dealer = append(r.dealer, r.draw())
	}
	r.resolve()
}

func (r *BlackjackRound) resolve() {
	dealerValue := HandValue(r.dealer)
	dealerBust := dealerValue > 21

	for i, h := range r.hands {
		playerValue := HandValue(h.Cards)
		switch {
		case playerValue > 21:
			r.settleHand(i, "bust", 0)
		case dealerBust:
			r.settleHand(i, "win", h.Bet*2)
		case playerValue > dealerValue:
			r.settleHand(i, "win", h.Bet*2)
		case playerValue == dealerValue:
			r.settleHand(i, "push", h.Bet)
		default:
			r.settleHand(i, "lose", 0)
		}
	}
	r.finishRound()
}

func (r *BlackjackRound) settleHand(i int, outcome string, winnings int64) {
	r.results = append(r.results, HandResult{Hand: i + 1, Outcome: outcome, Winnings: winnings})
	if winnings > 0 {
		r.wallet.Credit(winnings)
		r.totalCredited += winnings
	}
}

func (r *BlackjackRound) finishRound() {
	r.phase = PhaseResolved
	r.wallet.AddGamesPlayed(1)
	if r.totalCredited > 0 {
		r.wallet.AddWin()
	}
	r.summary = &RoundSummary{
		Game:          "blackjack",
		TotalBet:      r.totalStaked,
		TotalWinnings: r.totalCredited,
		Net:           r.totalCredited - r.totalStaked,
	}
}

// HandState is a snapshot of one player hand for display.
type HandState struct {
	Cards    []Card `json:"cards"`
	Value    int    `json:"value"`
	Bet      int64  `json:"bet"`
	Doubled  bool   `json:"doubled"`
	Finished bool   `json:"finished"`
}

// BlackjackState is a display snapshot of the round. The dealer's hole card
// is omitted until revealed.
type BlackjackState struct {
	Phase       BlackjackPhase  `json:"phase"`
	Dealer      []Card          `json:"dealer"`
	DealerValue int             `json:"dealer_value,omitempty"`
	Hands       []HandState     `json:"hands"`
	CurrentHand int             `json:"current_hand"`
	CanDouble   bool            `json:"can_double"`
	CanSplit    bool            `json:"can_split"`
	CanInsure   bool            `json:"can_insure"`
	Results     []HandResult    `json:"results,omitempty"`
	SideBets    []SideBetResult `json:"side_bets,omitempty"`
	Summary     *RoundSummary   `json:"summary,omitempty"`
}

// State returns the round as seen by the player.
func (r *BlackjackRound) State() BlackjackState {
	st := BlackjackState{
		Phase:       r.phase,
		CurrentHand: r.current + 1,
		Results:     r.results,
		SideBets:    r.sideBets,
		Summary:     r.summary,
	}

	if r.holeRevealed {
		st.Dealer = append(st.Dealer, r.dealer...)
		st.DealerValue = HandValue(r.dealer)
	} else if len(r.dealer) > 0 {
		st.Dealer = []Card{r.dealer[0]}
	}

	for _, h := range r.hands {
		st.Hands = append(st.Hands, HandState{
			Cards:    append([]Card(nil), h.Cards...),
			Value:    HandValue(h.Cards),
			Bet:      h.Bet,
			Doubled:  h.Doubled,
			Finished: h.Finished,
		})
	}

	if r.phase == PhasePlayerTurn {
		cur := r.hands[r.current]
		st.CanDouble = len(cur.Cards) == 2 && r.wallet.Balance() >= cur.Bet
		st.CanSplit = r.current == 0 && len(r.hands) < blackjackMaxHands &&
			canSplitPair(cur.Cards) && r.wallet.Balance() >= cur.Bet
	}
	st.CanInsure = r.phase == PhaseInsurance

	return st
}

// Phase returns the round's current lifecycle phase.
func (r *BlackjackRound) Phase() BlackjackPhase { return r.phase }

// Summary returns the round summary, nil until resolved.
func (r *BlackjackRound) Summary() *RoundSummary { return r.summary }
