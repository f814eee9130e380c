package games

import (
	"fmt"
	"math"
	"sort"

	"github.com/MJE43/points-casino-go/internal/engine"
)

const (
	minesTotalCells = 25
	minesMinCount   = 1
	minesMaxCount   = 20

	// Fair survival odds are cut by 5%, with a floor so every safe reveal is
	// worth at least 1%.
	minesHouseEdge     = 0.95
	minesMinMultiplier = 1.01
)

// MinesRound is one round on the 5x5 grid: the bet is debited at start, the
// mine set is fixed, and the multiplier is recomputed from fresh survival
// odds after every safe reveal. The round ends by mine hit, by revealing
// every safe cell, or by cashing out.
type MinesRound struct {
	wallet Wallet

	Bet       int64
	MineCount int

	mines    map[int]bool
	revealed map[int]bool

	Multiplier float64
	Active     bool
}

// MinesReveal is the outcome of revealing one cell.
type MinesReveal struct {
	Cell          int     `json:"cell"`
	Mine          bool    `json:"mine"`
	Revealed      int     `json:"revealed"`
	Multiplier    float64 `json:"multiplier"`
	Payout        int64   `json:"payout"`
	Completed     bool    `json:"completed"`
	MinePositions []int   `json:"mine_positions,omitempty"`
}

// StartMines debits the bet and places mineCount unique mines uniformly over
// the 25 cells via a Fisher-Yates selection.
func StartMines(w Wallet, src engine.Source, bet int64, mineCount int) (*MinesRound, error) {
	if mineCount < minesMinCount || mineCount > minesMaxCount {
		return nil, fmt.Errorf("%w: mine count must be between %d and %d, got %d", ErrInvalidConfiguration, minesMinCount, minesMaxCount, mineCount)
	}
	if bet <= 0 {
		return nil, fmt.Errorf("%w: bet must be positive, got %d", ErrInvalidConfiguration, bet)
	}
	if !w.Debit(bet) {
		return nil, fmt.Errorf("%w: stake %d exceeds balance %d", ErrInsufficientFunds, bet, w.Balance())
	}

	pool := make([]int, minesTotalCells)
	for i := range pool {
		pool[i] = i
	}
	mines := make(map[int]bool, mineCount)
	for i := 0; i < mineCount; i++ {
		idx := engine.Intn(src, len(pool))
		mines[pool[idx]] = true
		pool = append(pool[:idx], pool[idx+1:]...)
	}

	return &MinesRound{
		wallet:     w,
		Bet:        bet,
		MineCount:  mineCount,
		mines:      mines,
		revealed:   make(map[int]bool, minesTotalCells-mineCount),
		Multiplier: 1.00,
		Active:     true,
	}, nil
}

// Reveal uncovers one cell. A mine ends the round with the stake lost and
// the remaining mine positions disclosed for display; a diamond bumps the
// multiplier, and finding the last safe cell auto-completes the round.
func (r *MinesRound) Reveal(cell int) (*MinesReveal, error) {
	if !r.Active {
		return nil, fmt.Errorf("%w: no active round", ErrInvalidAction)
	}
	if cell < 0 || cell >= minesTotalCells {
		return nil, fmt.Errorf("%w: cell %d out of range [0,%d)", ErrInvalidConfiguration, cell, minesTotalCells)
	}
	if r.revealed[cell] {
		return nil, fmt.Errorf("%w: cell %d already revealed", ErrInvalidAction, cell)
	}

	if r.mines[cell] {
		r.Active = false
		r.wallet.AddGamesPlayed(1)
		return &MinesReveal{
			Cell:          cell,
			Mine:          true,
			Revealed:      len(r.revealed),
			Multiplier:    r.Multiplier,
			Completed:     true,
			MinePositions: r.minePositions(),
		}, nil
	}

	r.revealed[cell] = true
	if m := minesMultiplier(len(r.revealed), r.MineCount); m > 0 {
		r.Multiplier = m
	}

	out := &MinesReveal{
		Cell:       cell,
		Revealed:   len(r.revealed),
		Multiplier: r.Multiplier,
	}

	if len(r.revealed) == minesTotalCells-r.MineCount {
		// Perfect game: every diamond found.
		r.Active = false
		out.Completed = true
		out.Payout = int64(math.Floor(float64(r.Bet) * r.Multiplier))
		out.MinePositions = r.minePositions()
		r.wallet.Credit(out.Payout)
		r.wallet.AddGamesPlayed(1)
		r.wallet.AddWin()
	}

	return out, nil
}

// CashOut ends the round voluntarily, paying floor(bet * multiplier). Legal
// only mid-round with at least one diamond revealed.
func (r *MinesRound) CashOut() (int64, error) {
	if !r.Active || len(r.revealed) == 0 {
		return 0, fmt.Errorf("%w: cash out requires an active round with at least one reveal", ErrInvalidAction)
	}

	r.Active = false
	payout := int64(math.Floor(float64(r.Bet) * r.Multiplier))
	r.wallet.Credit(payout)
	r.wallet.AddGamesPlayed(1)
	r.wallet.AddWin()
	return payout, nil
}

// RevealedCount returns how many diamonds have been found.
func (r *MinesRound) RevealedCount() int { return len(r.revealed) }

// Summary converts a finished round into a history record.
func (r *MinesRound) Summary(payout int64) RoundSummary {
	return RoundSummary{Game: "mines", TotalBet: r.Bet, TotalWinnings: payout, Net: payout - r.Bet}
}

func (r *MinesRound) minePositions() []int {
	positions := make([]int, 0, len(r.mines))
	for pos := range r.mines {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	return positions
}

// minesMultiplier computes the payout multiplier after diamondsRevealed safe
// reveals with totalMines on the grid: the house-edged fair odds of
// surviving the next click given the current state. It is recomputed fresh
// on every reveal, never compounded. Returns 0 when no safe cells remain
// (terminal state; the caller keeps the previous value).
func minesMultiplier(diamondsRevealed, totalMines int) float64 {
	remainingCells := minesTotalCells - diamondsRevealed
	remainingSafe := remainingCells - totalMines
	if remainingSafe <= 0 {
		return 0
	}

	mineHitProbability := float64(totalMines) / float64(remainingCells)
	fairMultiplier := 1 / (1 - mineHitProbability)

	return math.Max(minesMinMultiplier, fairMultiplier*minesHouseEdge)
}
