package games

import (
	"fmt"
	"math"

	"github.com/MJE43/points-casino-go/internal/engine"
)

// Board geometry shared by every difficulty. The peg layout is triangular:
// row r holds r+3 pegs centered on the board.
const (
	plinkoSlotCount   = 8
	plinkoBoardWidth  = 600.0
	plinkoBoardHeight = 700.0
	plinkoTopY        = 50.0
	plinkoBottomY     = plinkoBoardHeight - 40.0
	plinkoBallRadius  = 6.0
	plinkoGravity     = 0.1
	plinkoRestitution = 0.8
	// A ball that somehow never reaches the bottom row is cut off and slotted
	// by its final x position.
	plinkoMaxTicks = 50000
)

const (
	plinkoMinBalls = 1
	plinkoMaxBalls = 10
)

// PlinkoBallResult is the outcome of a single ball.
type PlinkoBallResult struct {
	Slot       int     `json:"slot"`
	RiskHit    bool    `json:"risk_hit"`
	Multiplier float64 `json:"multiplier"`
	Win        int64   `json:"win"`
	Label      string  `json:"label"`
}

// PlinkoResult aggregates a drop of one or more balls.
type PlinkoResult struct {
	Difficulty string             `json:"difficulty"`
	Balls      []PlinkoBallResult `json:"balls"`
	TotalBet   int64              `json:"total_bet"`
	Winnings   int64              `json:"winnings"`
	Net        int64              `json:"net"`
	NewBalance int64              `json:"new_balance"`
}

// Summary converts the drop into a history record.
func (p *PlinkoResult) Summary() RoundSummary {
	return RoundSummary{Game: "plinko", TotalBet: p.TotalBet, TotalWinnings: p.Winnings, Net: p.Net}
}

// DropBalls stakes bet per ball, simulates each ball's fall through the peg
// field, applies the difficulty's risk roll, and credits the summed winnings.
// The full stake is collected up front; once started a drop always resolves.
func DropBalls(w Wallet, src engine.Source, bet int64, balls int, difficulty string) (*PlinkoResult, error) {
	cfg, err := plinkoDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	if bet <= 0 {
		return nil, fmt.Errorf("%w: bet must be positive, got %d", ErrInvalidConfiguration, bet)
	}
	if balls < plinkoMinBalls || balls > plinkoMaxBalls {
		return nil, fmt.Errorf("%w: ball count must be between %d and %d, got %d", ErrInvalidConfiguration, plinkoMinBalls, plinkoMaxBalls, balls)
	}

	totalBet := bet * int64(balls)
	if !w.Debit(totalBet) {
		return nil, fmt.Errorf("%w: stake %d exceeds balance %d", ErrInsufficientFunds, totalBet, w.Balance())
	}

	res := &PlinkoResult{
		Difficulty: difficulty,
		Balls:      make([]PlinkoBallResult, 0, balls),
		TotalBet:   totalBet,
	}

	for i := 0; i < balls; i++ {
		slot := simulateBall(src, cfg)
		ball := PlinkoBallResult{Slot: slot, Multiplier: cfg.Multipliers[slot]}

		// Risk roll: independent of slot, the ball's payout can be zeroed.
		if src.Float() < cfg.RiskChance {
			ball.RiskHit = true
			ball.Label = "RISK HIT!"
		} else {
			ball.Win = int64(math.Floor(float64(bet) * ball.Multiplier))
			ball.Label = fmt.Sprintf("%gx = %d", ball.Multiplier, ball.Win)
		}

		res.Winnings += ball.Win
		res.Balls = append(res.Balls, ball)
	}

	w.Credit(res.Winnings)
	w.AddGamesPlayed(balls)
	res.Net = res.Winnings - totalBet
	if res.Net > 0 {
		w.AddWin()
	}
	res.NewBalance = w.Balance()
	return res, nil
}

// simulateBall integrates a single ball at a fixed timestep until it reaches
// the bottom row and returns the slot index its x position maps to. The
// simulation is the randomization mechanism, not a rendering concern: all
// jitter is drawn from src, so a seeded source replays the same landing.
func simulateBall(src engine.Source, cfg PlinkoDifficulty) int {
	x := plinkoBoardWidth/2 + (src.Float()-0.5)*40
	y := 20.0
	vx := (src.Float() - 0.5) * 2
	vy := 2.0

	rowHeight := (plinkoBoardHeight - plinkoTopY - 80) / float64(cfg.PegRows)
	centerX := plinkoBoardWidth / 2

	for tick := 0; tick < plinkoMaxTicks; tick++ {
		x += vx
		y += vy
		vy += plinkoGravity

		// Hard-mode bias: pull toward center in proportion to displacement,
		// and repel balls crossing the 20%/80% width thresholds.
		if cfg.CenterGravity > 0 {
			pull := cfg.CenterGravity * math.Abs(x-centerX) / centerX
			if x > centerX {
				vx -= pull
			} else {
				vx += pull
			}
			if x < plinkoBoardWidth*0.2 {
				vx += cfg.EdgeRepulsion
			} else if x > plinkoBoardWidth*0.8 {
				vx -= cfg.EdgeRepulsion
			}
		}

		for row := 0; row < cfg.PegRows; row++ {
			pegsInRow := row + 3
			startX := (plinkoBoardWidth - float64(pegsInRow-1)*cfg.PegSpacing) / 2
			pegY := plinkoTopY + float64(row)*rowHeight

			for col := 0; col < pegsInRow; col++ {
				pegX := startX + float64(col)*cfg.PegSpacing
				dx := x - pegX
				dy := y - pegY
				dist := math.Sqrt(dx*dx + dy*dy)

				if dist < plinkoBallRadius+cfg.PegSize && dist > 0 {
					jitter := 0.0
					if cfg.BounceJitter > 0 {
						jitter = (src.Float() - 0.5) * cfg.BounceJitter
					}
					if cfg.CenterBias > 0 {
						if x > centerX {
							jitter -= cfg.CenterBias
						} else {
							jitter += cfg.CenterBias
						}
					}
					vx = (dx/dist)*cfg.BounceIntensity + jitter
					vy = math.Abs(vy) * plinkoRestitution
				}
			}
		}

		if y >= plinkoBottomY {
			break
		}
	}

	return slotForX(x)
}

// slotForX maps a landing x position to one of the fixed slots, clamped.
func slotForX(x float64) int {
	slot := int(math.Floor(x / (plinkoBoardWidth / plinkoSlotCount)))
	if slot < 0 {
		return 0
	}
	if slot >= plinkoSlotCount {
		return plinkoSlotCount - 1
	}
	return slot
}
