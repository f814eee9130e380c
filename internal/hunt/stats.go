// Package hunt computes bonus-hunt session statistics for the stream
// overlay: aggregate cost and return, average bet and multiplier, and the
// break-even line over an externally maintained list of bonus records.
package hunt

import (
	"math"

	"github.com/shopspring/decimal"
)

// BonusRecord is one opened bonus: the bet it was bought at and what it
// paid back. Records are immutable inputs; non-finite values count as zero.
type BonusRecord struct {
	Bet    float64 `json:"bet"`
	Result float64 `json:"result"`
}

// Stats is the derived aggregate, recomputed from scratch on every call.
// Monetary values and multipliers are rounded to 2 decimal places.
type Stats struct {
	Bonuses             int     `json:"bonuses"`
	TotalCost           float64 `json:"total_cost"`
	TotalReturn         float64 `json:"total_return"`
	AverageBetSize      float64 `json:"average_bet_size"`
	AverageWin          float64 `json:"average_win"`
	AverageMultiplier   float64 `json:"average_multiplier"`
	BreakEven           float64 `json:"break_even"`
	BreakEvenPerBonus   float64 `json:"break_even_per_bonus"`
	BreakEvenMultiplier float64 `json:"break_even_multiplier"`
	TotalProfit         float64 `json:"total_profit"`
}

// ComputeStats derives session statistics from the balance the hunt started
// at, the balance when bonus opening began, and the per-bonus records. Pure
// and idempotent: identical inputs always yield identical outputs.
//
// The average multiplier is the arithmetic mean of each bonus's result/bet,
// taken only over entries with a positive bet. It is NOT totalReturn over
// totalBet; the per-bonus mean weights every bonus equally regardless of
// bet size, which is what the overlay displays.
func ComputeStats(startBalance, openingBalance float64, bonuses []BonusRecord) Stats {
	start := safeNumber(startBalance)
	opening := safeNumber(openingBalance)

	totalCost := math.Max(0, start-opening)

	var (
		totalReturn float64
		totalBet    float64
		validBets   int
		multipliers []float64
	)

	for _, b := range bonuses {
		result := safeNumber(b.Result)
		bet := safeNumber(b.Bet)

		totalReturn += result

		if bet > 0 {
			totalBet += bet
			validBets++

			if m := result / bet; !math.IsNaN(m) && !math.IsInf(m, 0) {
				multipliers = append(multipliers, m)
			}
		}
	}

	count := len(bonuses)

	var averageBetSize float64
	if validBets > 0 {
		averageBetSize = totalBet / float64(validBets)
	}

	var averageWin float64
	if count > 0 {
		averageWin = totalReturn / float64(count)
	}

	var averageMultiplier float64
	if len(multipliers) > 0 {
		sum := 0.0
		for _, m := range multipliers {
			sum += m
		}
		averageMultiplier = sum / float64(len(multipliers))
	}

	breakEven := totalCost
	var breakEvenPerBonus float64
	if count > 0 {
		breakEvenPerBonus = breakEven / float64(count)
	}

	var breakEvenMultiplier float64
	if averageBetSize > 0 {
		breakEvenMultiplier = breakEvenPerBonus / averageBetSize
	}

	return Stats{
		Bonuses:             count,
		TotalCost:           round2(totalCost),
		TotalReturn:         round2(totalReturn),
		AverageBetSize:      round2(averageBetSize),
		AverageWin:          round2(averageWin),
		AverageMultiplier:   round2(averageMultiplier),
		BreakEven:           round2(breakEven),
		BreakEvenPerBonus:   round2(breakEvenPerBonus),
		BreakEvenMultiplier: round2(breakEvenMultiplier),
		TotalProfit:         round2(totalReturn - totalCost),
	}
}

func safeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// round2 rounds half away from zero at 2 decimal places, via decimal to
// avoid float drift on values like 2.675.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
