package games

import "errors"

// Engine errors. Handlers translate these into structured HTTP responses;
// the engines themselves never mutate the wallet after returning one.
var (
	// ErrInsufficientFunds means the stake exceeds the wallet balance.
	// Rejected before any state change.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAction means the action is not legal in the round's current
	// state (hit on a finished hand, cash out with nothing revealed, a
	// second reveal of the same cell). The round state is untouched.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidConfiguration means a round parameter is outside its legal
	// range. Callers are expected to clamp at the input boundary, so this
	// is a defensive rejection rather than an expected path.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Wallet is the player balance every engine debits stakes from and credits
// winnings to. The stake is always collected up front; winnings are credited
// once, after the round fully resolves.
type Wallet interface {
	Balance() int64
	// Debit atomically checks and subtracts. Returns false, with no change,
	// when amount exceeds the balance.
	Debit(amount int64) bool
	Credit(amount int64)
	AddGamesPlayed(n int)
	AddWin()
}

// RoundSummary is emitted once per completed round for history logging.
type RoundSummary struct {
	Game          string `json:"game"`
	TotalBet      int64  `json:"total_bet"`
	TotalWinnings int64  `json:"total_winnings"`
	Net           int64  `json:"net"`
}
