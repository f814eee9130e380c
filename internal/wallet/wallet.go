// Package wallet holds a player profile's points balance and play counters.
// It is the balance store every game engine debits stakes from and credits
// winnings to.
package wallet

import "sync"

// DefaultStartingPoints is granted to a newly created profile.
const DefaultStartingPoints = 1000

// Wallet is a single player's mutable balance. Game actions are serialized
// by the caller, but the mutex keeps each operation atomic relative to the
// HTTP handlers that read it.
type Wallet struct {
	mu          sync.Mutex
	name        string
	points      int64
	gamesPlayed int64
	wins        int64
}

// New creates a wallet with the given starting balance and counters.
func New(name string, points, gamesPlayed, wins int64) *Wallet {
	return &Wallet{name: name, points: points, gamesPlayed: gamesPlayed, wins: wins}
}

// Name returns the owning player's name.
func (w *Wallet) Name() string { return w.name }

// Balance returns the current points balance.
func (w *Wallet) Balance() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.points
}

// Debit atomically checks and subtracts a stake. Returns false, leaving the
// balance untouched, when amount exceeds it. The balance never goes
// negative.
func (w *Wallet) Debit(amount int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if amount <= 0 || amount > w.points {
		return false
	}
	w.points -= amount
	return true
}

// Credit adds winnings to the balance. Non-positive amounts are ignored.
func (w *Wallet) Credit(amount int64) {
	if amount <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.points += amount
}

// AddGamesPlayed bumps the games-played counter (one per ball for Plinko,
// one per round otherwise).
func (w *Wallet) AddGamesPlayed(n int) {
	if n <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gamesPlayed += int64(n)
}

// AddWin bumps the winning-rounds counter.
func (w *Wallet) AddWin() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.wins++
}

// Snapshot returns the balance and counters in one consistent read.
func (w *Wallet) Snapshot() (points, gamesPlayed, wins int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.points, w.gamesPlayed, w.wins
}
