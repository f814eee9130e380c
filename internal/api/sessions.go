package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MJE43/points-casino-go/internal/games"
)

// sessionTTL is how long an untouched round survives before the sweeper
// reclaims it. Abandoned blackjack hands and mines boards hold no timers of
// their own, so the registry ages them out.
const sessionTTL = 30 * time.Minute

// blackjackSession wraps an in-flight blackjack round. The mutex serializes
// actions on the round; TryLock lets concurrent requests on the same round
// fail fast instead of queueing.
type blackjackSession struct {
	mu       sync.Mutex
	round    *games.BlackjackRound
	lastSeen time.Time
}

type minesSession struct {
	mu       sync.Mutex
	round    *games.MinesRound
	lastSeen time.Time
}

// sessionRegistry holds active rounds keyed by ID.
type sessionRegistry struct {
	mu        sync.Mutex
	blackjack map[string]*blackjackSession
	mines     map[string]*minesSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		blackjack: make(map[string]*blackjackSession),
		mines:     make(map[string]*minesSession),
	}
}

func (sr *sessionRegistry) putBlackjack(round *games.BlackjackRound) string {
	id := uuid.New().String()
	sr.mu.Lock()
	sr.blackjack[id] = &blackjackSession{round: round, lastSeen: time.Now()}
	sr.mu.Unlock()
	return id
}

func (sr *sessionRegistry) getBlackjack(id string) *blackjackSession {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sess := sr.blackjack[id]
	if sess != nil {
		sess.lastSeen = time.Now()
	}
	return sess
}

func (sr *sessionRegistry) removeBlackjack(id string) {
	sr.mu.Lock()
	delete(sr.blackjack, id)
	sr.mu.Unlock()
}

func (sr *sessionRegistry) putMines(round *games.MinesRound) string {
	id := uuid.New().String()
	sr.mu.Lock()
	sr.mines[id] = &minesSession{round: round, lastSeen: time.Now()}
	sr.mu.Unlock()
	return id
}

func (sr *sessionRegistry) getMines(id string) *minesSession {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sess := sr.mines[id]
	if sess != nil {
		sess.lastSeen = time.Now()
	}
	return sess
}

func (sr *sessionRegistry) removeMines(id string) {
	sr.mu.Lock()
	delete(sr.mines, id)
	sr.mu.Unlock()
}

// sweep drops sessions idle past the TTL. Called periodically by the server.
func (sr *sessionRegistry) sweep(now time.Time) int {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	removed := 0
	for id, sess := range sr.blackjack {
		if now.Sub(sess.lastSeen) > sessionTTL {
			delete(sr.blackjack, id)
			removed++
		}
	}
	for id, sess := range sr.mines {
		if now.Sub(sess.lastSeen) > sessionTTL {
			delete(sr.mines, id)
			removed++
		}
	}
	return removed
}
