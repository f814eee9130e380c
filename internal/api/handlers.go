package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MJE43/points-casino-go/internal/games"
	"github.com/MJE43/points-casino-go/internal/hunt"
	"github.com/MJE43/points-casino-go/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady additionally proves the database answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.writeError(w, r, http.StatusServiceUnavailable, ErrTypeInternal, "database unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// playerResponse is the wallet snapshot returned by GET /api/v1/player,
// with per-game rollups from the round history.
type playerResponse struct {
	Name        string            `json:"name"`
	Points      int64             `json:"points"`
	GamesPlayed int64             `json:"games_played"`
	Wins        int64             `json:"wins"`
	PerGame     []store.GameStats `json:"per_game"`
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	perGame, err := s.store.StatsByGame(r.Context(), s.playerName)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	if perGame == nil {
		perGame = []store.GameStats{}
	}
	points, played, wins := s.wallet.Snapshot()
	s.writeJSON(w, http.StatusOK, playerResponse{
		Name:        s.playerName,
		Points:      points,
		GamesPlayed: played,
		Wins:        wins,
		PerGame:     perGame,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidParams, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	rounds, err := s.store.RecentRounds(r.Context(), s.playerName, limit)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	if rounds == nil {
		rounds = []store.Round{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"rounds": rounds})
}

// decodeBody parses a JSON request body into dst, rejecting unknown fields.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidParams, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// recordRound logs a finished round to history. Failures are logged, never
// surfaced: the game already resolved and the wallet already moved.
func (s *Server) recordRound(r *http.Request, sum games.RoundSummary, detail any) {
	var detailJSON string
	if detail != nil {
		if b, err := json.Marshal(detail); err == nil {
			detailJSON = string(b)
		}
	}
	_, err := s.store.RecordRound(r.Context(), store.Round{
		Player:   s.playerName,
		Game:     sum.Game,
		TotalBet: sum.TotalBet,
		Winnings: sum.TotalWinnings,
		Net:      sum.Net,
		Detail:   detailJSON,
	})
	if err != nil {
		s.logger.Printf("record_round_failed game=%s message=%q", sum.Game, err.Error())
	}
	if err := s.persistPlayer(r.Context()); err != nil {
		s.logger.Printf("persist_player_failed message=%q", err.Error())
	}
}

// --- Plinko ---

type plinkoDropRequest struct {
	Bet        int64  `json:"bet"`
	Balls      int    `json:"balls"`
	Difficulty string `json:"difficulty"`
}

func (s *Server) handlePlinkoDrop(w http.ResponseWriter, r *http.Request) {
	var req plinkoDropRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	result, err := games.DropBalls(s.wallet, s.rng, req.Bet, req.Balls, req.Difficulty)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	s.recordRound(r, result.Summary(), result.Balls)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePlinkoDifficulties(w http.ResponseWriter, r *http.Request) {
	type difficultyInfo struct {
		ID          string    `json:"id"`
		Multipliers []float64 `json:"multipliers"`
		RiskChance  float64   `json:"risk_chance"`
	}
	var out []difficultyInfo
	for _, id := range games.PlinkoDifficulties() {
		cfg, err := games.PlinkoDifficultyConfig(id)
		if err != nil {
			continue
		}
		out = append(out, difficultyInfo{ID: id, Multipliers: cfg.Multipliers, RiskChance: cfg.RiskChance})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"difficulties": out})
}

// --- Blackjack ---

type blackjackDealRequest struct {
	Bet             int64 `json:"bet"`
	PerfectPairsBet int64 `json:"perfect_pairs_bet"`
}

// blackjackMinBet is the table minimum, enforced at the API boundary so the
// engine stays free of table policy.
const blackjackMinBet = 5

// blackjackResponse pairs the session ID with the round snapshot.
type blackjackResponse struct {
	ID      string               `json:"id"`
	State   games.BlackjackState `json:"state"`
	Balance int64                `json:"balance"`
}

func (s *Server) handleBlackjackDeal(w http.ResponseWriter, r *http.Request) {
	var req blackjackDealRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Bet < blackjackMinBet {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidParams,
			fmt.Sprintf("bet must be at least %d", blackjackMinBet))
		return
	}
	round, err := games.NewBlackjackRound(s.wallet, s.rng, req.Bet, req.PerfectPairsBet)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	// A deal can resolve immediately on naturals; only live rounds get a
	// session entry.
	var id string
	if round.Phase() == games.PhaseResolved {
		s.recordRound(r, *round.Summary(), round.State())
	} else {
		id = s.sessions.putBlackjack(round)
	}
	s.writeJSON(w, http.StatusOK, blackjackResponse{ID: id, State: round.State(), Balance: s.wallet.Balance()})
}

type blackjackInsuranceRequest struct {
	Amount int64 `json:"amount"`
}

// withBlackjack runs fn against the identified round while holding its lock.
// Concurrent actions on the same round get a busy rejection rather than a
// queue.
func (s *Server) withBlackjack(w http.ResponseWriter, r *http.Request, fn func(*games.BlackjackRound) error) {
	id := chi.URLParam(r, "id")
	sess := s.sessions.getBlackjack(id)
	if sess == nil {
		s.writeError(w, r, http.StatusNotFound, ErrTypeRoundNotFound, "no active blackjack round with that id")
		return
	}
	if !sess.mu.TryLock() {
		s.writeError(w, r, http.StatusConflict, ErrTypeRoundBusy, "another action on this round is in flight")
		return
	}
	defer sess.mu.Unlock()

	if err := fn(sess.round); err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	if sess.round.Phase() == games.PhaseResolved {
		s.sessions.removeBlackjack(id)
		s.recordRound(r, *sess.round.Summary(), sess.round.State())
	}
	s.writeJSON(w, http.StatusOK, blackjackResponse{ID: id, State: sess.round.State(), Balance: s.wallet.Balance()})
}

func (s *Server) handleBlackjackState(w http.ResponseWriter, r *http.Request) {
	s.withBlackjack(w, r, func(*games.BlackjackRound) error { return nil })
}

func (s *Server) handleBlackjackHit(w http.ResponseWriter, r *http.Request) {
	s.withBlackjack(w, r, (*games.BlackjackRound).Hit)
}

func (s *Server) handleBlackjackStand(w http.ResponseWriter, r *http.Request) {
	s.withBlackjack(w, r, (*games.BlackjackRound).Stand)
}

func (s *Server) handleBlackjackDouble(w http.ResponseWriter, r *http.Request) {
	s.withBlackjack(w, r, (*games.BlackjackRound).Double)
}

func (s *Server) handleBlackjackSplit(w http.ResponseWriter, r *http.Request) {
	s.withBlackjack(w, r, (*games.BlackjackRound).Split)
}

func (s *Server) handleBlackjackInsurance(w http.ResponseWriter, r *http.Request) {
	var req blackjackInsuranceRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	s.withBlackjack(w, r, func(round *games.BlackjackRound) error {
		return round.Insurance(req.Amount)
	})
}

// --- Mines ---

type minesStartRequest struct {
	Bet   int64 `json:"bet"`
	Mines int   `json:"mines"`
}

type minesStartResponse struct {
	ID         string  `json:"id"`
	Bet        int64   `json:"bet"`
	Mines      int     `json:"mines"`
	Multiplier float64 `json:"multiplier"`
	Balance    int64   `json:"balance"`
}

func (s *Server) handleMinesStart(w http.ResponseWriter, r *http.Request) {
	var req minesStartRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	round, err := games.StartMines(s.wallet, s.rng, req.Bet, req.Mines)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	id := s.sessions.putMines(round)
	s.writeJSON(w, http.StatusOK, minesStartResponse{
		ID:         id,
		Bet:        round.Bet,
		Mines:      round.MineCount,
		Multiplier: round.Multiplier,
		Balance:    s.wallet.Balance(),
	})
}

type minesRevealRequest struct {
	Cell int `json:"cell"`
}

type minesRevealResponse struct {
	games.MinesReveal
	Balance int64 `json:"balance"`
}

func (s *Server) handleMinesReveal(w http.ResponseWriter, r *http.Request) {
	var req minesRevealRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	sess := s.sessions.getMines(id)
	if sess == nil {
		s.writeError(w, r, http.StatusNotFound, ErrTypeRoundNotFound, "no active mines round with that id")
		return
	}
	if !sess.mu.TryLock() {
		s.writeError(w, r, http.StatusConflict, ErrTypeRoundBusy, "another action on this round is in flight")
		return
	}
	defer sess.mu.Unlock()

	reveal, err := sess.round.Reveal(req.Cell)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	if !sess.round.Active {
		s.sessions.removeMines(id)
		s.recordRound(r, sess.round.Summary(reveal.Payout), reveal)
	}
	s.writeJSON(w, http.StatusOK, minesRevealResponse{MinesReveal: *reveal, Balance: s.wallet.Balance()})
}

type minesCashOutResponse struct {
	Payout     int64   `json:"payout"`
	Multiplier float64 `json:"multiplier"`
	Revealed   int     `json:"revealed"`
	Balance    int64   `json:"balance"`
}

func (s *Server) handleMinesCashOut(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess := s.sessions.getMines(id)
	if sess == nil {
		s.writeError(w, r, http.StatusNotFound, ErrTypeRoundNotFound, "no active mines round with that id")
		return
	}
	if !sess.mu.TryLock() {
		s.writeError(w, r, http.StatusConflict, ErrTypeRoundBusy, "another action on this round is in flight")
		return
	}
	defer sess.mu.Unlock()

	payout, err := sess.round.CashOut()
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	s.sessions.removeMines(id)
	s.recordRound(r, sess.round.Summary(payout), nil)
	s.writeJSON(w, http.StatusOK, minesCashOutResponse{
		Payout:     payout,
		Multiplier: sess.round.Multiplier,
		Revealed:   sess.round.RevealedCount(),
		Balance:    s.wallet.Balance(),
	})
}

// --- Bonus hunt ---

type huntStatsRequest struct {
	StartingBalance float64            `json:"starting_balance"`
	OpeningBalance  float64            `json:"opening_balance"`
	Bonuses         []hunt.BonusRecord `json:"bonuses"`
}

func (s *Server) handleHuntStats(w http.ResponseWriter, r *http.Request) {
	var req huntStatsRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, hunt.ComputeStats(req.StartingBalance, req.OpeningBalance, req.Bonuses))
}
