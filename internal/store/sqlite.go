// Package store persists player profiles and the per-round history feed in
// SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Player is a persisted profile row.
type Player struct {
	Name        string    `json:"name"`
	Points      int64     `json:"points"`
	GamesPlayed int64     `json:"games_played"`
	Wins        int64     `json:"wins"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Round is one completed game round: the result-sink record emitted after
// every resolution.
type Round struct {
	ID        uuid.UUID `json:"id"`
	Player    string    `json:"player"`
	Game      string    `json:"game"`
	TotalBet  int64     `json:"total_bet"`
	Winnings  int64     `json:"winnings"`
	Net       int64     `json:"net"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens/creates the database at dbPath and runs migrations.
func Open(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database answers.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS players (
			name TEXT PRIMARY KEY,
			points INTEGER NOT NULL,
			games_played INTEGER NOT NULL DEFAULT 0,
			wins INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			game TEXT NOT NULL,
			total_bet INTEGER NOT NULL,
			winnings INTEGER NOT NULL,
			net INTEGER NOT NULL,
			detail TEXT DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY(player) REFERENCES players(name)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_created ON rounds(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_player_created ON rounds(player, created_at DESC);`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// LoadOrCreatePlayer returns the profile for name, creating it with the
// given starting balance when absent.
func (s *Store) LoadOrCreatePlayer(ctx context.Context, name string, startingPoints int64) (Player, error) {
	var p Player
	err := s.db.QueryRowContext(ctx,
		`SELECT name, points, games_played, wins, updated_at FROM players WHERE name=?`,
		name).Scan(&p.Name, &p.Points, &p.GamesPlayed, &p.Wins, &p.UpdatedAt)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, sql.ErrNoRows):
		now := time.Now().UTC()
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO players(name, points, games_played, wins, updated_at) VALUES(?, ?, 0, 0, ?)`,
			name, startingPoints, now); err != nil {
			return Player{}, fmt.Errorf("failed to create player %q: %w", name, err)
		}
		return Player{Name: name, Points: startingPoints, UpdatedAt: now}, nil
	default:
		return Player{}, err
	}
}

// SavePlayer flushes the profile's balance and counters.
func (s *Store) SavePlayer(ctx context.Context, p Player) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE players SET points=?, games_played=?, wins=?, updated_at=? WHERE name=?`,
		p.Points, p.GamesPlayed, p.Wins, time.Now().UTC(), p.Name)
	return err
}

// RecordRound appends one completed round to the history feed. The assigned
// id is returned.
func (s *Store) RecordRound(ctx context.Context, r Round) (uuid.UUID, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds(id, player, game, total_bet, winnings, net, detail, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Player, r.Game, r.TotalBet, r.Winnings, r.Net, r.Detail, r.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record round: %w", err)
	}
	return r.ID, nil
}

// GameStats is a per-game rollup of a player's history.
type GameStats struct {
	Game   string `json:"game"`
	Rounds int64  `json:"rounds"`
	Wins   int64  `json:"wins"`
	Net    int64  `json:"net"`
}

// StatsByGame aggregates the player's round history per game. A win is a
// round with positive net.
func (s *Store) StatsByGame(ctx context.Context, player string) ([]GameStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game, COUNT(*), SUM(CASE WHEN net > 0 THEN 1 ELSE 0 END), SUM(net)
		 FROM rounds WHERE player=? GROUP BY game ORDER BY game`,
		player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameStats
	for rows.Next() {
		var g GameStats
		if err := rows.Scan(&g.Game, &g.Rounds, &g.Wins, &g.Net); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// RecentRounds returns the newest rounds for a player, newest first,
// limited to limit rows (default 50, capped at 500).
func (s *Store) RecentRounds(ctx context.Context, player string, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player, game, total_bet, winnings, net, detail, created_at
		 FROM rounds WHERE player=? ORDER BY created_at DESC, id LIMIT ?`,
		player, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Round
	for rows.Next() {
		var r Round
		var idStr string
		if err := rows.Scan(&idStr, &r.Player, &r.Game, &r.TotalBet, &r.Winnings, &r.Net, &r.Detail, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt round id %q: %w", idStr, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
