package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MJE43/points-casino-go/internal/engine"
	"github.com/MJE43/points-casino-go/internal/store"
	"github.com/MJE43/points-casino-go/internal/wallet"
)

// Config carries server wiring options.
type Config struct {
	// PlayerName is the profile loaded at startup. The server runs a single
	// player profile per process.
	PlayerName string
	// StartingPoints seeds a freshly created profile.
	StartingPoints int64
	// AllowedOrigins for browser overlays. Empty means allow all.
	AllowedOrigins []string
	Logger         *log.Logger
}

// Server hosts the game engines over HTTP. Engine calls mutate the shared
// wallet; persistence happens after each completed round.
type Server struct {
	store    *store.Store
	wallet   *wallet.Wallet
	rng      engine.Source
	sessions *sessionRegistry
	logger   *log.Logger

	playerName string
	router     chi.Router
}

// NewServer loads (or creates) the player profile and builds the route tree.
func NewServer(ctx context.Context, st *store.Store, cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile)
	}

	player, err := st.LoadOrCreatePlayer(ctx, cfg.PlayerName, cfg.StartingPoints)
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:      st,
		wallet:     wallet.New(player.Name, player.Points, player.GamesPlayed, player.Wins),
		rng:        &engine.Crypto{},
		sessions:   newSessionRegistry(),
		logger:     logger,
		playerName: player.Name,
	}
	s.router = s.buildRouter(cfg)
	return s, nil
}

func (s *Server) buildRouter(cfg Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/health/live", s.handleHealth)
	r.Get("/health/ready", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/player", s.handlePlayer)
		r.Get("/history", s.handleHistory)

		r.Post("/plinko/drop", s.handlePlinkoDrop)
		r.Get("/plinko/difficulties", s.handlePlinkoDifficulties)

		r.Post("/blackjack/deal", s.handleBlackjackDeal)
		r.Route("/blackjack/{id}", func(r chi.Router) {
			r.Get("/", s.handleBlackjackState)
			r.Post("/hit", s.handleBlackjackHit)
			r.Post("/stand", s.handleBlackjackStand)
			r.Post("/double", s.handleBlackjackDouble)
			r.Post("/split", s.handleBlackjackSplit)
			r.Post("/insurance", s.handleBlackjackInsurance)
		})

		r.Post("/mines/start", s.handleMinesStart)
		r.Post("/mines/{id}/reveal", s.handleMinesReveal)
		r.Post("/mines/{id}/cashout", s.handleMinesCashOut)

		r.Post("/hunt/stats", s.handleHuntStats)
	})

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then drains connections and persists
// the player profile.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := s.sessions.sweep(now); n > 0 {
					s.logger.Printf("session_sweep removed=%d", n)
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("server_listening addr=%s player=%s", addr, s.playerName)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Printf("shutdown_error message=%q", err.Error())
	}
	<-sweepDone

	if err := s.persistPlayer(shutdownCtx); err != nil {
		s.logger.Printf("persist_error message=%q", err.Error())
		return err
	}
	return nil
}

// persistPlayer flushes the in-memory wallet back to the store.
func (s *Server) persistPlayer(ctx context.Context) error {
	points, played, wins := s.wallet.Snapshot()
	return s.store.SavePlayer(ctx, store.Player{
		Name:        s.playerName,
		Points:      points,
		GamesPlayed: played,
		Wins:        wins,
	})
}
