package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MJE43/points-casino-go/internal/api"
	"github.com/MJE43/points-casino-go/internal/store"
	"github.com/MJE43/points-casino-go/internal/wallet"
)

func main() {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	logger := log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile)

	addr := flag.String("addr", envOr("CASINO_ADDR", ":8090"), "listen address")
	dbPath := flag.String("db", envOr("CASINO_DB", "casino.db"), "sqlite database path")
	player := flag.String("player", envOr("CASINO_PLAYER", "player"), "player profile name")
	flag.Parse()

	startingPoints := int64(wallet.DefaultStartingPoints)
	if raw := os.Getenv("CASINO_STARTING_POINTS"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			logger.Fatalf("invalid CASINO_STARTING_POINTS: %q", raw)
		}
		startingPoints = n
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := api.NewServer(ctx, st, api.Config{
		PlayerName:     *player,
		StartingPoints: startingPoints,
		AllowedOrigins: splitOrigins(os.Getenv("CASINO_ALLOWED_ORIGINS")),
		Logger:         logger,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	if err := srv.Run(ctx, *addr); err != nil {
		logger.Fatalf("server: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
