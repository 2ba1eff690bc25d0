package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/flightgame/internal/config"
	"github.com/playperu/flightgame/internal/database"
	"github.com/playperu/flightgame/internal/gameserver"
	"github.com/playperu/flightgame/internal/handler/health"
	"github.com/playperu/flightgame/internal/httpkit"
	"github.com/playperu/flightgame/internal/migrations"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	applied, err := migrations.Run(ctx, db)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath, "migrations_applied", applied)

	// --- Sessions ---
	var sessions gameserver.SessionStore
	if cfg.RedisURL != "" {
		rdb, err := gameserver.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		sessions = gameserver.NewRedisSessions(rdb, cfg.SessionTTL)
		logger.Info("connected to redis")
	} else {
		sessions = gameserver.NewMemorySessions(cfg.SessionTTL)
		logger.Info("using in-memory game sessions")
	}

	svc := gameserver.NewService(
		gameserver.NewAirportStore(db),
		gameserver.NewStatsStore(db),
		sessions,
		logger,
	)

	// --- HTTP Server ---
	r := httpkit.NewRouter(logger)
	gameserver.Routes(r, svc, logger, map[string]health.Checker{
		"sqlite":   dbChecker{db},
		"sessions": sessions,
	})
	srv := httpkit.NewServer(cfg.GameHTTPAddr, logger, r)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// dbChecker adapts *sql.DB to health.Checker.
type dbChecker struct{ db *sql.DB }

func (d dbChecker) Check(ctx context.Context) error { return d.db.PingContext(ctx) }
