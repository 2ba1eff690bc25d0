package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/flightgame/internal/config"
	"github.com/playperu/flightgame/internal/gameapi"
	"github.com/playperu/flightgame/internal/server"
)

// sweepInterval is how often idle browser sessions are dropped.
const sweepInterval = time.Minute

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

	// --- Game API ---
	api, err := gameapi.New(cfg.GameAPIURL,
		gameapi.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		gameapi.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("configuring game api: %w", err)
	}
	logger.Info("using game api", "url", api.BaseURL(), "origin", cfg.StartLoc)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, api, server.Options{
		Origin: cfg.StartLoc,
		SPADir: cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gctx)
	})

	g.Go(func() error {
		return srv.Sessions.RunSweeper(gctx, cfg.SessionTTL, sweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
