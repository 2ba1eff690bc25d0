package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/flightgame/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, api GameAPI, sessions *Registry, broker *Broker, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", handleSwaggerUI())
	r.Mount("/healthz", health.NewHandler(logger, map[string]health.Checker{
		"gameapi": health.CheckerFunc(api.Ping),
	}).Routes())

	// Browser routes: the session cookie picks the controller.
	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware(sessions))
		r.Get("/ws", handleViewStream(logger, broker))

		r.Route("/api", func(r chi.Router) {
			r.Get("/view", handleView())
			r.Post("/player", handlePlayer(logger))
			r.Post("/fly", handleFly(logger))
			r.Post("/refresh", handleRefresh(logger))
			r.Get("/events", handleEvents(broker))
		})
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
