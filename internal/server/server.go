// Package server is the web host for the map client. It keeps one game
// session per browser and serves its rendered view as JSON, server-sent
// events and a websocket stream.
package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/flightgame/internal/httpkit"
)

type Options struct {
	Origin string
	SPADir string
}

type Server struct {
	*httpkit.Server
	Sessions *Registry
}

// NewHandler builds the web host's router around sessions.
func NewHandler(logger *slog.Logger, api GameAPI, sessions *Registry, broker *Broker, spaDir string) http.Handler {
	r := httpkit.NewRouter(logger)
	addRoutes(r, logger, api, sessions, broker, spaDir)
	return r
}

func New(addr string, logger *slog.Logger, api GameAPI, opts Options) *Server {
	broker := NewBroker()
	sessions := NewRegistry(api, broker, logger, opts.Origin)

	return &Server{
		Server:   httpkit.NewServer(addr, logger, NewHandler(logger, api, sessions, broker, opts.SPADir)),
		Sessions: sessions,
	}
}
