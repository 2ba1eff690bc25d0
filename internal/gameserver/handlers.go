package gameserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/flightgame/internal/handler/health"
	"github.com/playperu/flightgame/internal/httpkit"
)

// Routes mounts the game API on r. The endpoints are GETs with query
// parameters, matching what the map client sends.
func Routes(r chi.Router, svc *Service, logger *slog.Logger, checks map[string]health.Checker) {
	r.Use(allowAnyOrigin)

	r.Get("/newgame", handleNewGame(svc, logger))
	r.Get("/flyto", handleFlyTo(svc, logger))
	r.Get("/game", handleGame(svc, logger))
	r.Get("/airports", handleAirports(svc, logger))
	r.Get("/stats", handleStats(svc, logger))

	r.Mount("/healthz", health.NewHandler(logger, checks).Routes())
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", handleSwaggerUI())
}

func handleNewGame(svc *Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		state, err := svc.NewGame(r.Context(), q.Get("player"), q.Get("loc"), q.Get("difficulty"))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		httpkit.WriteJSON(w, http.StatusOK, state)
	}
}

func handleFlyTo(svc *Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		state, err := svc.FlyTo(r.Context(), q.Get("player"), q.Get("dest"))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		httpkit.WriteJSON(w, http.StatusOK, state)
	}
}

func handleGame(svc *Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := svc.Game(r.Context(), r.URL.Query().Get("player"))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		httpkit.WriteJSON(w, http.StatusOK, state)
	}
}

func handleAirports(svc *Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		airports, err := svc.Airports(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		if airports == nil {
			airports = []Airport{}
		}
		httpkit.WriteJSON(w, http.StatusOK, airports)
	}
}

func handleStats(svc *Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := r.URL.Query().Get("player")
		if player == "" {
			httpkit.WriteError(w, http.StatusBadRequest, "Missing player parameter.")
			return
		}
		stats, err := svc.Stats(r.Context(), player)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		httpkit.WriteJSON(w, http.StatusOK, stats)
	}
}

func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, ErrMissingParams):
		httpkit.WriteError(w, http.StatusBadRequest, "Missing player or location parameters.")
	case errors.Is(err, ErrUnknownDifficulty):
		httpkit.WriteError(w, http.StatusBadRequest, "Difficulty must be easy, normal or hard.")
	case errors.Is(err, ErrInsufficientDistance):
		httpkit.WriteError(w, http.StatusBadRequest, "Not enough remaining distance to travel.")
	case errors.Is(err, ErrInsufficientTime):
		httpkit.WriteError(w, http.StatusBadRequest, "Not enough remaining time to travel.")
	case errors.Is(err, ErrUnknownAirport):
		httpkit.WriteError(w, http.StatusNotFound, "Airport not found.")
	case errors.Is(err, ErrNoGame):
		httpkit.WriteError(w, http.StatusNotFound, "No game in progress for this player.")
	case errors.Is(err, ErrNoStats):
		httpkit.WriteError(w, http.StatusNotFound, "No statistics for this player.")
	default:
		logger.Error("game service error", "error", err)
		httpkit.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

// allowAnyOrigin lets a map page served from another origin call the API.
func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
