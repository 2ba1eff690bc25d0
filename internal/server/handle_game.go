package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/flightgame/internal/gameapi"
	"github.com/playperu/flightgame/internal/httpkit"
	"github.com/playperu/flightgame/internal/session"
	"github.com/playperu/flightgame/internal/view"
)

type PlayerRequest struct {
	Name string `json:"name"`
}

type FlyRequest struct {
	Dest string `json:"dest"`
}

func handleView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpkit.WriteJSON(w, http.StatusOK, view.Render(controller(r).State()))
	}
}

func handlePlayer(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayerRequest
		if err := httpkit.ReadJSON(r, &req); err != nil {
			httpkit.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		ctrl := controller(r)
		if err := ctrl.SubmitName(r.Context(), req.Name); err != nil {
			writeControllerError(w, logger, err)
			return
		}
		httpkit.WriteJSON(w, http.StatusOK, view.Render(ctrl.State()))
	}
}

func handleFly(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FlyRequest
		if err := httpkit.ReadJSON(r, &req); err != nil {
			httpkit.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		ctrl := controller(r)
		if err := ctrl.Fly(r.Context(), req.Dest); err != nil {
			writeControllerError(w, logger, err)
			return
		}
		httpkit.WriteJSON(w, http.StatusOK, view.Render(ctrl.State()))
	}
}

func handleRefresh(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl := controller(r)
		if err := ctrl.Refresh(r.Context()); err != nil {
			writeControllerError(w, logger, err)
			return
		}
		httpkit.WriteJSON(w, http.StatusOK, view.Render(ctrl.State()))
	}
}

func writeControllerError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, session.ErrEmptyName), errors.Is(err, session.ErrNoDestination):
		httpkit.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrAlreadyPlaying), errors.Is(err, session.ErrNotPlaying):
		httpkit.WriteError(w, http.StatusConflict, err.Error())
	case gameapi.IsNetworkError(err), gameapi.IsParseError(err):
		httpkit.WriteError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error("unexpected controller error", "error", err)
		httpkit.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
