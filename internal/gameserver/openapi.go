package gameserver

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/flightgame/internal/flightgame"
	"github.com/playperu/flightgame/internal/httpkit"
)

type newGameQuery struct {
	Player     string `query:"player" required:"true"`
	Loc        string `query:"loc" required:"true" description:"ICAO code of the origin airport."`
	Difficulty string `query:"difficulty" enum:"easy,normal,hard"`
}

type flyToQuery struct {
	Player string `query:"player" required:"true"`
	Dest   string `query:"dest" required:"true" description:"ICAO code of the destination airport."`
}

type playerQuery struct {
	Player string `query:"player" required:"true"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Flight Game API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Reference game-state service for the flight game.")

	newGame, _ := r.NewOperationContext(http.MethodGet, "/newgame")
	newGame.SetSummary("Start a game")
	newGame.SetDescription("Starts a new game for the player at the origin airport, replacing any game in progress.")
	newGame.AddReqStructure(newGameQuery{})
	newGame.AddRespStructure(flightgame.GameState{}, openapi.WithHTTPStatus(http.StatusOK))
	newGame.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	newGame.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(newGame)

	flyTo, _ := r.NewOperationContext(http.MethodGet, "/flyto")
	flyTo.SetSummary("Fly to an airport")
	flyTo.SetDescription("Spends distance and time to move the player. Status victory or restart ends the game.")
	flyTo.AddReqStructure(flyToQuery{})
	flyTo.AddRespStructure(flightgame.GameState{}, openapi.WithHTTPStatus(http.StatusOK))
	flyTo.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	flyTo.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(flyTo)

	game, _ := r.NewOperationContext(http.MethodGet, "/game")
	game.SetSummary("Get game state")
	game.AddReqStructure(playerQuery{})
	game.AddRespStructure(flightgame.GameState{}, openapi.WithHTTPStatus(http.StatusOK))
	game.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(game)

	stats, _ := r.NewOperationContext(http.MethodGet, "/stats")
	stats.SetSummary("Player statistics")
	stats.AddReqStructure(playerQuery{})
	stats.AddRespStructure(PlayerStats{}, openapi.WithHTTPStatus(http.StatusOK))
	stats.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(stats)

	airports, _ := r.NewOperationContext(http.MethodGet, "/airports")
	airports.SetSummary("List airports")
	airports.AddRespStructure([]Airport{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(airports)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func handleSwaggerUI() http.Handler {
	return v5emb.New("Flight Game API", "/openapi.json", "/docs")
}
