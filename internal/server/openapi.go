package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/flightgame/internal/handler/health"
	"github.com/playperu/flightgame/internal/httpkit"
	"github.com/playperu/flightgame/internal/view"
)

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Flight Game"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Browser-facing API of the flight game map client. " +
		"Each browser gets a session through the fg_session cookie.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports whether the game API is reachable.")
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/view
	getView, _ := r.NewOperationContext(http.MethodGet, "/api/view")
	getView.SetSummary("Current view")
	getView.SetDescription("Returns the rendered map, panel and name prompt for this session.")
	getView.AddRespStructure(view.View{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getView)

	// POST /api/player
	postPlayer, _ := r.NewOperationContext(http.MethodPost, "/api/player")
	postPlayer.SetSummary("Start a game")
	postPlayer.SetDescription("Submits the player name from the prompt and starts a new game.")
	postPlayer.AddReqStructure(PlayerRequest{})
	postPlayer.AddRespStructure(view.View{}, openapi.WithHTTPStatus(http.StatusOK))
	postPlayer.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postPlayer.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postPlayer.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postPlayer)

	// POST /api/fly
	postFly, _ := r.NewOperationContext(http.MethodPost, "/api/fly")
	postFly.SetSummary("Fly")
	postFly.SetDescription("Flies to the destination airport and returns the new view.")
	postFly.AddReqStructure(FlyRequest{})
	postFly.AddRespStructure(view.View{}, openapi.WithHTTPStatus(http.StatusOK))
	postFly.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postFly.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postFly.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postFly)

	// POST /api/refresh
	postRefresh, _ := r.NewOperationContext(http.MethodPost, "/api/refresh")
	postRefresh.SetSummary("Refresh")
	postRefresh.SetDescription("Fetches the current game state again.")
	postRefresh.AddRespStructure(view.View{}, openapi.WithHTTPStatus(http.StatusOK))
	postRefresh.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postRefresh.AddRespStructure(httpkit.ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postRefresh)

	// GET /api/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of view and alert events for this session.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws")
	getWS.SetSummary("WebSocket event stream")
	getWS.SetDescription("Upgrades to a WebSocket carrying the same events as /api/events, one JSON text frame each.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

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
	return v5emb.New("Flight Game", "/openapi.json", "/docs")
}
