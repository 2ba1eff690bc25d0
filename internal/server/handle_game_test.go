package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/playperu/flightgame/internal/flightgame"
	"github.com/playperu/flightgame/internal/gameapi"
	"github.com/playperu/flightgame/internal/httpkit"
	"github.com/playperu/flightgame/internal/view"
)

// fakeGame is a scripted game API. Flying to the goal ends the game.
type fakeGame struct {
	mu      sync.Mutex
	goal    string
	current string
	failFly error
	pingErr error
}

func (f *fakeGame) state(player string, status flightgame.Status) flightgame.GameState {
	locs := []flightgame.Location{
		{ID: "EFHK", Name: "Helsinki Vantaa Airport", Latitude: 60.3172, Longitude: 24.9633},
		{ID: "EFTU", Name: "Turku Airport", Latitude: 60.5141, Longitude: 22.2628, Distance: 150},
		{ID: "EFOU", Name: "Oulu Airport", Latitude: 64.9301, Longitude: 25.3546, Distance: 513},
	}
	for i := range locs {
		locs[i].Active = locs[i].ID == f.current
	}
	return flightgame.GameState{
		Player:            player,
		CurrentLocation:   f.current,
		Locations:         locs,
		RemainingDistance: 3000,
		RemainingTime:     420,
		Status:            status,
	}
}

func (f *fakeGame) StartGame(_ context.Context, player, origin string) (flightgame.GameState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = origin
	return f.state(player, flightgame.StatusOK), nil
}

func (f *fakeGame) FlyTo(_ context.Context, player, dest string) (flightgame.GameState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFly != nil {
		return flightgame.GameState{}, f.failFly
	}
	f.current = dest
	if dest == f.goal {
		s := f.state(player, flightgame.StatusVictory)
		s.Message = "You reached the goal airport!"
		return s, nil
	}
	return f.state(player, flightgame.StatusOK), nil
}

func (f *fakeGame) Refresh(_ context.Context, player string) (flightgame.GameState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state(player, flightgame.StatusOK), nil
}

func (f *fakeGame) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeGame) failFlights(err error) {
	f.mu.Lock()
	f.failFly = err
	f.mu.Unlock()
}

type testHost struct {
	handler  http.Handler
	game     *fakeGame
	sessions *Registry
	broker   *Broker
}

func newTestHost(t *testing.T) *testHost {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	game := &fakeGame{goal: "EFOU"}
	broker := NewBroker()
	sessions := NewRegistry(game, broker, logger, "EFHK")
	return &testHost{
		handler:  NewHandler(logger, game, sessions, broker, ""),
		game:     game,
		sessions: sessions,
		broker:   broker,
	}
}

// do sends a request carrying cookie (when set) and returns the recorder.
func (h *testHost) do(t *testing.T, method, target string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

// newSession issues a session cookie through GET /api/view.
func (h *testHost) newSession(t *testing.T) *http.Cookie {
	t.Helper()
	rec := h.do(t, http.MethodGet, "/api/view", nil, nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("expected a session cookie")
	return nil
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) view.View {
	t.Helper()
	var v view.View
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding view: %v", err)
	}
	return v
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var e httpkit.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decoding error: %v", err)
	}
	return e.Error
}

func TestInitialView(t *testing.T) {
	h := newTestHost(t)

	rec := h.do(t, http.MethodGet, "/api/view", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	v := decodeView(t, rec)
	if !v.Modal.Visible {
		t.Error("expected name prompt on a new session")
	}
	if len(v.Markers) != 0 {
		t.Errorf("expected no markers, got %d", len(v.Markers))
	}
	if h.sessions.Len() != 1 {
		t.Errorf("expected 1 session, got %d", h.sessions.Len())
	}
}

func TestSessionCookieReused(t *testing.T) {
	h := newTestHost(t)
	cookie := h.newSession(t)

	rec := h.do(t, http.MethodGet, "/api/view", nil, cookie)
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no new cookie for a known session")
	}
	if h.sessions.Len() != 1 {
		t.Errorf("expected 1 session, got %d", h.sessions.Len())
	}

	// A malformed cookie gets replaced.
	rec = h.do(t, http.MethodGet, "/api/view", nil, &http.Cookie{Name: sessionCookieName, Value: "not-a-uuid"})
	if len(rec.Result().Cookies()) != 1 {
		t.Error("expected a fresh cookie for a malformed session id")
	}
}

func TestSubmitPlayer(t *testing.T) {
	h := newTestHost(t)
	cookie := h.newSession(t)

	rec := h.do(t, http.MethodPost, "/api/player", PlayerRequest{Name: "   "}, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank name: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = h.do(t, http.MethodPost, "/api/player", PlayerRequest{Name: "Aino"}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	v := decodeView(t, rec)
	if v.Modal.Visible {
		t.Error("expected prompt hidden once playing")
	}
	if v.Panel.Player != "Aino" || v.Panel.CurrentLocation != "Helsinki Vantaa Airport" {
		t.Errorf("unexpected panel: %+v", v.Panel)
	}
	if v.ActiveCount() != 1 {
		t.Errorf("expected one active marker, got %d", v.ActiveCount())
	}

	rec = h.do(t, http.MethodPost, "/api/player", PlayerRequest{Name: "Eero"}, cookie)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second start: status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestInvalidBody(t *testing.T) {
	h := newTestHost(t)

	req := httptest.NewRequest(http.MethodPost, "/api/player", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestFlyErrors(t *testing.T) {
	h := newTestHost(t)
	cookie := h.newSession(t)

	rec := h.do(t, http.MethodPost, "/api/fly", FlyRequest{Dest: "EFTU"}, cookie)
	if rec.Code != http.StatusConflict {
		t.Fatalf("fly before start: status = %d, want %d", rec.Code, http.StatusConflict)
	}
	rec = h.do(t, http.MethodPost, "/api/refresh", nil, cookie)
	if rec.Code != http.StatusConflict {
		t.Fatalf("refresh before start: status = %d, want %d", rec.Code, http.StatusConflict)
	}

	h.do(t, http.MethodPost, "/api/player", PlayerRequest{Name: "Aino"}, cookie)

	rec = h.do(t, http.MethodPost, "/api/fly", FlyRequest{}, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing dest: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	h.game.failFlights(&gameapi.NetworkError{Op: "flying to EFTU", StatusCode: http.StatusBadRequest, Message: "Not enough remaining distance to travel."})
	rec = h.do(t, http.MethodPost, "/api/fly", FlyRequest{Dest: "EFTU"}, cookie)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("api failure: status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
	if msg := decodeError(t, rec); msg == "" {
		t.Error("expected an error message")
	}

	// The failed flight leaves the position unchanged and surfaces the alert.
	v := decodeView(t, h.do(t, http.MethodGet, "/api/view", nil, cookie))
	if v.Panel.CurrentLocation != "Helsinki Vantaa Airport" {
		t.Errorf("current location = %q, want Helsinki Vantaa Airport", v.Panel.CurrentLocation)
	}
	if v.Alert == "" {
		t.Error("expected alert text in view")
	}

	h.game.failFlights(errors.New("boom"))
	rec = h.do(t, http.MethodPost, "/api/fly", FlyRequest{Dest: "EFTU"}, cookie)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected error: status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestFlyToVictory(t *testing.T) {
	h := newTestHost(t)
	cookie := h.newSession(t)
	h.do(t, http.MethodPost, "/api/player", PlayerRequest{Name: "Aino"}, cookie)

	rec := h.do(t, http.MethodPost, "/api/fly", FlyRequest{Dest: "EFTU"}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if v := decodeView(t, rec); v.Panel.CurrentLocation != "Turku Airport" {
		t.Errorf("current location = %q, want Turku Airport", v.Panel.CurrentLocation)
	}

	rec = h.do(t, http.MethodPost, "/api/refresh", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = h.do(t, http.MethodPost, "/api/fly", FlyRequest{Dest: "EFOU"}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	v := decodeView(t, rec)
	if !v.Modal.Visible {
		t.Error("expected name prompt after victory")
	}
	if v.Modal.Player != "Aino" {
		t.Errorf("prompt player = %q, want Aino", v.Modal.Player)
	}
	if v.Notice == "" {
		t.Error("expected victory notice")
	}

	// A new game can start from the prompt.
	rec = h.do(t, http.MethodPost, "/api/player", PlayerRequest{Name: "Aino"}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("restart: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newTestHost(t)
	a := h.newSession(t)
	b := h.newSession(t)

	h.do(t, http.MethodPost, "/api/player", PlayerRequest{Name: "Aino"}, a)

	v := decodeView(t, h.do(t, http.MethodGet, "/api/view", nil, b))
	if !v.Modal.Visible {
		t.Error("second browser should still see the name prompt")
	}
}

func TestHealth(t *testing.T) {
	h := newTestHost(t)

	rec := h.do(t, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	h.game.pingErr = errors.New("connection refused")
	rec = h.do(t, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var body map[string]struct {
		Status string `json:"status"`
	}
	json.NewDecoder(rec.Body).Decode(&body)
	if body["gameapi"].Status != "error" {
		t.Errorf("gameapi status = %q, want error", body["gameapi"].Status)
	}
}
