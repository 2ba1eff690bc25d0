package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/playperu/flightgame/internal/flightgame"
	"github.com/playperu/flightgame/internal/gameapi"
)

type scriptedAPI struct {
	flights []string
}

func (a *scriptedAPI) game(player, current string, status flightgame.Status) flightgame.GameState {
	return flightgame.GameState{
		Player:          player,
		CurrentLocation: current,
		Locations: []flightgame.Location{
			{ID: "EFHK", Name: "Helsinki Vantaa Airport", Active: current == "EFHK"},
			{ID: "EFTU", Name: "Turku Airport", Distance: 150, Active: current == "EFTU"},
			{ID: "EFOU", Name: "Oulu Airport", Distance: 513, Active: current == "EFOU"},
		},
		RemainingDistance: 3000,
		RemainingTime:     420,
		Status:            status,
		Message:           map[flightgame.Status]string{flightgame.StatusVictory: "You won!"}[status],
	}
}

func (a *scriptedAPI) StartGame(_ context.Context, player, origin string) (flightgame.GameState, error) {
	return a.game(player, origin, flightgame.StatusOK), nil
}

func (a *scriptedAPI) FlyTo(_ context.Context, player, dest string) (flightgame.GameState, error) {
	a.flights = append(a.flights, dest)
	switch dest {
	case "EFOU":
		return a.game(player, dest, flightgame.StatusVictory), nil
	case "ZZZZ":
		return flightgame.GameState{}, &gameapi.NetworkError{Op: "flying to ZZZZ", StatusCode: 404, Message: "Airport not found."}
	}
	return a.game(player, dest, flightgame.StatusOK), nil
}

func (a *scriptedAPI) Refresh(_ context.Context, player string) (flightgame.GameState, error) {
	return a.game(player, "EFTU", flightgame.StatusOK), nil
}

func TestPlay(t *testing.T) {
	api := &scriptedAPI{}
	in := strings.NewReader(strings.Join([]string{
		"   ",
		"Aino",
		"fly",
		"fly zzzz",
		"f eftu",
		"refresh",
		"dance",
		"fly EFOU",
		":q",
	}, "\n"))
	var out bytes.Buffer

	if err := play(context.Background(), api, slog.New(slog.DiscardHandler), "EFHK", in, &out); err != nil {
		t.Fatalf("play: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Enter your name to start a new game.",
		"Please enter a name.",
		"Player: Aino",
		"Usage: fly <ICAO>",
		"! flying to ZZZZ: server returned status 404: Airport not found.",
		"Location: Turku Airport",
		"Commands:",
		"* You won!",
		"name> ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}

	if strings.Join(api.flights, ",") != "ZZZZ,EFTU,EFOU" {
		t.Errorf("flights = %v, want [ZZZZ EFTU EFOU]", api.flights)
	}
}

func TestPlayEndsOnEOF(t *testing.T) {
	var out bytes.Buffer
	if err := play(context.Background(), &scriptedAPI{}, slog.New(slog.DiscardHandler), "EFHK", strings.NewReader(""), &out); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Enter your name") {
		t.Errorf("expected the name prompt first, got %q", out.String())
	}
}

func TestPlayNameLooksLikeQuit(t *testing.T) {
	in := strings.NewReader("q\nquit\n")
	var out bytes.Buffer

	if err := play(context.Background(), &scriptedAPI{}, slog.New(slog.DiscardHandler), "EFHK", in, &out); err != nil {
		t.Fatalf("play: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Player: q") {
		t.Errorf("expected a game for player q, got\n%s", got)
	}
	if !strings.Contains(got, "q> ") {
		t.Errorf("expected the in-game prompt, got\n%s", got)
	}
}
