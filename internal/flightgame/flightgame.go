// Package flightgame defines the game-state types exchanged with the game API.
// It imports nothing outside the standard library.
package flightgame

import (
	"encoding/json"
	"fmt"
)

// DefaultOrigin is the airport every new game starts from unless configured otherwise.
const DefaultOrigin = "EFHK"

type Status string

const (
	StatusOK      Status = "ok"
	StatusGoal    Status = "goal"
	StatusVictory Status = "victory"
	StatusRestart Status = "restart"
)

// Terminal reports whether the status ends the current game.
func (s Status) Terminal() bool {
	return s == StatusVictory || s == StatusRestart
}

func (s Status) Valid() bool {
	switch s {
	case StatusOK, StatusGoal, StatusVictory, StatusRestart:
		return true
	}
	return false
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = StatusOK
		return nil
	}
	if !Status(raw).Valid() {
		return fmt.Errorf("unknown game status %q", raw)
	}
	*s = Status(raw)
	return nil
}

type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance"`
	Active    bool    `json:"active"`
}

func (l *Location) UnmarshalJSON(data []byte) error {
	type plain Location
	var aux struct {
		plain
		ICAO string `json:"icao"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*l = Location(aux.plain)
	if l.ID == "" {
		l.ID = aux.ICAO
	}
	return nil
}

// GameState is the snapshot the game API returns on every request. It is
// replaced wholesale; nothing in it is derived or mutated client-side.
type GameState struct {
	Player            string     `json:"player"`
	CurrentLocation   string     `json:"current_location,omitempty"`
	Locations         []Location `json:"locations"`
	RemainingDistance float64    `json:"remaining_distance"`
	RemainingTime     float64    `json:"remaining_time"`
	GoalsFound        int        `json:"goals_found"`
	Status            Status     `json:"status"`
	Message           string     `json:"message,omitempty"`
	GoalAirport       string     `json:"goal_airport,omitempty"`
}

func (g *GameState) UnmarshalJSON(data []byte) error {
	type plain GameState
	var aux struct {
		plain
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*g = GameState(aux.plain)
	if g.Player == "" {
		g.Player = aux.Name
	}
	if g.Status == "" {
		g.Status = StatusOK
	}
	return nil
}

// ActiveLocation returns the first location flagged active. The server is
// expected to flag exactly one; that is not checked here.
func (g GameState) ActiveLocation() (Location, bool) {
	for _, l := range g.Locations {
		if l.Active {
			return l, true
		}
	}
	return Location{}, false
}

// Location looks a location up by id.
func (g GameState) Location(id string) (Location, bool) {
	for _, l := range g.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}
