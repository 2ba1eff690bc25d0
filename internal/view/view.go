// Package view turns a session state into the full UI model: the name
// prompt, the status panel and one map marker per location.
//
// Render is a pure function and rebuilds everything on every call. There
// is no diffing; callers redraw from the returned View.
package view

import (
	"fmt"
	"math"

	"github.com/playperu/flightgame/internal/flightgame"
	"github.com/playperu/flightgame/internal/session"
)

type MarkerStyle string

const (
	StyleActive  MarkerStyle = "active"
	StyleDefault MarkerStyle = "default"
)

// unknownLocation is shown when no location in the state is flagged active.
const unknownLocation = "Unknown"

type View struct {
	Phase   string   `json:"phase"`
	Modal   Modal    `json:"modal"`
	Panel   Panel    `json:"panel"`
	Markers []Marker `json:"markers"`
	Bounds  *Bounds  `json:"bounds"`
	Notice  string   `json:"notice,omitempty"`
	Alert   string   `json:"alert,omitempty"`
}

// Modal is the name-entry overlay.
type Modal struct {
	Visible bool   `json:"visible"`
	Player  string `json:"player"`
}

type Panel struct {
	Player            string `json:"player"`
	CurrentLocation   string `json:"currentLocation"`
	RemainingDistance string `json:"remainingDistance"`
	RemainingTime     string `json:"remainingTime"`
	GoalsFound        int    `json:"goalsFound"`
}

type Marker struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Style     MarkerStyle `json:"style"`
	Popup     Popup       `json:"popup"`
	Fly       *FlyAction  `json:"fly,omitempty"`
}

type Popup struct {
	Title    string `json:"title"`
	Distance string `json:"distance,omitempty"`
	Button   string `json:"button,omitempty"`
}

// FlyAction is bound to every marker the player can fly to.
type FlyAction struct {
	Dest string `json:"dest"`
}

type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

func Render(s session.State) View {
	v := View{
		Phase:   s.Phase.String(),
		Modal:   Modal{Visible: s.Phase == session.NamePrompt, Player: s.Player},
		Panel:   Panel{Player: s.Player},
		Markers: []Marker{},
		Alert:   s.Alert,
	}
	if s.Game == nil {
		return v
	}

	g := s.Game
	v.Panel = renderPanel(s.Player, g)
	v.Markers = renderMarkers(g.Locations, s.Phase == session.Playing)
	v.Bounds = markerBounds(v.Markers)
	if g.Status != flightgame.StatusOK {
		v.Notice = g.Message
	}
	return v
}

func renderPanel(player string, g *flightgame.GameState) Panel {
	current := unknownLocation
	if l, ok := g.ActiveLocation(); ok {
		current = l.Name
	}
	if g.Player != "" {
		player = g.Player
	}
	return Panel{
		Player:            player,
		CurrentLocation:   current,
		RemainingDistance: fmt.Sprintf("%.0f km", g.RemainingDistance),
		RemainingTime:     fmt.Sprintf("%.0f min", g.RemainingTime),
		GoalsFound:        g.GoalsFound,
	}
}

// renderMarkers builds one marker per location. Fly actions are only
// offered while a game is in progress.
func renderMarkers(locations []flightgame.Location, playing bool) []Marker {
	markers := make([]Marker, 0, len(locations))
	for _, l := range locations {
		m := Marker{
			ID:        l.ID,
			Name:      l.Name,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
		}
		if l.Active {
			m.Style = StyleActive
			m.Popup = Popup{Title: "You are here: " + l.Name}
		} else {
			m.Style = StyleDefault
			m.Popup = Popup{
				Title:    l.Name,
				Distance: fmt.Sprintf("Distance %.0f km", l.Distance),
			}
			if playing {
				m.Popup.Button = "Fly here"
				m.Fly = &FlyAction{Dest: l.ID}
			}
		}
		markers = append(markers, m)
	}
	return markers
}

func markerBounds(markers []Marker) *Bounds {
	if len(markers) == 0 {
		return nil
	}
	b := Bounds{
		South: math.Inf(1),
		West:  math.Inf(1),
		North: math.Inf(-1),
		East:  math.Inf(-1),
	}
	for _, m := range markers {
		b.South = math.Min(b.South, m.Latitude)
		b.North = math.Max(b.North, m.Latitude)
		b.West = math.Min(b.West, m.Longitude)
		b.East = math.Max(b.East, m.Longitude)
	}
	return &b
}

// ActiveCount returns how many markers are styled as the player's position.
func (v View) ActiveCount() int {
	n := 0
	for _, m := range v.Markers {
		if m.Style == StyleActive {
			n++
		}
	}
	return n
}
