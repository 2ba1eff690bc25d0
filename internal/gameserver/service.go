// Package gameserver is a reference implementation of the flight game API
// (newgame, flyto, game) used for local play and integration tests.
//
// Players start with a time and distance budget at an origin airport and
// must reach a randomly drawn goal airport. Each flight costs its great-circle
// distance and 15 minutes per 100 km. A game ends in victory at the goal, or
// is restarted once no unvisited airport is within reach.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/playperu/flightgame/internal/flightgame"
	"github.com/playperu/flightgame/internal/geo"
)

var (
	ErrMissingParams        = errors.New("missing parameters")
	ErrUnknownAirport       = errors.New("airport not found")
	ErrNoGame               = errors.New("no game in progress")
	ErrNoStats              = errors.New("no statistics for player")
	ErrUnknownDifficulty    = errors.New("unknown difficulty")
	ErrInsufficientDistance = errors.New("not enough remaining distance to travel")
	ErrInsufficientTime     = errors.New("not enough remaining time to travel")
)

// GoalAirports are the airports a goal is drawn from.
var GoalAirports = []string{"EFIV", "EFOU", "EFKS", "EFKT", "EFKE"}

const (
	DifficultyEasy   = "easy"
	DifficultyNormal = "normal"
	DifficultyHard   = "hard"
)

type budget struct {
	minutes float64
	km      float64
}

var budgets = map[string]budget{
	DifficultyEasy:   {minutes: 480, km: 4000},
	DifficultyNormal: {minutes: 420, km: 3000},
	DifficultyHard:   {minutes: 300, km: 2000},
}

const (
	victoryMessage = "Congratulations! You reached your goal airport."
	restartMessage = "No airport is within reach. The game will restart."
)

type Service struct {
	airports *AirportStore
	stats    *StatsStore
	sessions SessionStore
	logger   *slog.Logger
	pick     func(n int) int
	locks    *playerLocks
}

type Option func(*Service)

// WithPicker replaces the random goal picker; pick must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(s *Service) { s.pick = pick }
}

func NewService(airports *AirportStore, stats *StatsStore, sessions SessionStore, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		airports: airports,
		stats:    stats,
		sessions: sessions,
		logger:   logger,
		pick:     rand.IntN,
		locks:    newPlayerLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewGame starts (or restarts) the player's game at origin.
func (s *Service) NewGame(ctx context.Context, player, origin, difficulty string) (flightgame.GameState, error) {
	player = strings.TrimSpace(player)
	origin = strings.ToUpper(strings.TrimSpace(origin))
	if player == "" || origin == "" {
		return flightgame.GameState{}, ErrMissingParams
	}
	if difficulty == "" {
		difficulty = DifficultyNormal
	}
	b, ok := budgets[difficulty]
	if !ok {
		return flightgame.GameState{}, ErrUnknownDifficulty
	}

	if _, err := s.airports.Get(ctx, origin); err != nil {
		return flightgame.GameState{}, err
	}

	unlock := s.locks.lock(player)
	defer unlock()

	candidates := slices.DeleteFunc(slices.Clone(GoalAirports), func(id string) bool { return id == origin })

	g := Game{
		Player:            player,
		Difficulty:        difficulty,
		Current:           origin,
		Goal:              candidates[s.pick(len(candidates))],
		Visited:           []string{origin},
		StartTime:         b.minutes,
		StartDistance:     b.km,
		RemainingTime:     b.minutes,
		RemainingDistance: b.km,
		StartedAt:         time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, g); err != nil {
		return flightgame.GameState{}, err
	}

	s.logger.Info("new game", "player", player, "origin", origin, "difficulty", difficulty)
	return s.state(ctx, g, flightgame.StatusOK, "")
}

// FlyTo moves the player to dest if the remaining budget covers the flight.
func (s *Service) FlyTo(ctx context.Context, player, dest string) (flightgame.GameState, error) {
	player = strings.TrimSpace(player)
	dest = strings.ToUpper(strings.TrimSpace(dest))
	if player == "" || dest == "" {
		return flightgame.GameState{}, ErrMissingParams
	}

	// One flight at a time per player: the budget check and the write
	// must see the same stored game.
	unlock := s.locks.lock(player)
	defer unlock()

	g, err := s.sessions.Get(ctx, player)
	if err != nil {
		return flightgame.GameState{}, err
	}
	from, err := s.airports.Get(ctx, g.Current)
	if err != nil {
		return flightgame.GameState{}, fmt.Errorf("current airport %s: %w", g.Current, err)
	}
	to, err := s.airports.Get(ctx, dest)
	if err != nil {
		return flightgame.GameState{}, err
	}

	distance := geo.DistanceKm(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
	if distance > g.RemainingDistance {
		return flightgame.GameState{}, ErrInsufficientDistance
	}
	minutes := geo.FlightMinutes(distance)
	if minutes > g.RemainingTime {
		return flightgame.GameState{}, ErrInsufficientTime
	}

	g.RemainingDistance -= distance
	g.RemainingTime -= minutes
	g.Current = dest
	if !g.visited(dest) {
		g.Visited = append(g.Visited, dest)
	}

	s.logger.Info("flight",
		"player", player,
		"from", from.Ident,
		"to", dest,
		"distance_km", distance,
		"minutes", minutes,
	)

	if g.Current == g.Goal {
		return s.finish(ctx, g, flightgame.StatusVictory)
	}

	reachable, err := s.anyReachable(ctx, g)
	if err != nil {
		return flightgame.GameState{}, err
	}
	if !reachable {
		return s.finish(ctx, g, flightgame.StatusRestart)
	}

	if err := s.sessions.Put(ctx, g); err != nil {
		return flightgame.GameState{}, err
	}
	return s.state(ctx, g, flightgame.StatusOK, "")
}

// Game returns the player's current game.
func (s *Service) Game(ctx context.Context, player string) (flightgame.GameState, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return flightgame.GameState{}, ErrMissingParams
	}
	g, err := s.sessions.Get(ctx, player)
	if err != nil {
		return flightgame.GameState{}, err
	}
	return s.state(ctx, g, flightgame.StatusOK, "")
}

func (s *Service) Airports(ctx context.Context) ([]Airport, error) {
	return s.airports.List(ctx)
}

func (s *Service) Stats(ctx context.Context, player string) (PlayerStats, error) {
	return s.stats.Get(ctx, strings.TrimSpace(player))
}

// finish records the outcome, ends the session and reports the final state.
func (s *Service) finish(ctx context.Context, g Game, status flightgame.Status) (flightgame.GameState, error) {
	traveled := g.StartDistance - g.RemainingDistance

	var msg string
	var err error
	switch status {
	case flightgame.StatusVictory:
		msg = victoryMessage
		err = s.stats.RecordWin(ctx, g.Player, g.StartTime-g.RemainingTime, traveled)
	default:
		msg = restartMessage
		err = s.stats.RecordLoss(ctx, g.Player, traveled)
	}
	if err != nil {
		return flightgame.GameState{}, err
	}
	if err := s.sessions.Delete(ctx, g.Player); err != nil {
		return flightgame.GameState{}, err
	}

	s.logger.Info("game finished", "player", g.Player, "status", status, "goal", g.Goal)
	return s.state(ctx, g, status, msg)
}

// anyReachable reports whether some unvisited airport fits the remaining budget.
func (s *Service) anyReachable(ctx context.Context, g Game) (bool, error) {
	airports, err := s.airports.List(ctx)
	if err != nil {
		return false, err
	}
	from, ok := findAirport(airports, g.Current)
	if !ok {
		return false, fmt.Errorf("current airport %s: %w", g.Current, ErrUnknownAirport)
	}

	for _, a := range airports {
		if a.Ident == g.Current || g.visited(a.Ident) {
			continue
		}
		d := geo.DistanceKm(from.Latitude, from.Longitude, a.Latitude, a.Longitude)
		if d <= g.RemainingDistance && geo.FlightMinutes(d) <= g.RemainingTime {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) state(ctx context.Context, g Game, status flightgame.Status, msg string) (flightgame.GameState, error) {
	airports, err := s.airports.List(ctx)
	if err != nil {
		return flightgame.GameState{}, err
	}
	from, ok := findAirport(airports, g.Current)
	if !ok {
		return flightgame.GameState{}, fmt.Errorf("current airport %s: %w", g.Current, ErrUnknownAirport)
	}

	locations := make([]flightgame.Location, 0, len(airports))
	for _, a := range airports {
		locations = append(locations, flightgame.Location{
			ID:        a.Ident,
			Name:      a.Name,
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
			Distance:  geo.DistanceKm(from.Latitude, from.Longitude, a.Latitude, a.Longitude),
			Active:    a.Ident == g.Current,
		})
	}

	return flightgame.GameState{
		Player:            g.Player,
		CurrentLocation:   g.Current,
		Locations:         locations,
		RemainingDistance: g.RemainingDistance,
		RemainingTime:     g.RemainingTime,
		Status:            status,
		Message:           msg,
		GoalAirport:       g.Goal,
	}, nil
}

func findAirport(airports []Airport, ident string) (Airport, bool) {
	for _, a := range airports {
		if a.Ident == ident {
			return a, true
		}
	}
	return Airport{}, false
}
