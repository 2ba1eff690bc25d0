// Package session holds the player's game session: a two-phase controller
// that starts games, flies between airports and tracks the latest state
// returned by the game API.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/playperu/flightgame/internal/flightgame"
)

var (
	ErrEmptyName      = errors.New("player name is required")
	ErrNotPlaying     = errors.New("no game in progress")
	ErrAlreadyPlaying = errors.New("a game is already in progress")
	ErrNoDestination  = errors.New("destination is required")
)

type Phase int

const (
	NamePrompt Phase = iota
	Playing
)

func (p Phase) String() string {
	switch p {
	case NamePrompt:
		return "name_prompt"
	case Playing:
		return "playing"
	}
	return "unknown"
}

// State is an immutable snapshot of the session. The controller never
// modifies a State in place; it builds a new one and swaps it in.
type State struct {
	Phase  Phase
	Player string
	// Game is the last state received from the API. It stays set after a
	// terminal status so the final position can still be shown.
	Game  *flightgame.GameState
	Alert string
}

// API is the part of the game API client the controller drives.
type API interface {
	StartGame(ctx context.Context, player, originID string) (flightgame.GameState, error)
	FlyTo(ctx context.Context, player, destID string) (flightgame.GameState, error)
	Refresh(ctx context.Context, player string) (flightgame.GameState, error)
}

type Controller struct {
	api    API
	logger *slog.Logger
	origin string
	render func(State)
	alert  func(error)

	mu    sync.Mutex
	state State
}

type Option func(*Controller)

// WithOrigin sets the airport new games start from.
func WithOrigin(icao string) Option {
	return func(c *Controller) {
		if icao != "" {
			c.origin = icao
		}
	}
}

// WithRenderer registers fn to be called with the new state after every change.
func WithRenderer(fn func(State)) Option {
	return func(c *Controller) { c.render = fn }
}

// WithAlerter registers fn to be called with every failed API call.
func WithAlerter(fn func(error)) Option {
	return func(c *Controller) { c.alert = fn }
}

func New(api API, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		api:    api,
		logger: logger,
		origin: flightgame.DefaultOrigin,
		render: func(State) {},
		alert:  func(error) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SubmitName starts a new game for name. Blank names are rejected and leave
// the controller in NamePrompt.
func (c *Controller) SubmitName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if c.State().Phase == Playing {
		return ErrAlreadyPlaying
	}

	game, err := c.api.StartGame(ctx, name, c.origin)
	if err != nil {
		return c.fail("starting game", name, err)
	}
	c.logger.Info("game started", "player", name, "origin", c.origin)
	c.apply(name, game)
	return nil
}

// Fly moves the player to dest.
func (c *Controller) Fly(ctx context.Context, dest string) error {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return ErrNoDestination
	}
	s := c.State()
	if s.Phase != Playing {
		return ErrNotPlaying
	}

	game, err := c.api.FlyTo(ctx, s.Player, dest)
	if err != nil {
		return c.fail("flying", s.Player, err)
	}
	c.logger.Info("flight completed", "player", s.Player, "dest", dest, "status", game.Status)
	c.apply(s.Player, game)
	return nil
}

// Refresh re-reads the current game from the API.
func (c *Controller) Refresh(ctx context.Context) error {
	s := c.State()
	if s.Phase != Playing {
		return ErrNotPlaying
	}

	game, err := c.api.Refresh(ctx, s.Player)
	if err != nil {
		return c.fail("refreshing game", s.Player, err)
	}
	c.apply(s.Player, game)
	return nil
}

// apply swaps in the state built from a successful response.
func (c *Controller) apply(player string, game flightgame.GameState) {
	c.mu.Lock()
	// Some servers end a game with a bare {"status","message"}. The last
	// position stays on screen with the outcome laid over it.
	if game.Status.Terminal() && len(game.Locations) == 0 && c.state.Game != nil {
		last := *c.state.Game
		last.Status = game.Status
		last.Message = game.Message
		game = last
	}
	next := State{
		Phase:  Playing,
		Player: player,
		Game:   &game,
	}
	if game.Status.Terminal() {
		next.Phase = NamePrompt
	}
	c.state = next
	c.mu.Unlock()

	if next.Phase == NamePrompt {
		c.logger.Info("game over", "player", player, "status", game.Status)
	}
	c.render(next)
}

// fail records the alert text on the current state without touching the
// game, then reports err.
func (c *Controller) fail(action, player string, err error) error {
	c.logger.Error(action+" failed", "player", player, "error", err)

	c.mu.Lock()
	next := c.state
	next.Alert = err.Error()
	c.state = next
	c.mu.Unlock()

	c.alert(err)
	return err
}
