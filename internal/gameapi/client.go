// Package gameapi is the HTTP client for the flight game-state API.
//
// Every call is a single GET that returns the full game state. Failures are
// surfaced immediately as *NetworkError or *ParseError; nothing is retried.
package gameapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/playperu/flightgame/internal/flightgame"
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 4 << 10

type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the API rooted at baseURL. Endpoint names are
// resolved relative to it, so a trailing slash is added when missing.
func New(baseURL string, opts ...Option) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base:   u,
		http:   &http.Client{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.base.String() }

// StartGame begins a new game for player at the origin airport.
func (c *Client) StartGame(ctx context.Context, player, originID string) (flightgame.GameState, error) {
	return c.get(ctx, "newgame", url.Values{"player": {player}, "loc": {originID}})
}

// FlyTo moves the player to the destination airport.
func (c *Client) FlyTo(ctx context.Context, player, destID string) (flightgame.GameState, error) {
	return c.get(ctx, "flyto", url.Values{"player": {player}, "dest": {destID}})
}

// Refresh re-reads the player's current game.
func (c *Client) Refresh(ctx context.Context, player string) (flightgame.GameState, error) {
	return c.get(ctx, "game", url.Values{"player": {player}})
}

// Ping checks that the API host answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: "ping", URL: c.base.String(), Err: err}
	}
	resp.Body.Close()
	return nil
}

func (c *Client) endpoint(name string, query url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: name})
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) get(ctx context.Context, op string, query url.Values) (flightgame.GameState, error) {
	target := c.endpoint(op, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return flightgame.GameState{}, &NetworkError{Op: op, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("game api request failed", "op", op, "error", err)
		return flightgame.GameState{}, &NetworkError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp.Body)
		c.logger.Error("game api returned error status",
			"op", op,
			"status", resp.StatusCode,
			"message", msg,
		)
		return flightgame.GameState{}, &NetworkError{
			Op:         op,
			URL:        target,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return flightgame.GameState{}, &NetworkError{Op: op, URL: target, Err: fmt.Errorf("reading response: %w", err)}
	}

	var state flightgame.GameState
	if err := json.Unmarshal(body, &state); err != nil {
		c.logger.Error("game api returned malformed body", "op", op, "error", err)
		return flightgame.GameState{}, &ParseError{Op: op, Err: err}
	}

	c.logger.Debug("game api response",
		"op", op,
		"status", state.Status,
		"locations", len(state.Locations),
	)
	return state, nil
}

func errorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		return body.Message
	}
	return strings.TrimSpace(string(data))
}
