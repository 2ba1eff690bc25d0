package gameserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Game is the server-side record of one player's game in progress.
type Game struct {
	Player            string    `json:"player"`
	Difficulty        string    `json:"difficulty"`
	Current           string    `json:"current"`
	Goal              string    `json:"goal"`
	Visited           []string  `json:"visited"`
	StartTime         float64   `json:"start_time"`
	StartDistance     float64   `json:"start_distance"`
	RemainingTime     float64   `json:"remaining_time"`
	RemainingDistance float64   `json:"remaining_distance"`
	StartedAt         time.Time `json:"started_at"`
}

func (g *Game) visited(ident string) bool {
	for _, v := range g.Visited {
		if v == ident {
			return true
		}
	}
	return false
}

// SessionStore keeps games in progress keyed by player name.
type SessionStore interface {
	Get(ctx context.Context, player string) (Game, error)
	Put(ctx context.Context, g Game) error
	Delete(ctx context.Context, player string) error
	Check(ctx context.Context) error
}

// sweepInterval is the least time between two passes over the memory
// store dropping expired games.
const sweepInterval = time.Minute

// MemorySessions is a SessionStore for single-process use and tests.
type MemorySessions struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
	games     map[string]memoryEntry
}

type memoryEntry struct {
	game      Game
	expiresAt time.Time
}

func NewMemorySessions(ttl time.Duration) *MemorySessions {
	return &MemorySessions{
		ttl:   ttl,
		now:   time.Now,
		games: make(map[string]memoryEntry),
	}
}

func (m *MemorySessions) Get(_ context.Context, player string) (Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.games[player]
	if !ok {
		return Game{}, ErrNoGame
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.games, player)
		return Game{}, ErrNoGame
	}
	return e.game, nil
}

func (m *MemorySessions) Put(_ context.Context, g Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !now.Before(m.nextSweep) {
		m.sweep(now)
		m.nextSweep = now.Add(sweepInterval)
	}
	m.games[g.Player] = memoryEntry{game: g, expiresAt: now.Add(m.ttl)}
	return nil
}

// sweep drops every expired game. m.mu must be held.
func (m *MemorySessions) sweep(now time.Time) {
	for player, e := range m.games {
		if !now.Before(e.expiresAt) {
			delete(m.games, player)
		}
	}
}

func (m *MemorySessions) Delete(_ context.Context, player string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, player)
	return nil
}

// Len reports how many games are held, expired or not.
func (m *MemorySessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}

func (m *MemorySessions) Check(context.Context) error { return nil }

const redisKeyPrefix = "flightgame:game:"

// RedisSessions stores games as JSON under flightgame:game:<player>, each
// key expiring after the session TTL.
type RedisSessions struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessions(rdb *redis.Client, ttl time.Duration) *RedisSessions {
	return &RedisSessions{rdb: rdb, ttl: ttl}
}

func (r *RedisSessions) Get(ctx context.Context, player string) (Game, error) {
	data, err := r.rdb.Get(ctx, redisKeyPrefix+player).Bytes()
	if errors.Is(err, redis.Nil) {
		return Game{}, ErrNoGame
	}
	if err != nil {
		return Game{}, fmt.Errorf("reading game for %s: %w", player, err)
	}

	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return Game{}, fmt.Errorf("decoding game for %s: %w", player, err)
	}
	return g, nil
}

func (r *RedisSessions) Put(ctx context.Context, g Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encoding game for %s: %w", g.Player, err)
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+g.Player, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("storing game for %s: %w", g.Player, err)
	}
	return nil
}

func (r *RedisSessions) Delete(ctx context.Context, player string) error {
	if err := r.rdb.Del(ctx, redisKeyPrefix+player).Err(); err != nil {
		return fmt.Errorf("deleting game for %s: %w", player, err)
	}
	return nil
}

func (r *RedisSessions) Check(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// OpenRedis connects to rawURL and verifies the connection.
func OpenRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
