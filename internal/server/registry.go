package server

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playperu/flightgame/internal/session"
	"github.com/playperu/flightgame/internal/view"
)

// GameAPI is what the web host needs from the game API client.
type GameAPI interface {
	session.API
	Ping(ctx context.Context) error
}

type entry struct {
	ctrl     *session.Controller
	lastSeen atomic.Int64
}

func (e *entry) touch(now time.Time) { e.lastSeen.Store(now.UnixNano()) }

// Registry owns one session controller per browser session. Controllers
// render into the broker, so every open stream of a session sees its
// changes.
type Registry struct {
	api    GameAPI
	broker *Broker
	logger *slog.Logger
	origin string
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*entry
}

func NewRegistry(api GameAPI, broker *Broker, logger *slog.Logger, origin string) *Registry {
	return &Registry{
		api:      api,
		broker:   broker,
		logger:   logger,
		origin:   origin,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Get returns the controller for id, creating it on first use.
func (r *Registry) Get(id string) *session.Controller {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		e.touch(r.now())
		return e.ctrl
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock.
	if e, ok := r.sessions[id]; ok {
		e.touch(r.now())
		return e.ctrl
	}

	e = &entry{ctrl: r.newController(id)}
	e.touch(r.now())
	r.sessions[id] = e
	r.logger.Debug("session created", "session", id)
	return e.ctrl
}

func (r *Registry) newController(id string) *session.Controller {
	return session.New(r.api, r.logger.With("session", id),
		session.WithOrigin(r.origin),
		session.WithRenderer(func(s session.State) {
			v := view.Render(s)
			r.broker.Publish(id, Event{Type: EventView, View: &v})
		}),
		session.WithAlerter(func(err error) {
			r.broker.Publish(id, Event{Type: EventAlert, Alert: err.Error()})
		}),
	)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than ttl and returns how many went.
// Sessions with an open stream are kept.
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.sessions {
		if e.lastSeen.Load() >= cutoff || r.broker.Subscribers(id) > 0 {
			continue
		}
		delete(r.sessions, id)
		n++
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, ttl, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := r.Sweep(ttl); n > 0 {
				r.logger.Info("expired sessions", "count", n, "live", r.Len())
			}
		}
	}
}
