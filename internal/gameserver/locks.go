package gameserver

import "sync"

// playerLocks serialises the read-modify-write of one player's game.
// Entries are dropped once nobody holds or waits for them.
type playerLocks struct {
	mu    sync.Mutex
	locks map[string]*playerLock
}

type playerLock struct {
	mu   sync.Mutex
	refs int
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{locks: make(map[string]*playerLock)}
}

// lock blocks until player's lock is held and returns its release func.
func (p *playerLocks) lock(player string) func() {
	p.mu.Lock()
	l, ok := p.locks[player]
	if !ok {
		l = &playerLock{}
		p.locks[player] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, player)
		}
		p.mu.Unlock()
	}
}

func (p *playerLocks) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.locks)
}
