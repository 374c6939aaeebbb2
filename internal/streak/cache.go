package streak

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// StateCache holds the last computed streak state per user. Each entry
// carries its own lock so read-modify-write cycles for one user are
// linearized without ever blocking operations on other users.
type StateCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*cacheEntry
}

type cacheEntry struct {
	mu    sync.Mutex
	state State
	valid bool
}

func NewStateCache() *StateCache {
	return &StateCache{entries: make(map[uuid.UUID]*cacheEntry)}
}

func (c *StateCache) entry(userID uuid.UUID) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[userID]
	if !ok {
		e = &cacheEntry{state: State{UserID: userID}}
		c.entries[userID] = e
	}
	return e
}

// Get returns a copy of the user's cached state and whether it is
// authoritative. Users never seen before get a zeroed state.
func (c *StateCache) Get(userID uuid.UUID) (State, bool) {
	e := c.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.valid
}

// Update atomically replaces the user's state, last writer wins. The
// UpdatedAt timestamp is refreshed on every write; it is diagnostic only.
func (c *StateCache) Update(userID uuid.UUID, state State) {
	e := c.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	state.UserID = userID
	state.UpdatedAt = time.Now()
	e.state = state
	e.valid = true
}

// Invalidate marks the cached state stale so the next use recomputes from
// the activity record store.
func (c *StateCache) Invalidate(userID uuid.UUID) {
	e := c.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.valid = false
}

// Mutate runs fn inside the user's critical section. fn receives a copy of
// the current state plus its validity and returns the replacement; if fn
// fails, nothing is written and the cached state is left untouched. The lock
// is per user, so a slow recomputation for one user cannot stall others.
func (c *StateCache) Mutate(userID uuid.UUID, fn func(state State, valid bool) (State, error)) (State, error) {
	e := c.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := fn(e.state, e.valid)
	if err != nil {
		return State{}, err
	}
	next.UserID = userID
	next.UpdatedAt = time.Now()
	e.state = next
	e.valid = true
	return next, nil
}
