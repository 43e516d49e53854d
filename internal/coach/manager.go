package coach

import (
	"fmt"
	"sync"
	"time"
)

// Store defines the persistence operations the Manager needs.
// Implemented by storage.Store.
type Store interface {
	GetCoach(id string) (Coach, error)
	UpdateCoach(c Coach) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type cacheEntry struct {
	coach    Coach
	cachedAt time.Time
}

// Manager provides cached read access to coach records. Writes go straight
// to the store and invalidate the cached entry.
//
// The underlying read-modify-write of a voice profile is not atomic against
// concurrent ingestions for the same coach; last-write-wins is accepted for
// this heuristic data.
type Manager struct {
	store Store
	clock Clock
	ttl   time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewManager creates a Manager with a 60-second cache TTL.
func NewManager(store Store) *Manager {
	return NewManagerWithClock(store, realClock{}, 60*time.Second)
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(store Store, clock Clock, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		clock: clock,
		ttl:   ttl,
		cache: make(map[string]cacheEntry),
	}
}

// Get returns the coach record, from cache when fresh.
func (m *Manager) Get(id string) (Coach, error) {
	m.mu.RLock()
	if entry, ok := m.cache[id]; ok && m.clock.Now().Before(entry.cachedAt.Add(m.ttl)) {
		c := deepCopy(entry.coach)
		m.mu.RUnlock()
		return c, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock.
	if entry, ok := m.cache[id]; ok && m.clock.Now().Before(entry.cachedAt.Add(m.ttl)) {
		return deepCopy(entry.coach), nil
	}

	c, err := m.store.GetCoach(id)
	if err != nil {
		return Coach{}, fmt.Errorf("loading coach %s: %w", id, err)
	}
	m.cache[id] = cacheEntry{coach: deepCopy(c), cachedAt: m.clock.Now()}
	return c, nil
}

// Update persists the coach and drops any cached copy.
func (m *Manager) Update(c Coach) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.UpdateCoach(c); err != nil {
		return fmt.Errorf("updating coach %s: %w", c.ID, err)
	}
	delete(m.cache, c.ID)
	return nil
}

// Invalidate drops the cached copy for a coach, forcing the next Get to
// hit the store.
func (m *Manager) Invalidate(id string) {
	m.mu.Lock()
	delete(m.cache, id)
	m.mu.Unlock()
}

func deepCopy(c Coach) Coach {
	cp := c
	if c.Catchphrases != nil {
		cp.Catchphrases = append([]string(nil), c.Catchphrases...)
	}
	if c.Voice.Catchphrases != nil {
		cp.Voice.Catchphrases = append([]string(nil), c.Voice.Catchphrases...)
	}
	if c.Voice.SentenceStarters != nil {
		cp.Voice.SentenceStarters = append([]string(nil), c.Voice.SentenceStarters...)
	}
	return cp
}
