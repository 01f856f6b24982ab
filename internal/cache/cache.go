package cache

import (
	"context"
	"time"

	"expensetracker/internal/log"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Size returns the current number of items in the cache
	Size() int
}

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
}

// Manager sweeps expired entries from the registered caches.
type Manager struct {
	caches   []Cleaner
	interval time.Duration
	logger   *log.Logger
}

// NewManager creates a new cache manager
func NewManager(interval time.Duration, logger *log.Logger) *Manager {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Manager{
		interval: interval,
		logger:   logger.WithComponent(log.ComponentCache),
	}
}

// Register adds a cache to the manager for cleanup
func (m *Manager) Register(cache Cleaner) {
	m.caches = append(m.caches, cache)
}

// Sweep runs one cleanup pass over all caches and returns the number of
// removed entries.
func (m *Manager) Sweep() int {
	total := 0
	for _, c := range m.caches {
		total += c.CleanExpired()
	}
	return total
}

// Run sweeps on every tick until ctx is done. It always returns nil so it
// can run inside an errgroup without tearing the group down.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := m.Sweep(); removed > 0 {
				m.logger.Debug("Cache cleanup completed", "entries_removed", removed)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
