// Package session keeps one expense tracker per browser session in memory.
//
// Sessions live in a size-bounded LRU with an inactivity TTL. Nothing is
// persisted: a restart or an expired session starts from a fresh tracker.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"expensetracker/internal/cache"
	"expensetracker/internal/log"
	"expensetracker/internal/tracker"
)

// Session owns a tracker and serializes every transition on it.
type Session struct {
	id        string
	createdAt time.Time

	mu      sync.Mutex
	tracker *tracker.Tracker
}

// ID returns the opaque session identifier stored in the cookie.
func (s *Session) ID() string { return s.id }

// Do runs fn with exclusive access to the tracker. Each call is one
// atomic user event: the next one waits until fn returns.
func (s *Session) Do(fn func(t *tracker.Tracker)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.tracker)
}

// Factory builds the tracker for a new session.
type Factory func() *tracker.Tracker

// Config bounds the registry.
type Config struct {
	TTL         time.Duration
	MaxSessions int
}

// Registry maps session ids to sessions.
type Registry struct {
	sessions *cache.LRUCache[*Session]
	factory  Factory
	logger   *log.Logger
	now      func() time.Time
}

// NewRegistry creates a registry whose sessions expire after cfg.TTL of
// inactivity. When MaxSessions is reached the least recently used session
// is dropped.
func NewRegistry(cfg Config, factory Factory, logger *log.Logger) *Registry {
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}
	if factory == nil {
		factory = func() *tracker.Tracker { return tracker.New() }
	}
	r := &Registry{
		factory: factory,
		logger:  logger.WithComponent(log.ComponentSession),
		now:     time.Now,
	}
	r.sessions = cache.NewLRUCache[*Session](cfg.MaxSessions, cfg.TTL,
		cache.WithSlidingExpiration[*Session](),
		cache.WithEvictCallback(func(id string, s *Session) {
			r.logger.Debug("Session evicted", log.FieldSessionID, id, "age", r.now().Sub(s.createdAt).String())
		}),
	)
	return r
}

// Get returns a live session and refreshes its expiry.
func (r *Registry) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	return r.sessions.Get(id)
}

// Create opens a new session with a random id.
func (r *Registry) Create() *Session {
	s := &Session{
		id:        uuid.NewString(),
		createdAt: r.now(),
		tracker:   r.factory(),
	}
	r.sessions.Set(s.id, s)
	r.logger.Debug("Session created", log.FieldSessionID, s.id)
	return s
}

// Resolve returns the session for id, or a new one when id is unknown or
// expired. The boolean reports whether a new session was created.
func (r *Registry) Resolve(id string) (*Session, bool) {
	if s, ok := r.Get(id); ok {
		return s, false
	}
	return r.Create(), true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.sessions.Size()
}

// CleanExpired drops idle sessions. It makes Registry a cache.Cleaner.
func (r *Registry) CleanExpired() int {
	return r.sessions.CleanExpired()
}
