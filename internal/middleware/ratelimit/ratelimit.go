package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Limiter counts requests per client in one-minute windows.
//
// Stale clients are dropped by CleanExpired, so a Limiter can be registered
// with a cache.Manager instead of running its own goroutine.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo

	requestsPerMinute int
	idleTimeout       time.Duration
	now               func() time.Time

	allowed  int64
	rejected int64
}

type clientInfo struct {
	windowStart time.Time
	lastRequest time.Time
	requests    int
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	// IdleTimeout is how long a client stays tracked after its last request.
	IdleTimeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 120,
		IdleTimeout:       10 * time.Minute,
	}
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// NewLimiter creates a new rate limiter
func NewLimiter(config Config, opts ...Option) *Limiter {
	defaults := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = defaults.RequestsPerMinute
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = defaults.IdleTimeout
	}

	l := &Limiter{
		clients:           make(map[string]*clientInfo),
		requestsPerMinute: config.RequestsPerMinute,
		idleTimeout:       config.IdleTimeout,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow checks if a request from the given IP should be allowed
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	client, exists := l.clients[clientIP]
	if !exists || now.Sub(client.windowStart) >= time.Minute {
		l.clients[clientIP] = &clientInfo{windowStart: now, lastRequest: now, requests: 1}
		atomic.AddInt64(&l.allowed, 1)
		return true
	}

	client.lastRequest = now
	if client.requests >= l.requestsPerMinute {
		atomic.AddInt64(&l.rejected, 1)
		return false
	}
	client.requests++
	atomic.AddInt64(&l.allowed, 1)
	return true
}

// RetryAfter returns the whole seconds until clientIP's window resets.
func (l *Limiter) RetryAfter(clientIP string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	client, ok := l.clients[clientIP]
	if !ok {
		return 0
	}
	remaining := time.Minute - l.now().Sub(client.windowStart)
	if remaining <= 0 {
		return 0
	}
	return int((remaining + time.Second - 1) / time.Second)
}

// CleanExpired forgets clients idle for longer than the idle timeout and
// returns how many were removed.
func (l *Limiter) CleanExpired() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idleTimeout)
	removed := 0
	for ip, client := range l.clients {
		if client.lastRequest.Before(cutoff) {
			delete(l.clients, ip)
			removed++
		}
	}
	return removed
}

// ActiveClients returns the number of currently tracked clients
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Metrics for monitoring rate limit decisions
type Metrics struct {
	Allowed     int64
	Rejected    int64
	ClientCount int64
}

// GetMetrics returns current rate limiting metrics
func (l *Limiter) GetMetrics() Metrics {
	return Metrics{
		Allowed:     atomic.LoadInt64(&l.allowed),
		Rejected:    atomic.LoadInt64(&l.rejected),
		ClientCount: int64(l.ActiveClients()),
	}
}

// Middleware creates HTTP middleware for rate limiting. When onLimit is nil
// a plain 429 with Retry-After is written.
func (l *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := extractIP(r)

			if !l.Allow(clientIP) {
				w.Header().Set("Retry-After", strconv.Itoa(max(l.RetryAfter(clientIP), 1)))
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
