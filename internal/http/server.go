package http

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"expensetracker/internal/log"
	"expensetracker/internal/middleware/ratelimit"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
	"expensetracker/internal/session"
	appweb "expensetracker/web"
)

// Options configures a Server.
type Options struct {
	Addr               string
	Sessions           *session.Registry
	Logger             *log.Logger
	CurrencySymbol     string
	RateLimitPerMinute int
	// SecureCookies forces the Secure flag on the session cookie even when
	// TLS is terminated by a proxy.
	SecureCookies bool
	// TrustedProxies are CIDRs, in addition to loopback and private
	// networks, whose forwarding headers are believed.
	TrustedProxies []string
}

type Server struct {
	http.Server
	templates *template.Template
	sessions  *session.Registry
	currency  string
	secure    bool

	logger           *log.Logger
	structuredLogger *log.StructuredLogger

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	appMetrics   *appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	expensesCreated     int64
	expensesDeleted     int64
	submissionsRejected int64
	startedAt           time.Time
}

func (m *appMetrics) created()  { atomic.AddInt64(&m.expensesCreated, 1) }
func (m *appMetrics) deleted()  { atomic.AddInt64(&m.expensesDeleted, 1) }
func (m *appMetrics) rejected() { atomic.AddInt64(&m.submissionsRejected, 1) }

// NewServer parses the embedded templates and wires routes and middleware.
func NewServer(opts Options) (*Server, error) {
	if opts.Sessions == nil {
		return nil, fmt.Errorf("new server: session registry is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "$"
	}

	t, err := template.ParseFS(appweb.TemplatesFS, appweb.TemplatePattern)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	detector := security.NewDetector(logger)
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, fmt.Errorf("new server: %w", err)
		}
	}
	s := &Server{
		templates:        t,
		sessions:         opts.Sessions,
		currency:         opts.CurrencySymbol,
		secure:           opts.SecureCookies,
		logger:           logger,
		structuredLogger: log.NewStructuredLogger(logger),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP, logger),
		appMetrics:       &appMetrics{startedAt: time.Now()},
	}

	mux := http.NewServeMux()
	if err := s.routes(mux); err != nil {
		return nil, err
	}

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	var handler http.Handler = mux
	handler = headers.Middleware(handler)
	handler = detector.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) error {
	sub, err := appweb.Static()
	if err != nil {
		return fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	page := func(h sessionHandler) http.Handler {
		return security.NoStoreMiddleware(s.withSession(h))
	}
	limited := func(h sessionHandler) http.Handler {
		return s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimit)(page(h))
	}

	mux.Handle("GET /{$}", page(s.handleIndex))

	// UI partials
	mux.Handle("GET /ui/expenses", page(s.handleResults))
	mux.Handle("POST /ui/search", page(s.handleSearch))
	mux.Handle("POST /ui/sort/{field}", page(s.handleSort))
	mux.Handle("POST /ui/draft", page(s.handleDraft))

	mux.Handle("POST /expenses", limited(s.handleCreateExpense))
	mux.Handle("DELETE /expenses/{id}", limited(s.handleDeleteExpense))
	mux.Handle("POST /expenses/{id}", limited(s.handleDeleteExpense))
	return nil
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	clientIP := s.securityDetector.ExtractClientIP(r)
	log.FromContextOr(r.Context(), s.logger).WarnContext(r.Context(), "Rate limit exceeded",
		log.NewFields().
			WithComponent(log.ComponentRateLimit).
			WithClientIP(clientIP).
			WithHTTPRequest(r.Method, r.URL.Path, "", "", "").
			ToSlice()...)
	TooManyRequestsError("Too many requests. Please try again later.").Write(w)
}

// RateLimiter exposes the limiter so its idle clients can be swept with the
// other caches.
func (s *Server) RateLimiter() *ratelimit.Limiter {
	return s.rateLimiter
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "HTTP server shutting down", log.FieldOperation, log.OpShutdown)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
