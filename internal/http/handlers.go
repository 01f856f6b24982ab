package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"expensetracker/internal/log"
	"expensetracker/internal/session"
	"expensetracker/internal/tracker"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.startedAt).String(),
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady reports whether templates are loaded and sessions can be served.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil || s.templates.Lookup(tmplIndex) == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	checks["sessions"] = map[string]any{
		"active": s.sessions.Len(),
		"status": "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	response := map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(response)
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	securityMetrics := s.securityDetector.GetMetrics()

	metric := func(name, kind, help string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", name, help, name, kind, name, value)
	}

	w.WriteHeader(http.StatusOK)

	metric("http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	metric("http_requests_failed_total", "counter", "HTTP requests answered with a 5xx status", traceMetrics.FailedRequests)
	metric("expenses_created_total", "counter", "Expenses committed across all sessions", atomic.LoadInt64(&s.appMetrics.expensesCreated))
	metric("expenses_deleted_total", "counter", "Expenses removed across all sessions", atomic.LoadInt64(&s.appMetrics.expensesDeleted))
	metric("expense_submissions_rejected_total", "counter", "Submissions dropped for missing or unusable fields", atomic.LoadInt64(&s.appMetrics.submissionsRejected))
	metric("active_sessions", "gauge", "Live browser sessions held in memory", s.sessions.Len())
	metric("rate_limit_rejected_total", "counter", "Requests refused by the rate limiter", rateLimitMetrics.Rejected)
	metric("active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	metric("suspicious_requests_total", "counter", "Requests matching scanner patterns", securityMetrics.SuspiciousRequests)
	metric("uptime_seconds", "gauge", "Application uptime in seconds", fmt.Sprintf("%.0f", time.Since(s.appMetrics.startedAt).Seconds()))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var view pageView
	sess.Do(func(t *tracker.Tracker) {
		view = newPageView(t, s.currency)
	})

	body, err := s.renderTemplate(tmplIndex, view)
	if err != nil {
		s.renderFailed(w, r, tmplIndex, err)
		return
	}
	NewHTMXResponse().HTML(body).Write(w)
}

func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, name string, err error) {
	s.structuredLogger.LogError(r.Context(), "Template execution failed", err,
		log.ComponentTemplate, log.OpRender, log.LogFields{log.FieldTemplate: name})
	InternalServerError("Something went wrong while rendering the page").Write(w)
}
