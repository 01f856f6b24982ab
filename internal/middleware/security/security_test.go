package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"expensetracker/internal/log"
)

func TestExtractClientIP(t *testing.T) {
	d := NewDetector(log.Discard())

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct peer", "203.0.113.9:5555", nil, "203.0.113.9"},
		{"forwarded by trusted proxy", "10.1.2.3:80", map[string]string{"X-Forwarded-For": "198.51.100.4, 10.1.2.3"}, "198.51.100.4"},
		{"real ip by trusted proxy", "127.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.5"}, "198.51.100.5"},
		{"forwarded header from untrusted peer ignored", "203.0.113.9:5555", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "203.0.113.9"},
		{"garbage forwarded value", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "not-an-ip"}, "10.0.0.1"},
		{"remote addr without port", "203.0.113.10", nil, "203.0.113.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}

	if d.GetMetrics().SpoofedForwarding != 1 {
		t.Errorf("SpoofedForwarding = %d, want 1", d.GetMetrics().SpoofedForwarding)
	}
}

func TestIsSuspicious(t *testing.T) {
	d := NewDetector(log.Discard())

	tests := []struct {
		name   string
		method string
		target string
		agent  string
		want   bool
	}{
		{"index", http.MethodGet, "/", "Mozilla/5.0", false},
		{"search", http.MethodPost, "/ui/search", "Mozilla/5.0", false},
		{"dotenv probe", http.MethodGet, "/.env", "", true},
		{"traversal in query", http.MethodGet, "/ui/expenses?f=../../etc/passwd", "", true},
		{"scanner agent", http.MethodGet, "/", "sqlmap/1.7", true},
		{"trace method", "TRACE", "/", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.target, nil)
			r.Header.Set("User-Agent", tt.agent)
			if got := d.IsSuspicious(r); got != tt.want {
				t.Errorf("IsSuspicious() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectorMiddlewareCounts(t *testing.T) {
	d := NewDetector(log.Discard())
	h := d.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/wp-admin/", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("detector must not block, got %d", rr.Code)
	}
	if d.GetMetrics().SuspiciousRequests != 1 {
		t.Fatalf("SuspiciousRequests = %d", d.GetMetrics().SuspiciousRequests)
	}
}

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if csp := rr.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "https://unpkg.com") {
		t.Errorf("CSP does not allow htmx from unpkg: %q", csp)
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must not be sent over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("HSTS = %q", got)
	}
}

func TestCacheControlMiddlewares(t *testing.T) {
	noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rr := httptest.NewRecorder()
	StaticAssetMiddleware(3600)(noop).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("static Cache-Control = %q", got)
	}

	rr = httptest.NewRecorder()
	NoStoreMiddleware(noop).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}
