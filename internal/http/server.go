// Package http exposes the tracker as a JSON API. Handlers stay thin:
// they parse input, call the session controller and translate errors to
// status codes. Snapshots are cached per user with a short TTL and
// invalidated on every mutation, locally and via broker events.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tally/internal/session"
)

type Server struct {
	http.Server
	controller  *session.Controller
	rateLimiter *rateLimiter

	// Unfiltered snapshots only; filtered views are cheap enough to
	// recompute per request.
	snapshotCache *lruCache[session.Snapshot]

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run
// http.Server.
func NewServer(addr string, ctrl *session.Controller, cacheSize int, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		controller:    ctrl,
		rateLimiter:   newRateLimiter(),
		snapshotCache: newLRUCache[session.Snapshot](cacheSize, cacheTTL),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/api/signup", s.withSecurity(s.handleSignup, true))
	mux.HandleFunc("/api/login", s.withSecurity(s.handleLogin, true))
	mux.HandleFunc("/api/logout", s.withSecurity(s.handleLogout, false))
	mux.HandleFunc("/api/session", s.withSecurity(s.handleSession, false))
	mux.HandleFunc("/api/snapshot", s.withSecurity(s.handleSnapshot, false))
	mux.HandleFunc("/api/transactions", s.withSecurity(s.handleTransactions, false))
	mux.HandleFunc("/api/transactions/", s.withSecurity(s.handleTransactionByID, false))
	mux.HandleFunc("/api/budget", s.withSecurity(s.handleBudget, false))
	mux.HandleFunc("/api/export/csv", s.withSecurity(s.handleExportCSV, false))
	mux.HandleFunc("/api/report", s.withSecurity(s.handleReport, false))

	return s
}

// InvalidateUser drops the cached snapshot for a user. Called after
// local mutations and when a change event arrives from another
// instance.
func (s *Server) InvalidateUser(username string) {
	s.snapshotCache.Delete(username)
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurity adds security headers and, for credential endpoints,
// per-IP rate limiting.
func (s *Server) withSecurity(next http.HandlerFunc, limited bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		if limited && !s.rateLimiter.allow(ip) {
			slog.WarnContext(r.Context(), "Rate limit exceeded",
				"client_ip", ip, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next(w, r)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
