package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"kharcha/internal/admin"
	"kharcha/internal/auth"
	"kharcha/internal/services"
	"kharcha/internal/store"
	appweb "kharcha/web"
)

type Server struct {
	http.Server
	transactions *services.TransactionService
	budget       *services.BudgetService
	categories   store.CategoryStore
	inquiries    store.InquiryStore
	admin        *admin.Service
	tokens       *auth.TokenService
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// Deps bundles everything the server routes to.
type Deps struct {
	Transactions *services.TransactionService
	Budget       *services.BudgetService
	Categories   store.CategoryStore
	Inquiries    store.InquiryStore
	Admin        *admin.Service
	Tokens       *auth.TokenService
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes and the static shell, returning a
// ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		transactions: deps.Transactions,
		budget:       deps.Budget,
		categories:   deps.Categories,
		inquiries:    deps.Inquiries,
		admin:        deps.Admin,
		tokens:       deps.Tokens,
		rateLimiter:  newRateLimiter(),
	}

	// Static shell (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
		mux.Handle("GET /{$}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.ServeFileFS(w, r, appweb.StaticFS, "static/index.html")
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	// Public
	mux.HandleFunc("POST /api/v1/inquiries", s.wrap(s.handleCreateInquiry))

	// Owner-scoped
	mux.HandleFunc("GET /api/v1/dashboard", s.wrap(s.withAuth(s.handleDashboard)))
	mux.HandleFunc("GET /api/v1/transactions", s.wrap(s.withAuth(s.handleListTransactions)))
	mux.HandleFunc("POST /api/v1/transactions", s.wrap(s.withAuth(s.handleCreateTransaction)))
	mux.HandleFunc("DELETE /api/v1/transactions/{id}", s.wrap(s.withAuth(s.handleDeleteTransaction)))
	mux.HandleFunc("GET /api/v1/categories", s.wrap(s.withAuth(s.handleListCategories)))
	mux.HandleFunc("POST /api/v1/categories", s.wrap(s.withAuth(s.handleCreateCategory)))
	mux.HandleFunc("GET /api/v1/budget", s.wrap(s.withAuth(s.handleGetBudget)))
	mux.HandleFunc("PUT /api/v1/budget", s.wrap(s.withAuth(s.handleSaveBudget)))
	mux.HandleFunc("GET /api/v1/insights", s.wrap(s.withAuth(s.handleInsights)))

	// Admin
	mux.HandleFunc("GET /api/v1/admin/overview", s.wrap(s.withAdmin(s.handleAdminOverview)))
	mux.HandleFunc("GET /api/v1/admin/inquiries", s.wrap(s.withAdmin(s.handleAdminListInquiries)))
	mux.HandleFunc("DELETE /api/v1/admin/inquiries/{id}", s.wrap(s.withAdmin(s.handleAdminDeleteInquiry)))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
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

// wrap adds security headers, rate limiting, and request logging.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// withAuth requires a valid bearer token and stores the identity in the
// request context.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}
		id, err := s.tokens.ParseToken(token)
		if err != nil {
			slog.WarnContext(r.Context(), "Token rejected", "error", err, "url", r.URL.Path)
			writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	}
}

// withAdmin requires an authenticated identity matching the admin email.
func (s *Server) withAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.withAuth(func(w http.ResponseWriter, r *http.Request) {
		id, err := auth.FromContext(r.Context())
		if err != nil || !s.tokens.IsAdmin(id) {
			writeError(w, r, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	})
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
