package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"rota/internal/core"
	"rota/internal/log"
	"rota/internal/services"
	"rota/internal/storage"
)

// EntryAPI is the service surface the entry handlers drive. Satisfied by
// *services.EntryService.
type EntryAPI interface {
	CreateIncome(ctx context.Context, in services.IncomeInput) (core.Entry, error)
	CreateExpense(ctx context.Context, in services.ExpenseInput) (core.Entry, error)
	CreateOdometer(ctx context.Context, in services.OdometerInput) (core.Entry, error)
	UpdateEntry(ctx context.Context, e core.Entry) error
	SetPaid(ctx context.Context, id string, paid bool) error
	DeleteEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context, f core.EntryFilter) ([]core.Entry, error)
	Summarize(ctx context.Context, from, to core.Date) (core.WeeklySummary, error)
	FuelMetrics(ctx context.Context) (core.FuelMetrics, error)
	MaintenanceStatus(ctx context.Context) ([]core.AlertStatus, error)
	WeeklyGroups(ctx context.Context) ([]core.WeekGroup, error)
	DailyStats(ctx context.Context) ([]core.DayStat, error)
	RecentStores(ctx context.Context, limit int) ([]string, error)
	GetConfig(ctx context.Context) (core.Config, error)
	UpdateConfig(ctx context.Context, cfg core.Config) error
	Export(ctx context.Context) (storage.Snapshot, error)
	Import(ctx context.Context, snap storage.Snapshot) error
}

// TimesheetAPI is the service surface the shift handlers drive. Satisfied by
// *services.TimesheetService.
type TimesheetAPI interface {
	ClockIn(ctx context.Context, day core.Date, startTime, notes string) (core.TimeEntry, error)
	ClockOut(ctx context.Context, day core.Date, endTime string, breakMinutes int) (core.TimeEntry, error)
	ListShifts(ctx context.Context) ([]core.TimeEntry, error)
}

type Server struct {
	http.Server
	entries      EntryAPI
	shifts       TimesheetAPI
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
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

// stop gracefully shuts down the rate limiter cleanup goroutine
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

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, entries EntryAPI, shifts TimesheetAPI) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		entries:     entries,
		shifts:      shifts,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("POST /entries/income", s.withMiddleware(s.handleCreateIncome))
	mux.HandleFunc("POST /entries/expense", s.withMiddleware(s.handleCreateExpense))
	mux.HandleFunc("POST /entries/odometer", s.withMiddleware(s.handleCreateOdometer))
	mux.HandleFunc("GET /entries", s.withMiddleware(s.handleListEntries))
	mux.HandleFunc("PUT /entries/{id}", s.withMiddleware(s.handleUpdateEntry))
	mux.HandleFunc("POST /entries/{id}/paid", s.withMiddleware(s.handleSetPaid))
	mux.HandleFunc("DELETE /entries/{id}", s.withMiddleware(s.handleDeleteEntry))

	mux.HandleFunc("GET /summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("GET /metrics/fuel", s.withMiddleware(s.handleFuelMetrics))
	mux.HandleFunc("GET /maintenance", s.withMiddleware(s.handleMaintenance))
	mux.HandleFunc("GET /weeks", s.withMiddleware(s.handleWeeks))
	mux.HandleFunc("GET /stats/daily", s.withMiddleware(s.handleDailyStats))
	mux.HandleFunc("GET /stores/recent", s.withMiddleware(s.handleRecentStores))

	mux.HandleFunc("GET /config", s.withMiddleware(s.handleGetConfig))
	mux.HandleFunc("PUT /config", s.withMiddleware(s.handleUpdateConfig))
	mux.HandleFunc("GET /export", s.withMiddleware(s.handleExport))
	mux.HandleFunc("POST /import", s.withMiddleware(s.handleImport))

	mux.HandleFunc("POST /shifts/clock-in", s.withMiddleware(s.handleClockIn))
	mux.HandleFunc("POST /shifts/clock-out", s.withMiddleware(s.handleClockOut))
	mux.HandleFunc("GET /shifts", s.withMiddleware(s.handleListShifts))

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

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
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

		// Generate request ID for tracing
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP)

		// Rate limit mutating requests
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatus, rw.statusCode,
			log.FieldDuration, duration.Milliseconds(),
			log.FieldClientIP, clientIP)
	}
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
		// Fallback to timestamp if random fails
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
