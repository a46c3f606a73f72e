// Package http exposes the tracker as a JSON API. Handlers stay thin:
// parsing and status mapping here, rules in the services.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"contas/internal/cache"
	"contas/internal/core"
	"contas/internal/middleware/ratelimit"
	"contas/internal/middleware/security"
	"contas/internal/middleware/trace"
	"contas/internal/services"
)

type Server struct {
	http.Server

	obligations  *services.ObligationService
	transactions *services.TransactionService
	budgets      *services.BudgetService
	goals        *services.GoalService

	limiter *ratelimit.Limiter

	// LRU cache for month overviews, invalidated on ledger writes.
	overviewCache *cache.LRUCache[core.MonthOverview]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, obligations *services.ObligationService, transactions *services.TransactionService, budgets *services.BudgetService, goals *services.GoalService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		obligations:   obligations,
		transactions:  transactions,
		budgets:       budgets,
		goals:         goals,
		limiter:       ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		overviewCache: cache.NewLRUCache[core.MonthOverview](100, 5*time.Minute),
		cacheManager:  cache.NewManager(),
	}
	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /obligations", s.handleListObligations)
	mux.HandleFunc("POST /obligations", s.handleCreateObligation)
	mux.HandleFunc("POST /obligations/{id}/pay", s.handlePayObligation)
	mux.HandleFunc("PUT /obligations/{id}", s.handleUpdateObligation)
	mux.HandleFunc("POST /obligations/{id}/deactivate", s.handleDeactivateObligation)
	mux.HandleFunc("DELETE /obligations/{id}", s.handleDeleteObligation)

	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /overview", s.handleMonthOverview)

	mux.HandleFunc("GET /budgets", s.handleListBudgets)
	mux.HandleFunc("POST /budgets", s.handleCreateBudget)

	mux.HandleFunc("GET /goals", s.handleListGoals)
	mux.HandleFunc("POST /goals", s.handleCreateGoal)
	mux.HandleFunc("POST /goals/{id}/contribute", s.handleContributeGoal)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(extractClientIP)

	s.Server = http.Server{
		Addr:    addr,
		Handler: tracer.Middleware(headers.Middleware(s.withWriteRateLimit(mux))),
	}

	return s
}

// withWriteRateLimit rate-limits mutating requests per client IP. Reads are
// not limited.
func (s *Server) withWriteRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.limiter.Allow(extractClientIP(r)) {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, fmt.Errorf("rate limit exceeded"))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientIP considers proxy headers before the socket address.
func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
