package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/bankaccounts/internal/adapter/http/handler"
	"github.com/iho/bankaccounts/internal/adapter/http/middleware"
	"github.com/iho/bankaccounts/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	MovementHandler  *handler.MovementHandler
	ReportHandler    *handler.ReportHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Put("/{id}", cfg.AccountHandler.Update)
			r.Delete("/{id}", cfg.AccountHandler.Delete)
			r.Get("/{id}/movements", cfg.MovementHandler.ListByAccount)
		})

		// Customers (local projection)
		r.Get("/customers/{customerID}/accounts", cfg.AccountHandler.ListByCustomer)

		// Movements
		r.Route("/movements", func(r chi.Router) {
			r.Post("/", cfg.MovementHandler.Create)
			r.Get("/", cfg.MovementHandler.List)
			r.Get("/{id}", cfg.MovementHandler.Get)
			r.Put("/{id}", cfg.MovementHandler.Update)
			r.Delete("/{id}", cfg.MovementHandler.Delete)
		})

		// Statement report
		r.Get("/reports", cfg.ReportHandler.Get)
	})

	return r
}
