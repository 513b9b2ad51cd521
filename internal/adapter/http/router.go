package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pocketbank/pocketbank/internal/adapter/http/handler"
	"github.com/pocketbank/pocketbank/internal/adapter/http/middleware"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	LedgerHandler      *handler.LedgerHandler
	CDHandler          *handler.CDHandler
	LoanHandler        *handler.LoanHandler
	RecurringHandler   *handler.RecurringHandler
	SettingsHandler    *handler.SettingsHandler
	MaintenanceHandler *handler.MaintenanceHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	RateLimiter        *middleware.RateLimiter
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health and telemetry
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		if cfg.IdempotencyStore != nil {
			idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotency.Wrap)
		}

		// Accounts and ledgers
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Route("/{childID}", func(r chi.Router) {
				r.Get("/", cfg.AccountHandler.Get)
				r.Put("/rates", cfg.AccountHandler.SetRates)
				r.Put("/frozen", cfg.AccountHandler.SetFrozen)
				r.Get("/balance", cfg.LedgerHandler.GetBalance)
				r.Get("/entries", cfg.LedgerHandler.ListEntries)
				r.Post("/entries", cfg.LedgerHandler.PostEntry)
				r.Get("/cds", cfg.CDHandler.ListByChild)
				r.Get("/loans", cfg.LoanHandler.ListByChild)
				r.Get("/charges", cfg.RecurringHandler.ListByChild)
			})
		})

		// Individual entries (admin)
		r.Route("/entries/{id}", func(r chi.Router) {
			r.Get("/", cfg.LedgerHandler.GetEntry)
			r.Put("/", cfg.LedgerHandler.UpdateEntry)
			r.Delete("/", cfg.LedgerHandler.DeleteEntry)
		})

		// Certificates of deposit
		r.Route("/cds", func(r chi.Router) {
			r.Post("/", cfg.CDHandler.Offer)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.CDHandler.Get)
				r.Post("/accept", cfg.CDHandler.Accept)
				r.Post("/reject", cfg.CDHandler.Reject)
				r.Post("/redeem", cfg.CDHandler.Redeem)
			})
		})

		// Loans
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", cfg.LoanHandler.Request)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.LoanHandler.Get)
				r.Get("/transactions", cfg.LoanHandler.ListTransactions)
				r.Post("/approve", cfg.LoanHandler.Approve)
				r.Post("/deny", cfg.LoanHandler.Deny)
				r.Post("/decline", cfg.LoanHandler.Decline)
				r.Post("/activate", cfg.LoanHandler.Activate)
				r.Post("/close", cfg.LoanHandler.Close)
				r.Post("/payments", cfg.LoanHandler.RecordPayment)
			})
		})

		// Recurring charges
		r.Route("/charges", func(r chi.Router) {
			r.Post("/", cfg.RecurringHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.RecurringHandler.Get)
				r.Put("/active", cfg.RecurringHandler.SetActive)
				r.Delete("/", cfg.RecurringHandler.Delete)
			})
		})

		// Promotions
		r.Post("/promotions", cfg.LedgerHandler.ApplyPromotion)

		// Settings
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", cfg.SettingsHandler.Get)
			r.Put("/", cfg.SettingsHandler.Update)
		})

		// Maintenance trigger
		r.Post("/maintenance/run", cfg.MaintenanceHandler.Run)
	})

	return r
}
