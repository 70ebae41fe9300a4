package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rokko/warranty-tracker/internal/api/handlers"
	"github.com/rokko/warranty-tracker/internal/api/middleware"
	"github.com/rokko/warranty-tracker/internal/config"
	"github.com/rokko/warranty-tracker/internal/service"
	"github.com/rs/zerolog"
)

// Options carries the pieces of the router that differ between the server
// and tests.
type Options struct {
	Logger   zerolog.Logger
	Checks   []handlers.ReadinessCheck
	Gatherer prometheus.Gatherer
}

func NewRouter(services *service.Services, cfg *config.Config, opts Options) http.Handler {
	r := chi.NewRouter()

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	origin := ""
	if cfg.IsProduction() {
		origin = cfg.AppURL
	}

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(origin))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(opts.Checks)
	authHandler := handlers.NewAuthHandler(services.Auth)
	warrantyHandler := handlers.NewWarrantyHandler(services.Warranty)
	receiptHandler := handlers.NewReceiptHandler(services.Receipt)
	transferHandler := handlers.NewTransferHandler(services.Transfer)
	settingsHandler := handlers.NewSettingsHandler(services.Settings, services.Notification)
	cronHandler := handlers.NewCronHandler(services.Reminder)

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Scheduler entry point
	r.Route("/api/cron", func(r chi.Router) {
		r.Use(middleware.CronSecret(cfg.CronSecret))
		r.Get("/reminders", cronHandler.Reminders)
		r.Post("/reminders", cronHandler.Reminders)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.With(middleware.Auth(services.Auth)).Get("/me", authHandler.Me)
		})

		// Claim links are opened from outside the app, so a signed-out
		// visitor is told where to log in.
		r.Route("/claim/{token}", func(r chi.Router) {
			r.Use(middleware.LoginRequired(services.Auth, handlers.ClaimLoginURL))
			r.Get("/", transferHandler.Resolve)
			r.Post("/", transferHandler.Claim)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/warranties", func(r chi.Router) {
				r.Get("/", warrantyHandler.List)
				r.Post("/", warrantyHandler.Create)
				r.Get("/stats", warrantyHandler.Stats)
				r.Get("/{id}", warrantyHandler.Get)
				r.Put("/{id}", warrantyHandler.Update)
				r.Delete("/{id}", warrantyHandler.Delete)

				r.Post("/{id}/receipt", receiptHandler.Upload)
				r.Get("/{id}/receipt", receiptHandler.URL)

				r.Post("/{id}/transfer", transferHandler.CreateLink)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", settingsHandler.Get)
				r.Put("/", settingsHandler.Save)
			})

			r.Get("/notifications", settingsHandler.Notifications)
		})
	})

	return r
}
