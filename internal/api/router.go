package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dom/wallet-custody-api/internal/api/handlers"
	"github.com/dom/wallet-custody-api/internal/api/middleware"
	"github.com/dom/wallet-custody-api/internal/config"
	"github.com/dom/wallet-custody-api/internal/metrics"
	"github.com/dom/wallet-custody-api/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
)

func NewRouter(services *service.Services, chainInfo handlers.ChainInfo, cfg *config.Config, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)

	validate := validator.New()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, validate, log)
	walletHandler := handlers.NewWalletHandler(services.Wallet, log)
	healthHandler := handlers.NewHealthHandler(chainInfo, log)

	// Health and metrics
	r.Get("/health", healthHandler.Health)
	r.Get("/health/chain", healthHandler.Chain)
	r.Handle("/metrics", metrics.Handler())

	// Public auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.AuthRateLimit, time.Minute))

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(services.Auth, log))

		r.Get("/ping", healthHandler.Ping)

		r.Route("/wallet", func(r chi.Router) {
			r.Post("/create", walletHandler.Create)
			r.Post("/import", walletHandler.Import)
			r.Get("/balance", walletHandler.Balance)
			r.Post("/balance", walletHandler.Balance)
			r.Post("/get", walletHandler.List)
			r.Post("/send", walletHandler.Send)
		})
	})

	return r
}
