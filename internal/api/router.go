// Package api wires the HTTP routes of the fund NAV service.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/fundnav/internal/api/handlers"
	custommiddleware "github.com/ndewijer/fundnav/internal/api/middleware"
	"github.com/ndewijer/fundnav/internal/config"
	"github.com/ndewijer/fundnav/internal/service"
)

// Services groups the services the router dispatches to.
type Services struct {
	System    *service.SystemService
	Fund      *service.FundService
	Nav       *service.NavService
	Analytics *service.AnalyticsService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.NewLogger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/fund/{code}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateFundCodeMiddleware)

			fundHandler := handlers.NewFundHandler(services.Fund, services.Nav, services.Analytics)
			r.Get("/", fundHandler.Info)
			r.Get("/nav", fundHandler.Nav)
			r.Get("/statistics", fundHandler.Statistics)
			r.Delete("/cache", fundHandler.EvictCache)
		})
	})

	return r
}
