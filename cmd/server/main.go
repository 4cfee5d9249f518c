package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/fundnav/internal/api"
	"github.com/ndewijer/fundnav/internal/cache"
	"github.com/ndewijer/fundnav/internal/config"
	"github.com/ndewijer/fundnav/internal/eastmoney"
	"github.com/ndewijer/fundnav/internal/logger"
	"github.com/ndewijer/fundnav/internal/scheduler"
	"github.com/ndewijer/fundnav/internal/service"
	"github.com/ndewijer/fundnav/internal/validation"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New(logger.Config{Level: "info"})
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)

	// Open the cache directory
	store := cache.NewStore(cfg.Cache.Dir, log)
	if err := store.CheckWritable(); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Cache.Dir).Msg("Cache directory is not writable")
	}

	log.Info().Str("dir", cfg.Cache.Dir).Msg("Using cache directory")

	// Create the source client
	client := eastmoney.NewClient(eastmoney.ClientConfig{
		F10BaseURL:    cfg.Source.F10BaseURL,
		SearchBaseURL: cfg.Source.SearchBaseURL,
		Timeout:       cfg.Source.HTTPTimeout,
		PageDelay:     cfg.Source.PageDelay,
	}, log)

	// Create services
	navService := service.NewNavService(client, store, service.NavServiceConfig{
		MaxPages:      cfg.Source.MaxPages,
		FetchDeadline: cfg.Source.FetchDeadline,
	}, log)
	services := api.Services{
		System:    service.NewSystemService(store),
		Fund:      service.NewFundService(client, log),
		Nav:       navService,
		Analytics: service.NewAnalyticsService(navService, cfg.Analytics.RiskFreeRate),
	}

	// Schedule the watchlist refresh
	sched := scheduler.New(log)
	if cfg.Refresh.Schedule != "" {
		codes, err := validation.NormalizeFundCodes(cfg.Refresh.Funds)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid REFRESH_FUNDS")
		}
		job := scheduler.NewRefreshJob(navService, codes, time.Duration(len(codes))*cfg.Source.FetchDeadline)
		if err := sched.AddJob(cfg.Refresh.Schedule, job); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Refresh.Schedule).Msg("Invalid REFRESH_SCHEDULE")
		}
	}
	sched.Start()

	// Create router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server. A cache miss walks the whole history, so writes
	// are bounded by the fetch deadline rather than a fixed timeout.
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Source.FetchDeadline + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	sched.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
