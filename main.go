package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v5"

	"seat-ticketing/config"
	"seat-ticketing/handlers"
	"seat-ticketing/monitoring"
	"seat-ticketing/security"
	"seat-ticketing/services"
	"seat-ticketing/store"
	"seat-ticketing/utils"
	"seat-ticketing/venue"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Environment),
	}))
	slog.SetDefault(logger)

	layout := venue.Config{
		Rows:        venue.RowLabels(cfg.VenueRows),
		SeatsPerRow: cfg.VenueSeatsPerRow,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, store.Options{
		Backend:         cfg.StoreBackend,
		SpreadsheetID:   cfg.SpreadsheetID,
		CredentialsFile: cfg.CredentialsFile,
	}, layout.Generate())
	if err != nil {
		logger.Error("store init failed", "backend", cfg.StoreBackend, "err", err)
		os.Exit(1)
	}
	logger.Info("store ready",
		"backend", cfg.StoreBackend,
		"rows", cfg.VenueRows, "seats_per_row", cfg.VenueSeatsPerRow)

	// Redis only backs the read caches; run without it when unconfigured
	// or unreachable.
	var cache *services.Cache
	var limiter *security.RateLimiter
	if cfg.RedisURL != "" {
		redisClient, err := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", "err", err)
		} else {
			defer redisClient.Close()
			cache = services.NewCache(redisClient, cfg.CacheTTL)
			limiter = security.NewRateLimiter(redisClient, cfg.ClaimRateLimit, cfg.ClaimRateWindow)
			logger.Info("redis cache enabled", "ttl", cfg.CacheTTL)
		}
	}

	notifier := services.NewNotifier(cfg.PubNubPublishKey, cfg.PubNubSubscribeKey, cfg.PubNubChannel)
	if notifier != nil {
		logger.Info("realtime events enabled", "channel", cfg.PubNubChannel)
	}

	ticketSvc := services.NewTicketService(st, cache, notifier)
	seatSvc := services.NewSeatService(st, cache, notifier)
	importSvc := services.NewImportService(st, layout, cache, notifier)

	e := echo.New()
	var claimMiddleware []echo.MiddlewareFunc
	if limiter != nil {
		claimMiddleware = append(claimMiddleware, limiter.ClaimRateLimit())
	}
	handlers.RegisterRoutes(e,
		handlers.NewTicketHandler(ticketSvc),
		handlers.NewSeatHandler(seatSvc),
		handlers.NewImportHandler(importSvc),
		handlers.NewAdminHandler(ticketSvc, cfg.StoreBackend),
		claimMiddleware...,
	)

	if cfg.EnableMetrics {
		go monitoring.Serve(cfg.MetricsPort)
		logger.Info("metrics exposed", "port", cfg.MetricsPort)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", "err", err)
	}
	logger.Info("server stopped")
}

func logLevel(environment string) slog.Level {
	if environment == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
