package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shashank-Karan/Tik-Talk/internal/api"
	"github.com/Shashank-Karan/Tik-Talk/internal/broker"
	"github.com/Shashank-Karan/Tik-Talk/internal/config"
	"github.com/Shashank-Karan/Tik-Talk/internal/handlers"
	"github.com/Shashank-Karan/Tik-Talk/internal/ws"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	// Broker core
	registry := broker.NewRegistry(cfg.RoomCleanupDelay, cfg.MaxMessagesPerRoom, logger)
	defer registry.Close()
	limiter := broker.NewRateLimiter(cfg.RateLimitMessages, cfg.RateLimitWindow)

	// WebSocket transport
	hub := ws.NewHub(logger)
	wsHandler := ws.NewHandler(hub, registry, limiter, cfg, logger)

	// Create router
	h := handlers.NewHandler(hub, registry)
	router := api.NewRouter(logger, h, wsHandler, cfg.AllowedOrigins)

	// Create server
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("tik talk server live")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
