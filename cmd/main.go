/*
Package main is the entry point for the Scrawl server.

It is responsible for loading configuration, initializing the global logging
system, wiring the word pool and room directory (Redis-backed when configured,
in-process otherwise), setting up the HTTP server, starting the game Manager,
and gracefully handling operating system interrupt signals (SIGINT, SIGTERM)
to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"scrawl/internal/auth"
	"scrawl/internal/clock"
	"scrawl/internal/configs"
	"scrawl/internal/directory"
	"scrawl/internal/game"
	"scrawl/internal/handler"
	"scrawl/internal/pkg/logx"
	"scrawl/internal/wordpool"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("max_players", cfg.MaxPlayers).
		Int("rounds", cfg.Rounds).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Word pool and room directory: Redis-backed when REDIS_ADDR is set,
	// in-process otherwise.
	var recentStore wordpool.RecentStore
	var announcer directory.Announcer

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})

		pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancelPing()
			logx.Fatal(err, "Failed to connect to Redis")
		}
		cancelPing()

		defer func() {
			if err := redisClient.Close(); err != nil {
				logx.Error(err, "Failed to close Redis client")
			}
		}()

		recentStore = wordpool.NewRedisRecentStore(redisClient)
		announcer = directory.NewRedisAnnouncer(redisClient)

		logx.Info("Redis connected.", "addr", cfg.RedisAddr)
	} else {
		recentStore = wordpool.NewMemoryRecentStore()
		announcer = directory.NewNopAnnouncer()

		logx.Info("REDIS_ADDR not set. Using in-process word store and no room directory.")
	}

	words := wordpool.New(cfg.WordPoolExtras, recentStore, time.Now().UnixNano())
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	// Initialize game Manager
	manager := game.NewManager(cfg, verifier, words, announcer, clock.New())

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Manager:  manager,
		Config:   cfg,
		Verifier: verifier,
	}
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Scrawl Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	manager.Shutdown()

	logx.Info("Server gracefully stopped.")
}
