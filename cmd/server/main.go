package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dom/wallet-custody-api/internal/api"
	"github.com/dom/wallet-custody-api/internal/chain"
	"github.com/dom/wallet-custody-api/internal/config"
	"github.com/dom/wallet-custody-api/internal/events"
	"github.com/dom/wallet-custody-api/internal/repository/gormstore"
	"github.com/dom/wallet-custody-api/internal/repository/redis"
	"github.com/dom/wallet-custody-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	log := setupLogger(cfg.Environment, cfg.LogLevel)
	log.Info("starting wallet custody api",
		slog.String("env", cfg.Environment),
		slog.String("db_driver", cfg.DatabaseDriver),
	)

	// Initialize database
	db, err := gormstore.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", slog.String("err", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	repos := gormstore.NewRepositories(db)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStartup()

	// Initialize blockchain client
	eth, err := chain.Dial(startupCtx, cfg.RPCURL)
	if err != nil {
		log.Error("failed to dial rpc endpoint", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer eth.Close()

	deps := service.Dependencies{
		Chain:  eth,
		Logger: log,
	}

	if cfg.RedisAddr != "" {
		blacklist, err := redis.New(startupCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Error("failed to connect to redis", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer blacklist.Close()

		deps.Blacklist = blacklist
		log.Info("token blacklist enabled", slog.String("addr", cfg.RedisAddr))
	}

	if cfg.AMQPURL != "" {
		publisher, err := events.NewRabbitMQ(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			log.Error("failed to connect to rabbitmq", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer publisher.Close()

		deps.Events = publisher
		log.Info("custody events enabled", slog.String("queue", cfg.AMQPQueue))
	}

	// Initialize services
	services := service.NewServices(repos, cfg, deps)

	// Initialize router
	router := api.NewRouter(services, eth, cfg, log)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", slog.String("err", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", slog.String("err", err.Error()))
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info("server stopped")
}

// setupLogger picks a text handler for local work and JSON elsewhere.
func setupLogger(env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	if env == "development" || env == "test" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
