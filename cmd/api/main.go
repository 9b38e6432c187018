// Package main is the entry point for the reconciliation API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/decor-finance/backend/config"
	"github.com/decor-finance/backend/internal/application/adapter"
	"github.com/decor-finance/backend/internal/infra/db"
	"github.com/decor-finance/backend/internal/infra/dependency"
	"github.com/decor-finance/backend/internal/infra/server/router"
	"github.com/decor-finance/backend/internal/integration/entrypoint/controller"
	"github.com/decor-finance/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	slog.Info("Starting reconciliation API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Initialize Redis; the service degrades to database reads and local rate limits without it
	var redisClient *redis.Client
	var cacheHealthChecker func() bool

	redisConn, err := db.NewRedisConnection(&cfg.Redis)
	if err != nil {
		slog.Warn("Redis connection failed, running without cache", "error", err)
	} else {
		redisClient = redisConn.Client()
		cacheHealthChecker = redisConn.HealthCheck
		defer func() {
			if err := redisConn.Close(); err != nil {
				slog.Error("Failed to close redis connection", "error", err)
			}
		}()
	}

	// Initialize database connection
	var dbHealthChecker func() bool

	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Warn("Database connection failed, running without database",
			"error", err,
		)
		dbHealthChecker = func() bool { return false }
	} else {
		if err := database.AutoMigrate(model.All()...); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations completed successfully")

		dbHealthChecker = database.HealthCheck
		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("Failed to close database connection", "error", err)
			}
		}()
	}

	healthController := controller.NewHealthController(dbHealthChecker, cacheHealthChecker)

	// Wire reconciliation only if the database is available
	var r *router.Router
	if database != nil {
		injector, err := dependency.NewInjector(cfg, database.DB(), redisClient, adapter.SystemClock{}, healthController)
		if err != nil {
			slog.Error("Failed to initialize reconciliation system", "error", err)
			os.Exit(1)
		}
		r = injector.Router
		slog.Info("Reconciliation system initialized successfully")
	} else {
		r = router.NewRouter(healthController, nil, nil, nil)
		slog.Warn("Reconciliation system not initialized due to missing database connection")
	}
	engine := r.Setup(cfg.Server.Environment)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}
