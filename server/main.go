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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"bookmate/api/routes"
	"bookmate/internal/notifications"
	"bookmate/internal/shared/config"
	"bookmate/internal/shared/database"
	"bookmate/internal/shared/middleware"
	"bookmate/pkg/logger"
)

func main() {
	appLogger := logger.GetDefault()

	// Environment first: config.Load reads it. Containers inject env
	// directly, so a missing .env file is normal there.
	if err := godotenv.Load(); err != nil {
		appLogger.Info("no .env file found, using process environment")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// Rebuild the logger after the mode switch so the handler choice
	// (text in debug, JSON otherwise) tracks the configured environment.
	appLogger = logger.New()
	logger.SetDefault(appLogger)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to initialize databases", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Notification pipeline. Unreachable brokers must not hold the API
	// down: fall back to the disabled pipeline and keep serving.
	notifier, err := notifications.NewService(cfg.Kafka)
	if err != nil {
		appLogger.Error("failed to initialize notification pipeline, continuing with it disabled",
			slog.Any("error", err))
		notifier = notifications.NewDisabledService()
	}
	if err := notifier.Start(context.Background()); err != nil {
		appLogger.Error("failed to start notification consumer", slog.Any("error", err))
	}
	defer func() {
		if err := notifier.Stop(); err != nil {
			appLogger.Error("failed to stop notification pipeline", slog.Any("error", err))
		}
	}()

	engine := gin.New()
	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())
	engine.Use(cors.New(corsConfig(cfg)))

	appRouter := routes.NewRouter(cfg, db, notifier)
	appRouter.SetupRoutes(engine)

	// Warm the script cache so first requests skip the EVAL fallback.
	preloadCtx, cancelPreload := context.WithTimeout(context.Background(), 10*time.Second)
	if err := appRouter.PreloadScripts(preloadCtx); err != nil {
		appLogger.Warn("failed to preload redis scripts, they will load on first use",
			slog.Any("error", err))
	}
	cancelPreload()

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info("server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
			slog.Bool("notifications", cfg.Kafka.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("server exited gracefully")
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Authorization",
			middleware.HeaderQueueToken,
		},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	} else {
		// Development default: reflect any origin.
		corsCfg.AllowOriginFunc = func(origin string) bool { return true }
	}
	return corsCfg
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
