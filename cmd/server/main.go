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
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"appointment-webhook/internal/app"
	"appointment-webhook/internal/config"
	"appointment-webhook/internal/webhook"
)

// Version information
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment may already be populated
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, config.GetConfigPath())
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to start server", "error", err)
		os.Exit(1)
	}
	logger := a.Logger

	if a.Config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := webhook.NewRateLimiter(a.Config.HTTP.RateLimitRPS, a.Config.HTTP.RateLimitBurst)
	go limiter.Run(ctx)

	srv := &http.Server{
		Addr:              a.Config.HTTP.Address(),
		Handler:           webhook.NewRouter(a.Dispatcher, webhook.RouterConfig{RateLimiter: limiter, Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("appointment webhook server listening",
			"address", srv.Addr,
			"version", Version,
			"commit", GitCommit,
			"built", BuildTime)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited")
}
