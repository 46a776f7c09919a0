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

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/analysis"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/cache"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/config"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/database"
	apperrors "github.com/ZanzyTHEbar/codestreak-ml/internal/errors"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/insights"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/monitoring"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/ratelimit"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/security"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/stream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	appLogger := monitoring.NewLogger(cfg.LogLevel)
	slog.SetDefault(appLogger.Logger)
	gin.SetMode(cfg.Server.GinMode)

	appMetrics := monitoring.NewMetrics()

	db, err := database.NewDB(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer apperrors.SafeClose(db, "database")
	repo := database.NewRepository(db)

	// a missing or unreachable redis degrades to in-memory limiting
	redisClient, err := ratelimit.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slog.Warn("Redis unavailable, continuing without it", "error", err)
	}
	defer apperrors.SafeClose(redisClient, "redis")

	limiter := ratelimit.NewRateLimiter(redisClient, cfg.RateLimit, appMetrics)
	defer limiter.Close()

	responses := cache.NewCache(cfg.Cache.ResponseTTL, time.Minute)
	defer responses.Close()
	reports := cache.NewReportCache(cfg.Cache.ReportTTL)
	defer reports.Close()

	analyzer := analysis.NewAnalyzer()
	aggregator := insights.NewAggregator(analyzer, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var consumer *stream.Consumer
	consumerDone := make(chan struct{})
	if cfg.Kafka.Enabled() {
		consumer = stream.NewConsumer(cfg.Kafka, aggregator, repo, reports, appMetrics, appLogger)
		go func() {
			defer close(consumerDone)
			if err := consumer.Start(ctx); err != nil {
				slog.Error("Activity stream stopped", "error", err)
			}
		}()
		appLogger.SystemLogger("stream_started", cfg.Kafka.Topic)
	} else {
		close(consumerDone)
		slog.Info("Kafka brokers not configured, activity stream disabled")
	}

	router := setupRouter(deps{
		analyzer:   analyzer,
		aggregator: aggregator,
		db:         db,
		repo:       repo,
		responses:  responses,
		reports:    reports,
		limiter:    limiter,
		redis:      redisClient,
		security:   security.NewSecurityMiddleware(cfg.Security),
		consumer:   consumer,
		metrics:    appMetrics,
		logger:     appLogger,
		profiling:  cfg.Server.EnableProfiling,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		slog.Warn("Activity stream did not stop before the shutdown deadline")
	}
	if consumer != nil {
		apperrors.SafeClose(consumer, "kafka reader")
	}

	slog.Info("Server exited")
}
