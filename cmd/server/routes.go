package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/analysis"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/cache"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/database"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/docs"
	apperrors "github.com/ZanzyTHEbar/codestreak-ml/internal/errors"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/insights"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/monitoring"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/ratelimit"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/security"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/stream"
	"github.com/ZanzyTHEbar/codestreak-ml/internal/types"
)

const version = "1.0.0"

// cachedRoutes are pure functions of the request body
var cachedRoutes = []string{"/weak-topics", "/performance", "/time-accuracy", "/recommendations", "/adaptive"}

type deps struct {
	analyzer   *analysis.Analyzer
	aggregator *insights.Aggregator
	db         *database.DB
	repo       *database.Repository
	responses  *cache.Cache
	reports    *cache.ReportCache
	limiter    *ratelimit.RateLimiter
	redis      *ratelimit.RedisClient
	security   *security.SecurityMiddleware
	consumer   *stream.Consumer
	metrics    *monitoring.Metrics
	logger     *monitoring.Logger
	profiling  bool
}

type server struct {
	deps
}

func setupRouter(d deps) *gin.Engine {
	s := &server{deps: d}

	r := gin.New()
	if err := r.SetTrustedProxies(d.security.TrustedProxies()); err != nil {
		d.logger.Warn("Invalid trusted proxies, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(apperrors.RecoveryHandler())
	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(d.metrics, d.logger))
	r.Use(d.security.CORS())
	r.Use(d.security.SecurityHeaders)
	r.Use(d.security.RequestTimeout)
	r.Use(d.security.ValidateContentType)
	r.Use(d.security.LimitBody)
	r.Use(apperrors.ErrorHandler())
	r.Use(d.limiter.IPRateLimitMiddleware())
	r.Use(d.responses.Middleware(d.metrics, cachedRoutes...))

	train := d.limiter.TrainingRateLimitMiddleware()

	r.POST("/weak-topics", s.handleWeakTopics)
	r.POST("/performance", train, s.handlePerformance)
	r.POST("/time-accuracy", train, s.handleTimeAccuracy)
	r.POST("/recommendations", s.handleRecommendations)
	r.POST("/adaptive", s.handleAdaptive)
	r.POST("/retrain", s.handleRetrain)
	r.POST("/insights", train, s.handleInsights)
	r.GET("/insights/:user_id", s.handleLatestInsights)

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", s.handleMetrics)
	r.GET("/cache/stats", s.handleCacheStats)

	docs.SwaggerInfo.Version = version
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if d.profiling {
		d.logger.Info("Enabling performance profiling endpoints")
		r.GET("/debug/pprof/*filepath", handlePprof)
	}

	return r
}

// handlePprof dispatches the named pprof endpoints from the catch-all route;
// gin cannot mix them with a wildcard under one prefix
func handlePprof(c *gin.Context) {
	switch strings.TrimPrefix(c.Param("filepath"), "/") {
	case "cmdline":
		pprof.Cmdline(c.Writer, c.Request)
	case "profile":
		pprof.Profile(c.Writer, c.Request)
	case "symbol":
		pprof.Symbol(c.Writer, c.Request)
	case "trace":
		pprof.Trace(c.Writer, c.Request)
	default:
		pprof.Index(c.Writer, c.Request)
	}
}

// bindPayload decodes the shared request body, attaching a validation error on failure
func bindPayload(c *gin.Context) (types.UserPayload, bool) {
	var payload types.UserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.Error(apperrors.NewValidationError("invalid request body", err.Error()))
		return payload, false
	}
	return payload, true
}

func (s *server) handleWeakTopics(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"weakTopics": insights.WeakTopics(payload.Activities)})
}

func (s *server) handlePerformance(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	start := time.Now()
	result := s.analyzer.PredictPerformance(payload.Activities)
	s.metrics.RecordPrediction("performance", result.Fallbacks)
	s.logger.InsightsLogger("performance", payload.UserID, len(payload.Activities), result.Fallbacks, time.Since(start))

	c.JSON(http.StatusOK, result)
}

func (s *server) handleTimeAccuracy(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	start := time.Now()
	result, err := s.analyzer.PredictTimeAccuracy(payload.Activities)
	if err != nil {
		s.metrics.RecordFitFailure("time_accuracy")
		c.Error(apperrors.NewModelFitError("predict_time_accuracy", err))
		return
	}
	s.metrics.RecordPrediction("time_accuracy", nil)
	s.logger.InsightsLogger("time_accuracy", payload.UserID, len(payload.Activities), nil, time.Since(start))

	c.JSON(http.StatusOK, result)
}

func (s *server) handleRecommendations(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendedProblems": insights.Recommend(payload.Activities)})
}

func (s *server) handleAdaptive(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"window": insights.ReminderWindow(payload.Activities)})
}

// handleRetrain accepts any body; models are fit per request so there is
// nothing to reload
func (s *server) handleRetrain(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *server) handleInsights(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	start := time.Now()
	report, err := s.aggregator.Build(payload.Activities)
	if err != nil {
		s.metrics.RecordFitFailure("insights")
		c.Error(apperrors.NewModelFitError("build_insights", err))
		return
	}
	s.metrics.RecordPrediction("insights", nil)
	s.logger.InsightsLogger("insights", payload.UserID, len(payload.Activities), nil, time.Since(start))

	// the report is returned even when it cannot be stored
	if _, err := s.repo.SaveReport(c.Request.Context(), payload.UserID, report); err != nil {
		s.metrics.RecordReportStored(false)
		s.logger.Error("Failed to store report", "user_id", payload.UserID, "error", err)
	} else {
		s.metrics.RecordReportStored(true)
		s.reports.Set(payload.UserID, report)
	}

	c.JSON(http.StatusOK, report)
}

func (s *server) handleLatestInsights(c *gin.Context) {
	userID := c.Param("user_id")

	if report, ok := s.reports.Get(userID); ok {
		s.metrics.IncrementCacheHit()
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, report)
		return
	}
	s.metrics.IncrementCacheMiss()

	record, err := s.repo.LatestReport(c.Request.Context(), userID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no insights stored for user"})
		return
	}
	if err != nil {
		c.Error(apperrors.NewStorageError("Failed to load stored insights", err))
		return
	}

	s.reports.Set(userID, record.Report)
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, record.Report)
}

func (s *server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	status, code := "healthy", http.StatusOK

	if err := s.db.PingContext(ctx); err != nil {
		checks["database"] = err.Error()
		status, code = "degraded", http.StatusServiceUnavailable
	}

	switch err := s.redis.HealthCheck(ctx); {
	case errors.Is(err, ratelimit.ErrRedisDisabled):
		checks["redis"] = "disabled"
	case err != nil:
		// the limiter falls back to memory, so redis alone never degrades health
		checks["redis"] = err.Error()
	default:
		checks["redis"] = "ok"
	}

	if s.consumer != nil {
		checks["stream"] = s.consumer.Stats()
	} else {
		checks["stream"] = "disabled"
	}

	c.JSON(code, gin.H{
		"status":    status,
		"version":   version,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics":    s.metrics.GetStats(),
		"rate_limit": s.limiter.GetStats(),
		"database":   s.db.GetPoolStats(),
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

func (s *server) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"responses": s.responses.Stats(),
		"reports":   s.reports.Stats(),
	})
}
