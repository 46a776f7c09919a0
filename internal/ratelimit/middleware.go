package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/codestreak-ml/internal/errors"
)

type checkFunc func(ctx context.Context, ip string) (*Result, error)

// IPRateLimitMiddleware enforces the per-IP limit on every route
func (rl *RateLimiter) IPRateLimitMiddleware() gin.HandlerFunc {
	return rl.middleware("ip", rl.AllowIP)
}

// TrainingRateLimitMiddleware enforces the per-IP limit of model-fitting routes
func (rl *RateLimiter) TrainingRateLimitMiddleware() gin.HandlerFunc {
	return rl.middleware("training", rl.AllowTraining)
}

func (rl *RateLimiter) middleware(scope string, check checkFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		result, err := check(c.Request.Context(), ip)
		if err != nil {
			// a broken limiter must not take the API down with it
			slog.Error("Rate limit check failed", "scope", scope, "ip", ip, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if result.Allowed {
			c.Next()
			return
		}

		if rl.metrics != nil {
			rl.metrics.IncrementRateLimitIPBlock()
		}

		retryAfter := int(result.RetryAfter.Seconds()) + 1
		c.Header("Retry-After", strconv.Itoa(retryAfter))

		slog.Debug("Rate limit exceeded", "scope", scope, "ip", ip, "limit", result.Limit)

		appErr := apperrors.NewRateLimitError(fmt.Sprintf("%ds", retryAfter))
		appErr.RequestID = c.GetHeader("X-Request-ID")
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
	}
}
