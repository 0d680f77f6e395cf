package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/allisson/apikeys/internal/httputil"
)

// NewAPIKeyRateLimiter returns a limiter allowing requests per window for each key,
// with the whole window's allowance available as burst.
func NewAPIKeyRateLimiter(ctx context.Context, requests int, window time.Duration) *httputil.KeyedLimiter {
	if requests <= 0 {
		requests = 1
	}
	return httputil.NewKeyedLimiter(ctx, rate.Every(window/time.Duration(requests)), requests)
}

// APIKeyRateLimitMiddleware enforces per-key rate limiting on API-key-protected routes.
//
// Buckets are keyed by the verified key id and fall back to the client IP when the
// route runs without APIKeyMiddleware.
func APIKeyRateLimitMiddleware(limiter *httputil.KeyedLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		bucket := "ip:" + c.ClientIP()
		if key, ok := GetAPIKey(c.Request.Context()); ok && key != nil {
			bucket = "key:" + key.ID.String()
		}

		allowed, retryAfter := limiter.Allow(bucket)
		if !allowed {
			logger.Debug("api key rate limit exceeded",
				slog.String("bucket", bucket),
				slog.Duration("retry_after", retryAfter))
			httputil.AbortTooManyRequests(c, retryAfter)
			return
		}

		c.Next()
	}
}
