package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/allisson/apikeys/internal/httputil"
)

// TokenRateLimitMiddleware enforces per-IP rate limiting on the token issuance endpoint.
//
// The endpoint is unauthenticated, so buckets are keyed by c.ClientIP() to slow down
// credential stuffing against owner secrets.
func TokenRateLimitMiddleware(limiter *httputil.KeyedLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, retryAfter := limiter.Allow(clientIP)
		if !allowed {
			logger.Debug("token rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Duration("retry_after", retryAfter))
			httputil.AbortTooManyRequests(c, retryAfter)
			return
		}

		c.Next()
	}
}
