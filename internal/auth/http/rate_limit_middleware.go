package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/apikeys/internal/errors"
	"github.com/allisson/apikeys/internal/httputil"
)

// RateLimitMiddleware enforces per-owner rate limiting on authenticated requests.
//
// MUST be used after AuthenticationMiddleware. Each owner id gets an independent token
// bucket from limiter. Exceeding it returns 429 Too Many Requests with a Retry-After header.
func RateLimitMiddleware(limiter *httputil.KeyedLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := GetOwner(c.Request.Context())
		if !ok || owner == nil {
			logger.Error("rate limit middleware: no authenticated owner in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		allowed, retryAfter := limiter.Allow(owner.ID.String())
		if !allowed {
			logger.Debug("rate limit exceeded",
				slog.String("owner_id", owner.ID.String()),
				slog.Duration("retry_after", retryAfter))
			httputil.AbortTooManyRequests(c, retryAfter)
			return
		}

		c.Next()
	}
}
