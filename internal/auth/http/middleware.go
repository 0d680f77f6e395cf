package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authService "github.com/allisson/apikeys/internal/auth/service"
	authUseCase "github.com/allisson/apikeys/internal/auth/usecase"
	apperrors "github.com/allisson/apikeys/internal/errors"
	"github.com/allisson/apikeys/internal/httputil"
)

// AuthenticationMiddleware authenticates owners via a Bearer token in the Authorization header.
//
// The token is hashed with tokenService.HashToken() and resolved through
// tokenUseCase.Authenticate(). On success the owner is stored in the request context and is
// available to handlers via GetOwner().
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Invalid/expired/revoked token → 401 Unauthorized
//   - Inactive owner → 403 Forbidden
//   - Other errors → 500 Internal Server Error
func AuthenticationMiddleware(
	tokenUseCase authUseCase.TokenUseCase,
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		owner, err := tokenUseCase.Authenticate(c.Request.Context(), tokenService.HashToken(plainToken))
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithOwner(c.Request.Context(), owner))

		logger.Debug("authentication successful",
			slog.String("owner_id", owner.ID.String()),
			slog.String("owner_name", owner.Name))

		c.Next()
	}
}
