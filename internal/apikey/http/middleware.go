package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
	apikeyUseCase "github.com/allisson/apikeys/internal/apikey/usecase"
	"github.com/allisson/apikeys/internal/httputil"
)

const unknownUserAgent = "unknown"

// AccessRecorder accepts access log entries for asynchronous persistence.
type AccessRecorder interface {
	Record(entry *apikeyDomain.AccessLog)
}

// APIKeyMiddleware authenticates requests by the API key presented in header.
//
// The verified key is stored in the request context (see GetAPIKey). Once the handler chain
// has run, an access log entry with the final status code and elapsed time is handed to
// recorder. Rejected requests are not recorded.
func APIKeyMiddleware(
	header string,
	verificationUseCase apikeyUseCase.VerificationUseCase,
	recorder AccessRecorder,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		key, err := verificationUseCase.Verify(c.Request.Context(), c.GetHeader(header))
		if err != nil {
			logger.Debug("api key verification failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithAPIKey(c.Request.Context(), key))

		c.Next()

		userAgent := strings.ToValidUTF8(c.Request.UserAgent(), "")
		if userAgent == "" {
			userAgent = unknownUserAgent
		}

		recorder.Record(&apikeyDomain.AccessLog{
			APIKeyID:     key.ID,
			OwnerID:      key.OwnerID,
			Endpoint:     apikeyDomain.StorableText(c.Request.URL.RequestURI(), apikeyDomain.MaxEndpointLength),
			Method:       c.Request.Method,
			IPAddress:    c.ClientIP(),
			UserAgent:    userAgent,
			StatusCode:   c.Writer.Status(),
			ResponseTime: time.Since(start),
		})
	}
}
