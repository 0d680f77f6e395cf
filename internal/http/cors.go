package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware creates a CORS middleware based on configuration.
// Returns nil if CORS is disabled or no origins configured.
//
// CORS is disabled by default. Browser clients calling API-key-protected routes need the key
// header allowed, so apiKeyHeader is added to the allowed headers.
//
// Configuration:
//   - enabled: Whether CORS is enabled
//   - allowOriginsStr: Comma-separated list of allowed origins
//   - apiKeyHeader: Header carrying API keys (e.g. X-API-Key)
func createCORSMiddleware(
	enabled bool,
	allowOriginsStr string,
	apiKeyHeader string,
	logger *slog.Logger,
) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	if allowOriginsStr == "" {
		logger.Warn("CORS enabled but no origins configured - CORS will not be applied")
		return nil
	}

	// Parse comma-separated origins
	origins := parseOrigins(allowOriginsStr)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins found")
		return nil
	}

	logger.Info("CORS enabled",
		slog.Int("origin_count", len(origins)),
		slog.Any("origins", origins))

	config := cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			"GET",
			"POST",
		},
		AllowHeaders: allowHeaders(apiKeyHeader),
		ExposeHeaders: []string{
			"X-Request-Id",
			"Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(config)
}

// allowHeaders returns the request headers browsers may send, including the API key header.
func allowHeaders(apiKeyHeader string) []string {
	headers := []string{"Authorization", "Content-Type"}
	if apiKeyHeader = strings.TrimSpace(apiKeyHeader); apiKeyHeader != "" {
		headers = append(headers, apiKeyHeader)
	}
	return headers
}

// parseOrigins parses comma-separated origin list and trims whitespace.
// Returns empty slice if input is empty.
func parseOrigins(originsStr string) []string {
	if originsStr == "" {
		return nil
	}

	parts := strings.Split(originsStr, ",")
	origins := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
