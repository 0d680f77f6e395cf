package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/apikeys/internal/apikey/http/dto"
	apperrors "github.com/allisson/apikeys/internal/errors"
	"github.com/allisson/apikeys/internal/httputil"
)

// ProtectedHandler serves resources guarded by APIKeyMiddleware.
type ProtectedHandler struct {
	logger *slog.Logger
}

// NewProtectedHandler creates a new protected resource handler.
func NewProtectedHandler(logger *slog.Logger) *ProtectedHandler {
	return &ProtectedHandler{logger: logger}
}

// DataHandler reports which key authorized the request.
// GET /v1/protected/data - Requires a valid API key.
func (h *ProtectedHandler) DataHandler(c *gin.Context) {
	key, ok := GetAPIKey(c.Request.Context())
	if !ok || key == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ProtectedDataResponse{
		UsedKeyName: key.Name,
		OwnerID:     key.OwnerID.String(),
	})
}
