package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/apikeys/internal/apikey/http/dto"
	apikeyUseCase "github.com/allisson/apikeys/internal/apikey/usecase"
	authHTTP "github.com/allisson/apikeys/internal/auth/http"
	apperrors "github.com/allisson/apikeys/internal/errors"
	"github.com/allisson/apikeys/internal/httputil"
	customValidation "github.com/allisson/apikeys/internal/validation"
)

// APIKeyHandler handles HTTP requests for API key management by the authenticated owner.
type APIKeyHandler struct {
	apiKeyUseCase apikeyUseCase.APIKeyUseCase
	logger        *slog.Logger
}

// NewAPIKeyHandler creates a new API key handler with required dependencies.
func NewAPIKeyHandler(apiKeyUseCase apikeyUseCase.APIKeyUseCase, logger *slog.Logger) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyUseCase: apiKeyUseCase,
		logger:        logger,
	}
}

// ownerID returns the authenticated owner id, writing a 401 response when there is none.
func (h *APIKeyHandler) ownerID(c *gin.Context) (uuid.UUID, bool) {
	owner, ok := authHTTP.GetOwner(c.Request.Context())
	if !ok || owner == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return owner.ID, true
}

// keyID parses the :id path parameter, writing a 422 response when it is not a UUID.
func (h *APIKeyHandler) keyID(c *gin.Context) (uuid.UUID, bool) {
	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid api key ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return keyID, true
}

// GenerateHandler issues a new API key.
// POST /v1/api-keys - Requires owner authentication.
// Returns 201 Created with the plaintext key and its metadata.
func (h *APIKeyHandler) GenerateHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	var req dto.GenerateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.apiKeyUseCase.Generate(c.Request.Context(), ownerID, req.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.GenerateAPIKeyResponse{
		APIKey: output.PlainSecret,
		Key:    dto.MapAPIKeyToResponse(output.APIKey, time.Now().UTC()),
	})
}

// ListHandler lists the owner's keys, newest first.
// GET /v1/api-keys - Requires owner authentication.
func (h *APIKeyHandler) ListHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	keys, err := h.apiKeyUseCase.List(c.Request.Context(), ownerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeysToListResponse(keys, time.Now().UTC()))
}

// GetHandler retrieves one of the owner's keys.
// GET /v1/api-keys/:id - Requires owner authentication.
func (h *APIKeyHandler) GetHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	keyID, ok := h.keyID(c)
	if !ok {
		return
	}

	key, err := h.apiKeyUseCase.Get(c.Request.Context(), ownerID, keyID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeyToResponse(key, time.Now().UTC()))
}

// RevokeHandler permanently deactivates one of the owner's keys.
// POST /v1/api-keys/:id/revoke - Requires owner authentication.
func (h *APIKeyHandler) RevokeHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	keyID, ok := h.keyID(c)
	if !ok {
		return
	}

	key, err := h.apiKeyUseCase.Revoke(c.Request.Context(), ownerID, keyID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeyToResponse(key, time.Now().UTC()))
}

// RotateHandler issues a successor for one of the owner's keys.
// POST /v1/api-keys/:id/rotate - Requires owner authentication.
// Returns the successor's plaintext key, its metadata and the updated source key.
func (h *APIKeyHandler) RotateHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	keyID, ok := h.keyID(c)
	if !ok {
		return
	}

	output, err := h.apiKeyUseCase.Rotate(c.Request.Context(), ownerID, keyID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	now := time.Now().UTC()
	c.JSON(http.StatusOK, dto.RotateAPIKeyResponse{
		APIKey: output.PlainSecret,
		NewKey: dto.MapAPIKeyToResponse(output.NewKey, now),
		OldKey: dto.MapAPIKeyToResponse(output.OldKey, now),
	})
}
