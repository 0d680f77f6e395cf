package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/apikeys/internal/auth/domain"
	"github.com/allisson/apikeys/internal/auth/http/dto"
	authUseCase "github.com/allisson/apikeys/internal/auth/usecase"
	"github.com/allisson/apikeys/internal/httputil"
	customValidation "github.com/allisson/apikeys/internal/validation"
)

// TokenHandler handles HTTP requests for owner token operations.
type TokenHandler struct {
	tokenUseCase authUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(tokenUseCase authUseCase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// IssueTokenHandler exchanges owner credentials for a bearer token.
// POST /v1/token - No authentication required.
// Returns 201 Created with token and expiration time.
func (h *TokenHandler) IssueTokenHandler(c *gin.Context) {
	var req dto.IssueTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Validate guarantees the UUID format.
	ownerID := uuid.MustParse(req.OwnerID)

	output, err := h.tokenUseCase.Issue(c.Request.Context(), &authDomain.IssueTokenInput{
		OwnerID:     ownerID,
		OwnerSecret: req.OwnerSecret,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.IssueTokenResponse{
		Token:     output.PlainToken,
		ExpiresAt: output.ExpiresAt,
	})
}
