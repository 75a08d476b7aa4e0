package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/securevault/internal/auth/http/dto"
	authUseCase "github.com/allisson/securevault/internal/auth/usecase"
	apperrors "github.com/allisson/securevault/internal/errors"
	"github.com/allisson/securevault/internal/httputil"
)

// UserHandler serves user profile and public key lookups.
type UserHandler struct {
	userUseCase authUseCase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userUseCase authUseCase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// MeHandler returns the authenticated user.
// GET /v1/users/me - Requires authentication.
func (h *UserHandler) MeHandler(c *gin.Context) {
	user, ok := GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// GetPublicKeyHandler returns a user's public key and certificate.
// GET /v1/users/:username/public-key - No authentication required.
func (h *UserHandler) GetPublicKeyHandler(c *gin.Context) {
	user, err := h.userUseCase.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToPublicKeyResponse(user))
}
