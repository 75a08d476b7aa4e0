package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/securevault/internal/auth/http/dto"
	authUseCase "github.com/allisson/securevault/internal/auth/usecase"
	apperrors "github.com/allisson/securevault/internal/errors"
	"github.com/allisson/securevault/internal/httputil"
	customValidation "github.com/allisson/securevault/internal/validation"
)

// AuthHandler handles registration and the challenge-response login flow.
type AuthHandler struct {
	userUseCase    authUseCase.UserUseCase
	sessionUseCase authUseCase.SessionUseCase
	authenticator  authUseCase.ChallengeAuthenticator
	logger         *slog.Logger
}

// NewAuthHandler creates a new auth handler with required dependencies.
func NewAuthHandler(
	userUseCase authUseCase.UserUseCase,
	sessionUseCase authUseCase.SessionUseCase,
	authenticator authUseCase.ChallengeAuthenticator,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		userUseCase:    userUseCase,
		sessionUseCase: sessionUseCase,
		authenticator:  authenticator,
		logger:         logger,
	}
}

// RegisterHandler creates a user with a fresh key pair and certificate.
// POST /v1/auth/register - No authentication required.
// Returns 201 Created with the certificate and the private key, which is never shown again.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.userUseCase.Register(c.Request.Context(), req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRegisterOutputToResponse(output))
}

// ChallengeHandler issues a single-use login challenge.
// POST /v1/auth/challenge - No authentication required.
func (h *AuthHandler) ChallengeHandler(c *gin.Context) {
	challenge, err := h.authenticator.IssueChallenge(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ChallengeResponse{
		Challenge: challenge.Value,
		ExpiresAt: challenge.ExpiresAt,
	})
}

// LoginHandler exchanges a signed challenge for a session token.
// POST /v1/auth/login - No authentication required.
// Returns 200 OK with the token, or 401 Unauthorized.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.sessionUseCase.Login(c.Request.Context(), req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapLoginOutputToResponse(output))
}

// LogoutHandler revokes the session token used for the request.
// POST /v1/auth/logout - Requires authentication.
// Returns 204 No Content.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	token, ok := GetToken(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.sessionUseCase.Logout(c.Request.Context(), token.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
