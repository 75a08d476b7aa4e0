package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authService "github.com/allisson/securevault/internal/auth/service"
	authUseCase "github.com/allisson/securevault/internal/auth/usecase"
	apperrors "github.com/allisson/securevault/internal/errors"
	"github.com/allisson/securevault/internal/httputil"
)

// bearerToken extracts the credentials of a "Bearer <token>" header. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// AuthenticationMiddleware resolves the session token of the request and
// stores its user and token in the request context (see GetUser, GetToken).
//
// Missing or malformed headers, tokens of the wrong shape and unknown, expired
// or revoked sessions all answer 401. Malformed tokens never reach the
// database. SessionUseCase.Authenticate also rejects users whose certificate
// has expired or been revoked.
func AuthenticationMiddleware(
	sessionUseCase authUseCase.SessionUseCase,
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	reject := func(c *gin.Context, reason string, err error) {
		logger.Debug("authentication failed", slog.String("reason", reason), slog.Any("error", err))
		httputil.HandleErrorGin(c, err, logger)
		c.Abort()
	}

	return func(c *gin.Context) {
		plain, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reject(c, "missing or malformed authorization header", apperrors.ErrUnauthorized)
			return
		}

		tokenHash, err := tokenService.ParseToken(plain)
		if err != nil {
			reject(c, "malformed bearer token", err)
			return
		}

		user, token, err := sessionUseCase.Authenticate(c.Request.Context(), tokenHash)
		if err != nil {
			reject(c, "session rejected", err)
			return
		}

		c.Request = c.Request.WithContext(WithToken(WithUser(c.Request.Context(), user), token))
		c.Next()
	}
}
