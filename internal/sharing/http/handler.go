// Package http exposes encrypted file and message sharing over gin.
package http

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
	authHTTP "github.com/allisson/securevault/internal/auth/http"
	apperrors "github.com/allisson/securevault/internal/errors"
	"github.com/allisson/securevault/internal/httputil"
)

// currentUser returns the authenticated user or writes 401.
func currentUser(c *gin.Context, logger *slog.Logger) (*authDomain.User, bool) {
	user, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		return nil, false
	}
	return user, true
}

// parseIDParam parses the :id path parameter or writes 422.
func parseIDParam(c *gin.Context, resource string, logger *slog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid %s ID format: must be a valid UUID", resource),
			logger)
		return uuid.Nil, false
	}
	return id, true
}
