// Package httputil holds the gin helpers shared by every HTTP handler.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/securevault/internal/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

type errorMapping struct {
	kind    error
	status  int
	label   string
	message string
}

// errorMappings is checked in order. An empty message echoes err.Error().
var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden", "You don't have permission to access this resource"},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, "unavailable", "The service is not ready to handle this request"},
}

// statusFor resolves the status and body for err. Unknown errors become a
// 500 whose body carries no detail.
func statusFor(err error) (int, ErrorResponse) {
	status := http.StatusInternalServerError
	body := ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}

	for _, m := range errorMappings {
		if !apperrors.Is(err, m.kind) {
			continue
		}
		status = m.status
		body = ErrorResponse{Error: m.label, Message: m.message}
		if body.Message == "" {
			body.Message = err.Error()
		}
		break
	}

	if status != http.StatusInternalServerError {
		if code, message, ok := apperrors.CodeOf(err); ok {
			body.Code = code
			body.Message = message
		}
	}
	return status, body
}

// HandleErrorGin writes the JSON error for err. Client errors log at warn,
// server errors at error.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	status, body := statusFor(err)

	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "request failed",
			slog.Int("status_code", status),
			slog.String("error_code", body.Error),
			slog.String("path", c.FullPath()),
			slog.Any("error", err),
		)
	}

	c.JSON(status, body)
}

// HandleBadRequestGin writes 400 for bodies or parameters that cannot be decoded.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusBadRequest, "bad_request", err, logger)
}

// HandleValidationErrorGin writes 422 for decoded input that fails validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusUnprocessableEntity, "validation_error", err, logger)
}

func writeClientError(c *gin.Context, status int, label string, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("rejected request", slog.String("error_code", label), slog.Any("error", err))
	}
	c.JSON(status, ErrorResponse{Error: label, Message: err.Error()})
}
