package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/securevault/internal/httputil"
	"github.com/allisson/securevault/internal/sharing/http/dto"
	sharingUseCase "github.com/allisson/securevault/internal/sharing/usecase"
	customValidation "github.com/allisson/securevault/internal/validation"
)

// MessageHandler handles encrypted messages.
type MessageHandler struct {
	messageUseCase sharingUseCase.MessageUseCase
	logger         *slog.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messageUseCase sharingUseCase.MessageUseCase, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
		logger:         logger,
	}
}

// SendHandler encrypts and stores a message.
// POST /v1/messages - Requires authentication.
// Returns 201 Created with the message metadata.
func (h *MessageHandler) SendHandler(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	message, err := h.messageUseCase.Send(c.Request.Context(), user.ID, req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapMessageToResponse(message, user.ID))
}

// ListHandler lists messages sent or received by the user, newest first.
// GET /v1/messages?offset=0&limit=50 - Requires authentication.
func (h *MessageHandler) ListHandler(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	page, err := httputil.BindPage(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	messages, err := h.messageUseCase.List(c.Request.Context(), user.ID, page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMessagesToListResponse(messages, user.ID))
}

// ReadHandler decrypts a message with the caller's private key.
// POST /v1/messages/:id/read - Requires authentication. Sender or recipient only.
func (h *MessageHandler) ReadHandler(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}
	messageID, ok := parseIDParam(c, "message", h.logger)
	if !ok {
		return
	}

	var req dto.PrivateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.messageUseCase.Read(c.Request.Context(), user.ID, messageID, req.PrivateKey)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.MapReadOutputToResponse(output, user.ID))
}

// DeleteHandler removes a message.
// DELETE /v1/messages/:id - Requires authentication. Sender only.
// Returns 204 No Content.
func (h *MessageHandler) DeleteHandler(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}
	messageID, ok := parseIDParam(c, "message", h.logger)
	if !ok {
		return
	}

	if err := h.messageUseCase.Delete(c.Request.Context(), user.ID, messageID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
