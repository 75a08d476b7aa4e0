package http

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/allisson/securevault/internal/httputil"
	sharingDomain "github.com/allisson/securevault/internal/sharing/domain"
	"github.com/allisson/securevault/internal/sharing/http/dto"
	sharingUseCase "github.com/allisson/securevault/internal/sharing/usecase"
	customValidation "github.com/allisson/securevault/internal/validation"
)

// multipartOverhead is the allowance for form fields and part headers on top of the file size.
const multipartOverhead = 64 * 1024

// FileHandler handles encrypted file upload, sharing and download.
type FileHandler struct {
	fileUseCase   sharingUseCase.FileUseCase
	maxUploadSize int64
	logger        *slog.Logger
}

// NewFileHandler creates a new file handler accepting uploads up to maxUploadSize bytes.
func NewFileHandler(fileUseCase sharingUseCase.FileUseCase, maxUploadSize int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileUseCase:   fileUseCase,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// UploadHandler encrypts and stores a file.
// POST /v1/files - Requires authentication. Multipart fields: file, private_key, share_with.
// Returns 201 Created with the file metadata.
func (h *FileHandler) UploadHandler(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+multipartOverhead)

	var req dto.UploadFileRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.HandleErrorGin(c, sharingDomain.ErrContentTooLarge, h.logger)
			return
		}
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		httputil.HandleValidationErrorGin(c, errors.New("file is required"), h.logger)
		return
	}

	content, err := h.readFormFile(header)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	input := req.ToDomain(header.Filename, detectMimeType(header, content), content)
	file, err := h.fileUseCase.Upload(c.Request.Context(), user.ID, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapFileToResponse(file, user.ID))
}

// ListHandler lists files owned by or shared with the user.
// GET /v1/files?offset=0&limit=50 - Requires authentication.
func (h *FileHandler) ListHandler(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	page, err := httputil.BindPage(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	files, err := h.fileUseCase.List(c.Request.Context(), user.ID, page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFilesToListResponse(files, user.ID))
}

// GetHandler returns file metadata.
// GET /v1/files/:id - Requires authentication.
func (h *FileHandler) GetHandler(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "file", h.logger)
	if !ok {
		return
	}

	file, err := h.fileUseCase.Get(c.Request.Context(), user.ID, fileID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFileToResponse(file, user.ID))
}

// ShareHandler grants more users access to a file.
// POST /v1/files/:id/share - Requires authentication. Owner only.
func (h *FileHandler) ShareHandler(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "file", h.logger)
	if !ok {
		return
	}

	var req dto.ShareFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.fileUseCase.Share(c.Request.Context(), user.ID, req.ToDomain(fileID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapShareOutputToResponse(output, user.ID))
}

// DownloadHandler decrypts a file with the caller's private key.
// POST /v1/files/:id/download - Requires authentication. Recipients only.
// Returns the plaintext as an attachment.
func (h *FileHandler) DownloadHandler(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "file", h.logger)
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

	output, err := h.fileUseCase.Download(c.Request.Context(), user.ID, fileID, req.PrivateKey)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": output.File.Name,
	}))
	c.Header("X-Content-Checksum", output.File.Checksum)
	c.Header("X-Content-Signature", output.File.Signature.String())
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, output.File.MimeType, output.Content)
}

// DeleteHandler removes a file and its content.
// DELETE /v1/files/:id - Requires authentication. Owner only.
// Returns 204 No Content.
func (h *FileHandler) DeleteHandler(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}
	fileID, ok := parseIDParam(c, "file", h.logger)
	if !ok {
		return
	}

	if err := h.fileUseCase.Delete(c.Request.Context(), user.ID, fileID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FileHandler) readFormFile(header *multipart.FileHeader) ([]byte, error) {
	if h.maxUploadSize > 0 && header.Size > h.maxUploadSize {
		return nil, sharingDomain.ErrContentTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	limit := h.maxUploadSize
	if limit <= 0 {
		return io.ReadAll(f)
	}
	content, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > limit {
		return nil, sharingDomain.ErrContentTooLarge
	}
	return content, nil
}

// detectMimeType trusts the part header unless it is missing or generic.
func detectMimeType(header *multipart.FileHeader, content []byte) string {
	if contentType := header.Header.Get("Content-Type"); contentType != "" &&
		contentType != "application/octet-stream" {
		return contentType
	}
	return mimetype.Detect(content).String()
}
