// Package http provides HTTP handlers for the certificate authority.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	"github.com/allisson/securevault/internal/httputil"
	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
	"github.com/allisson/securevault/internal/pki/http/dto"
	pkiUseCase "github.com/allisson/securevault/internal/pki/usecase"
	customValidation "github.com/allisson/securevault/internal/validation"
)

// PEMContentType is the media type used to serve the root certificate.
const PEMContentType = "application/x-pem-file"

// CAHandler serves the public certificate authority endpoints.
// None of them require authentication.
type CAHandler struct {
	ca     pkiUseCase.CertificateAuthority
	logger *slog.Logger
}

// NewCAHandler creates a new CA handler.
func NewCAHandler(ca pkiUseCase.CertificateAuthority, logger *slog.Logger) *CAHandler {
	return &CAHandler{
		ca:     ca,
		logger: logger,
	}
}

// GetCertificateHandler returns the root certificate as PEM.
// GET /v1/ca/certificate
func (h *CAHandler) GetCertificateHandler(c *gin.Context) {
	root, err := h.ca.RootCertificate()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="ca-certificate.pem"`)
	c.Data(http.StatusOK, PEMContentType, []byte(root.PEM))
}

// GetInfoHandler returns a summary of the root certificate authority.
// GET /v1/ca/info
func (h *CAHandler) GetInfoHandler(c *gin.Context) {
	info, err := h.ca.Info()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCAInfoToResponse(info))
}

// VerifyHandler checks a certificate against the CA.
// POST /v1/ca/verify
// A certificate that fails verification is a 200 with valid=false.
func (h *CAHandler) VerifyHandler(c *gin.Context) {
	var req dto.VerifyCertificateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	cert, err := pkiDomain.ParseCertificatePEM(req.Certificate)
	if err != nil {
		c.JSON(http.StatusOK, dto.MapVerificationToResponse(nil, false, false))
		return
	}

	valid := h.ca.VerifyCertificate(cert)
	revoked := h.ca.IsRevoked(cert.Serial)

	c.JSON(http.StatusOK, dto.MapVerificationToResponse(cert, valid, revoked))
}

// GetRevocationHandler reports whether a serial is revoked.
// GET /v1/ca/revocations/:serial
func (h *CAHandler) GetRevocationHandler(c *gin.Context) {
	serial := c.Param("serial")

	if err := validation.Validate(serial, validation.Required, customValidation.Serial); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	serial = strings.ToLower(strings.TrimSpace(serial))
	c.JSON(http.StatusOK, dto.RevocationStatusResponse{
		Serial:  serial,
		Revoked: h.ca.IsRevoked(serial),
	})
}
