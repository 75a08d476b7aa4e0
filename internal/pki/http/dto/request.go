// Package dto provides data transfer objects for the certificate authority endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
	customValidation "github.com/allisson/securevault/internal/validation"
)

// VerifyCertificateRequest contains a PEM certificate to check against the CA.
type VerifyCertificateRequest struct {
	Certificate string `json:"certificate"`
}

// Validate checks if the verify request is valid.
func (r *VerifyCertificateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Certificate,
			validation.Required,
			customValidation.NotBlank,
			customValidation.PEMBlock(pkiDomain.PEMTypeCertificate),
		),
	)
}
