package dto

import (
	"time"

	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

// SubjectResponse represents a certificate subject in API responses.
type SubjectResponse struct {
	CommonName   string `json:"common_name"`
	Organization string `json:"organization,omitempty"`
	Email        string `json:"email"`
}

// MapSubjectToResponse converts a domain subject to an API response.
func MapSubjectToResponse(subject pkiDomain.Subject) SubjectResponse {
	return SubjectResponse{
		CommonName:   subject.CommonName,
		Organization: subject.Organization,
		Email:        subject.Email,
	}
}

// CAInfoResponse summarizes the root certificate authority.
type CAInfoResponse struct {
	Subject      SubjectResponse `json:"subject"`
	Serial       string          `json:"serial"`
	NotBefore    time.Time       `json:"not_before"`
	NotAfter     time.Time       `json:"not_after"`
	Fingerprint  string          `json:"fingerprint_sha256"`
	RevokedCount int             `json:"revoked_count"`
}

// MapCAInfoToResponse converts domain CA info to an API response.
func MapCAInfoToResponse(info *pkiDomain.CAInfo) CAInfoResponse {
	return CAInfoResponse{
		Subject:      MapSubjectToResponse(info.Subject),
		Serial:       info.Serial,
		NotBefore:    info.NotBefore,
		NotAfter:     info.NotAfter,
		Fingerprint:  info.Fingerprint,
		RevokedCount: info.RevokedCount,
	}
}

// VerifyCertificateResponse reports the verification outcome.
// Certificate details are only included when the PEM could be parsed.
type VerifyCertificateResponse struct {
	Valid     bool             `json:"valid"`
	Serial    string           `json:"serial,omitempty"`
	Subject   *SubjectResponse `json:"subject,omitempty"`
	NotBefore *time.Time       `json:"not_before,omitempty"`
	NotAfter  *time.Time       `json:"not_after,omitempty"`
	Revoked   bool             `json:"revoked"`
}

// MapVerificationToResponse builds a verification response for a parsed certificate.
func MapVerificationToResponse(cert *pkiDomain.Certificate, valid, revoked bool) VerifyCertificateResponse {
	if cert == nil {
		return VerifyCertificateResponse{Valid: false}
	}
	subject := MapSubjectToResponse(cert.Subject)
	notBefore := cert.NotBefore
	notAfter := cert.NotAfter
	return VerifyCertificateResponse{
		Valid:     valid,
		Serial:    cert.Serial,
		Subject:   &subject,
		NotBefore: &notBefore,
		NotAfter:  &notAfter,
		Revoked:   revoked,
	}
}

// RevocationStatusResponse reports whether a serial is revoked.
type RevocationStatusResponse struct {
	Serial  string `json:"serial"`
	Revoked bool   `json:"revoked"`
}
