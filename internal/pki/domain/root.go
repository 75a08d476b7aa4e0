package domain

import (
	"time"

	"github.com/google/uuid"
)

// Root is the persisted root CA identity.
// SealedPrivateKey holds the PKCS#8 DER of the root key encrypted by the KMS keeper.
type Root struct {
	ID               uuid.UUID
	Serial           string
	CertificatePEM   string
	SealedPrivateKey []byte
	CreatedAt        time.Time
}

// IssuedCertificate records an allocated leaf serial and the identity it was bound to.
type IssuedCertificate struct {
	Serial            string
	SubjectCommonName string
	SubjectEmail      string
	Fingerprint       string
	NotBefore         time.Time
	NotAfter          time.Time
	CreatedAt         time.Time
}

// CAInfo summarizes the active certificate authority.
type CAInfo struct {
	Subject      Subject
	Serial       string
	NotBefore    time.Time
	NotAfter     time.Time
	Fingerprint  string
	RevokedCount int
	ActivatedAt  time.Time
}
