// Package service builds and signs the X.509 certificates of the certificate authority.
package service

import (
	"crypto/rsa"
	"time"

	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

// CertificateSigner creates root and leaf certificates.
type CertificateSigner interface {
	// NewSerial returns a random positive serial rendered as SerialHexLength hex characters.
	NewSerial() (string, error)

	// SignRoot self-signs a CA certificate (CA:TRUE, pathlen 0) for key.
	SignRoot(
		subject pkiDomain.Subject,
		key *rsa.PrivateKey,
		serial string,
		notBefore, notAfter time.Time,
	) (*pkiDomain.Certificate, error)

	// SignLeaf issues an end-entity certificate (CA:FALSE) for pub signed by the root.
	SignLeaf(
		subject pkiDomain.Subject,
		pub *rsa.PublicKey,
		serial string,
		notBefore, notAfter time.Time,
		root *pkiDomain.Certificate,
		rootKey *rsa.PrivateKey,
	) (*pkiDomain.Certificate, error)

	// CheckRoot validates a persisted root against its private key.
	CheckRoot(root *pkiDomain.Certificate, key *rsa.PrivateKey) error

	// CheckIssuedBy reports whether cert carries a valid signature by root.
	CheckIssuedBy(cert, root *pkiDomain.Certificate) bool
}
