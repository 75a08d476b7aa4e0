package domain

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"math/big"
	"strings"
	"time"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
)

// Certificate is a parsed X.509 certificate issued by, or belonging to, the CA.
//
// Fields are derived from the DER encoding; only the DER is trusted during
// verification. A Certificate built by hand (without ParseCertificatePEM or
// NewCertificate) never verifies.
type Certificate struct {
	Serial       string
	Subject      Subject
	Issuer       Subject
	PublicKeyPEM string
	NotBefore    time.Time
	NotAfter     time.Time
	PEM          string

	x509 *x509.Certificate
}

// NewCertificate wraps a parsed x509 certificate.
func NewCertificate(cert *x509.Certificate) (*Certificate, error) {
	if cert == nil {
		return nil, ErrInvalidCertificate
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: public key is not RSA", ErrInvalidCertificate)
	}
	publicKeyPEM, err := cryptoDomain.EncodePublicKeyPEM(pub)
	if err != nil {
		return nil, ErrInvalidCertificate
	}

	return &Certificate{
		Serial:       FormatSerial(cert.SerialNumber),
		Subject:      SubjectFromPKIXName(cert.Subject),
		Issuer:       SubjectFromPKIXName(cert.Issuer),
		PublicKeyPEM: publicKeyPEM,
		NotBefore:    cert.NotBefore.UTC(),
		NotAfter:     cert.NotAfter.UTC(),
		PEM:          string(pem.EncodeToMemory(&pem.Block{Type: PEMTypeCertificate, Bytes: cert.Raw})),
		x509:         cert,
	}, nil
}

// ParseCertificatePEM decodes a single PEM encoded certificate.
func ParseCertificatePEM(data string) (*Certificate, error) {
	block, rest := pem.Decode([]byte(strings.TrimSpace(data)))
	if block == nil || block.Type != PEMTypeCertificate {
		return nil, ErrInvalidCertificate
	}
	if len(strings.TrimSpace(string(rest))) > 0 {
		return nil, fmt.Errorf("%w: trailing data after certificate", ErrInvalidCertificate)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, ErrInvalidCertificate
	}
	return NewCertificate(cert)
}

// X509 returns the underlying certificate, or nil for a hand built value.
func (c *Certificate) X509() *x509.Certificate {
	if c == nil {
		return nil
	}
	return c.x509
}

// PublicKey returns the RSA subject public key.
func (c *Certificate) PublicKey() *rsa.PublicKey {
	if c.X509() == nil {
		return nil
	}
	pub, _ := c.x509.PublicKey.(*rsa.PublicKey)
	return pub
}

// IsCA reports whether the certificate carries CA:TRUE basic constraints.
func (c *Certificate) IsCA() bool {
	x := c.X509()
	return x != nil && x.BasicConstraintsValid && x.IsCA
}

// ValidAt reports whether t lies in [NotBefore, NotAfter].
func (c *Certificate) ValidAt(t time.Time) bool {
	return !t.Before(c.NotBefore) && !t.After(c.NotAfter)
}

// Fingerprint returns the lowercase hex SHA-256 of the DER encoding.
func (c *Certificate) Fingerprint() string {
	if c.X509() == nil {
		return ""
	}
	sum := sha256.Sum256(c.x509.Raw)
	return hex.EncodeToString(sum[:])
}

// FormatSerial renders a serial number as fixed width lowercase hex.
func FormatSerial(n *big.Int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%0*x", SerialHexLength, n)
}

// NormalizeSerial lowercases a serial and checks it is SerialHexLength hex characters.
func NormalizeSerial(serial string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(serial))
	if len(s) != SerialHexLength {
		return "", ErrInvalidSerial
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", ErrInvalidSerial
	}
	return s, nil
}
