package service

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // RFC 5280 key identifier method 1
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"fmt"
	"math/big"
	"time"

	pkiDomain "github.com/allisson/securevault/internal/pki/domain"
)

// X509CertificateSigner implements CertificateSigner with crypto/x509.
type X509CertificateSigner struct{}

// NewCertificateSigner creates a new X509CertificateSigner.
func NewCertificateSigner() *X509CertificateSigner {
	return &X509CertificateSigner{}
}

// NewSerial draws SerialBytes random bytes with the top bit cleared so the
// DER integer is positive and the hex rendering keeps a fixed width.
func (s *X509CertificateSigner) NewSerial() (string, error) {
	raw := make([]byte, pkiDomain.SerialBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate serial: %w", err)
	}
	raw[0] &= 0x7f
	if bytes.Equal(raw, make([]byte, len(raw))) {
		raw[len(raw)-1] = 1
	}
	return pkiDomain.FormatSerial(new(big.Int).SetBytes(raw)), nil
}

// SignRoot self-signs a CA certificate for key.
func (s *X509CertificateSigner) SignRoot(
	subject pkiDomain.Subject,
	key *rsa.PrivateKey,
	serial string,
	notBefore, notAfter time.Time,
) (*pkiDomain.Certificate, error) {
	if key == nil {
		return nil, errors.New("root key is required")
	}
	serialNumber, err := parseSerial(serial)
	if err != nil {
		return nil, err
	}
	keyID, err := subjectKeyID(&key.PublicKey)
	if err != nil {
		return nil, err
	}

	template := &x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               subject.PKIXName(),
		NotBefore:             notBefore.UTC(),
		NotAfter:              notAfter.UTC(),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
		MaxPathLen:            0,
		MaxPathLenZero:        true,
		SubjectKeyId:          keyID,
		SignatureAlgorithm:    x509.SHA256WithRSA,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create root certificate: %w", err)
	}
	return parseDER(der)
}

// SignLeaf issues an end-entity certificate for pub.
func (s *X509CertificateSigner) SignLeaf(
	subject pkiDomain.Subject,
	pub *rsa.PublicKey,
	serial string,
	notBefore, notAfter time.Time,
	root *pkiDomain.Certificate,
	rootKey *rsa.PrivateKey,
) (*pkiDomain.Certificate, error) {
	if root.X509() == nil || rootKey == nil {
		return nil, errors.New("root certificate and key are required")
	}
	serialNumber, err := parseSerial(serial)
	if err != nil {
		return nil, err
	}
	keyID, err := subjectKeyID(pub)
	if err != nil {
		return nil, err
	}

	template := &x509.Certificate{
		SerialNumber: serialNumber,
		Subject:      subject.PKIXName(),
		NotBefore:    notBefore.UTC(),
		NotAfter:     notAfter.UTC(),
		KeyUsage: x509.KeyUsageDigitalSignature | x509.KeyUsageContentCommitment |
			x509.KeyUsageKeyEncipherment | x509.KeyUsageDataEncipherment,
		ExtKeyUsage: []x509.ExtKeyUsage{
			x509.ExtKeyUsageServerAuth,
			x509.ExtKeyUsageClientAuth,
			x509.ExtKeyUsageEmailProtection,
		},
		BasicConstraintsValid: true,
		IsCA:                  false,
		EmailAddresses:        []string{subject.Email},
		SubjectKeyId:          keyID,
		AuthorityKeyId:        root.X509().SubjectKeyId,
		SignatureAlgorithm:    x509.SHA256WithRSA,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, root.X509(), pub, rootKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}
	return parseDER(der)
}

// CheckRoot verifies that root is a self-signed CA certificate whose public key matches key.
func (s *X509CertificateSigner) CheckRoot(root *pkiDomain.Certificate, key *rsa.PrivateKey) error {
	cert := root.X509()
	if cert == nil {
		return errors.New("root certificate is not parsed")
	}
	if !root.IsCA() {
		return errors.New("root certificate is not a CA certificate")
	}
	if !bytes.Equal(cert.RawIssuer, cert.RawSubject) {
		return errors.New("root certificate is not self-issued")
	}
	if err := cert.CheckSignatureFrom(cert); err != nil {
		return fmt.Errorf("root certificate self-signature is invalid: %w", err)
	}
	if key == nil {
		return errors.New("root private key is missing")
	}
	if !key.PublicKey.Equal(root.PublicKey()) {
		return errors.New("root private key does not match the certificate")
	}
	return nil
}

// CheckIssuedBy reports whether cert names root as issuer and carries root's signature.
func (s *X509CertificateSigner) CheckIssuedBy(cert, root *pkiDomain.Certificate) bool {
	c, r := cert.X509(), root.X509()
	if c == nil || r == nil {
		return false
	}
	if !bytes.Equal(c.RawIssuer, r.RawSubject) {
		return false
	}
	return c.CheckSignatureFrom(r) == nil
}

func parseSerial(serial string) (*big.Int, error) {
	normalized, err := pkiDomain.NormalizeSerial(serial)
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(normalized, 16)
	if !ok || n.Sign() <= 0 {
		return nil, pkiDomain.ErrInvalidSerial
	}
	return n, nil
}

func parseDER(der []byte) (*pkiDomain.Certificate, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created certificate: %w", err)
	}
	return pkiDomain.NewCertificate(cert)
}

// subjectKeyID hashes the subjectPublicKey bit string per RFC 5280 4.2.1.2.
func subjectKeyID(pub *rsa.PublicKey) ([]byte, error) {
	if pub == nil {
		return nil, pkiDomain.ErrInvalidPublicKey
	}
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, pkiDomain.ErrInvalidPublicKey
	}
	var spki struct {
		Algorithm        pkix.AlgorithmIdentifier
		SubjectPublicKey asn1.BitString
	}
	if _, err := asn1.Unmarshal(der, &spki); err != nil {
		return nil, pkiDomain.ErrInvalidPublicKey
	}
	sum := sha1.Sum(spki.SubjectPublicKey.Bytes) //nolint:gosec // key identifier, not a signature
	return sum[:], nil
}
