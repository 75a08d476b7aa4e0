package domain

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"strings"
)

// KeyPair holds PEM-encoded RSA key material.
//
// The private key is returned to the caller exactly once and is never persisted
// or retained by the service.
type KeyPair struct {
	PublicKeyPEM  string
	PrivateKeyPEM string
}

// EncodePublicKeyPEM encodes an RSA public key as a PKIX "PUBLIC KEY" PEM block.
func EncodePublicKeyPEM(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", ErrInvalidKeyFormat
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: PEMTypePublicKey, Bytes: der})), nil
}

// EncodePrivateKeyPEM encodes an RSA private key as a PKCS#8 "PRIVATE KEY" PEM block.
func EncodePrivateKeyPEM(priv *rsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", ErrInvalidKeyFormat
	}
	defer Wipe(der)
	return string(pem.EncodeToMemory(&pem.Block{Type: PEMTypePrivateKey, Bytes: der})), nil
}

// ParsePublicKeyPEM decodes a PKIX or PKCS#1 RSA public key.
func ParsePublicKeyPEM(data string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(strings.TrimSpace(data)))
	if block == nil {
		return nil, ErrInvalidKeyFormat
	}

	switch block.Type {
	case PEMTypePublicKey:
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, ErrInvalidKeyFormat
		}
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, ErrInvalidKeyFormat
		}
		return rsaKey, nil
	case "RSA PUBLIC KEY":
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, ErrInvalidKeyFormat
		}
		return key, nil
	default:
		return nil, ErrInvalidKeyFormat
	}
}

// ParsePrivateKeyPEM decodes a PKCS#8 or PKCS#1 RSA private key.
func ParsePrivateKeyPEM(data string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(strings.TrimSpace(data)))
	if block == nil {
		return nil, ErrInvalidKeyFormat
	}
	defer Wipe(block.Bytes)

	switch block.Type {
	case PEMTypePrivateKey:
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, ErrInvalidKeyFormat
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, ErrInvalidKeyFormat
		}
		return rsaKey, nil
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, ErrInvalidKeyFormat
		}
		return key, nil
	default:
		return nil, ErrInvalidKeyFormat
	}
}

// PublicKeyFingerprint returns the lowercase hex SHA-256 of the PKIX encoding of pub.
func PublicKeyFingerprint(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", ErrInvalidKeyFormat
	}
	sum := sha256.Sum256(der)
	return hex.EncodeToString(sum[:]), nil
}
