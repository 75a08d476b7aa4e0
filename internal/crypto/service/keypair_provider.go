package service

import (
	"crypto/rand"
	"crypto/rsa"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
	apperrors "github.com/allisson/securevault/internal/errors"
)

// RSAKeyPairProvider implements KeyPairProvider with RSA-2048 keys from crypto/rand.
type RSAKeyPairProvider struct{}

// NewKeyPairProvider creates a new RSAKeyPairProvider.
func NewKeyPairProvider() *RSAKeyPairProvider {
	return &RSAKeyPairProvider{}
}

// GenerateKey returns a fresh RSA-2048 private key.
func (p *RSAKeyPairProvider) GenerateKey() (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, cryptoDomain.RSAKeyBits)
	if err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrKeyGeneration, err.Error())
	}
	return key, nil
}

// Generate returns a fresh key pair encoded as PKIX and PKCS#8 PEM blocks.
func (p *RSAKeyPairProvider) Generate() (*cryptoDomain.KeyPair, error) {
	key, err := p.GenerateKey()
	if err != nil {
		return nil, err
	}

	publicPEM, err := cryptoDomain.EncodePublicKeyPEM(&key.PublicKey)
	if err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrKeyGeneration, "failed to encode public key")
	}

	privatePEM, err := cryptoDomain.EncodePrivateKeyPEM(key)
	if err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrKeyGeneration, "failed to encode private key")
	}

	return &cryptoDomain.KeyPair{
		PublicKeyPEM:  publicPEM,
		PrivateKeyPEM: privatePEM,
	}, nil
}
