package service

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
)

// RSASignatureEngine implements SignatureEngine with RSASSA-PKCS1-v1_5 and SHA-256.
//
// There is one verification path: every Verify variant ends in VerifyWithKey.
// Signatures travel as standard base64 (cryptoDomain.Signature.String()).
type RSASignatureEngine struct{}

// NewSignatureEngine creates a new RSASignatureEngine.
func NewSignatureEngine() *RSASignatureEngine {
	return &RSASignatureEngine{}
}

// Sign parses privateKeyPEM and signs the SHA-256 digest of payload.
func (e *RSASignatureEngine) Sign(payload []byte, privateKeyPEM string) (cryptoDomain.Signature, error) {
	key, err := cryptoDomain.ParsePrivateKeyPEM(privateKeyPEM)
	if err != nil {
		return nil, err
	}
	return e.SignWithKey(payload, key)
}

// SignWithKey signs the SHA-256 digest of payload with key.
func (e *RSASignatureEngine) SignWithKey(payload []byte, key *rsa.PrivateKey) (cryptoDomain.Signature, error) {
	if key == nil {
		return nil, cryptoDomain.ErrInvalidKeyFormat
	}
	digest := sha256.Sum256(payload)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}
	return cryptoDomain.Signature(sig), nil
}

// Verify decodes signature and publicKeyPEM and checks the signature over payload.
// Any decoding failure is reported as false.
func (e *RSASignatureEngine) Verify(payload []byte, signature string, publicKeyPEM string) bool {
	sig, err := cryptoDomain.ParseSignature(signature)
	if err != nil {
		return false
	}
	key, err := cryptoDomain.ParsePublicKeyPEM(publicKeyPEM)
	if err != nil {
		return false
	}
	return e.VerifyWithKey(payload, sig, key)
}

// VerifyWithKey checks sig over the SHA-256 digest of payload.
func (e *RSASignatureEngine) VerifyWithKey(
	payload []byte,
	sig cryptoDomain.Signature,
	key *rsa.PublicKey,
) bool {
	if key == nil || len(sig) != key.Size() {
		return false
	}
	digest := sha256.Sum256(payload)
	return rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], sig) == nil
}
