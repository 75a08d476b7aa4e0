// Package service provides the cryptographic primitives of the PKI: RSA key pair
// generation, canonical SHA-256 signatures, AEAD content ciphers, hybrid
// envelope encryption with RSA-OAEP key wrapping, and KMS keepers for sealing
// the root private key at rest.
//
// Every type in this package is stateless per call and safe for concurrent use.
package service

import (
	"context"
	"crypto/rsa"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyPairProvider generates RSA-2048 key pairs.
type KeyPairProvider interface {
	// Generate returns a fresh PEM-encoded key pair or ErrKeyGeneration.
	Generate() (*cryptoDomain.KeyPair, error)

	// GenerateKey returns a fresh RSA private key or ErrKeyGeneration.
	GenerateKey() (*rsa.PrivateKey, error)
}

// SignatureEngine signs and verifies payloads with RSASSA-PKCS1-v1_5 over SHA-256.
type SignatureEngine interface {
	// Sign signs payload with a PEM-encoded private key.
	// Returns ErrInvalidKeyFormat when the key cannot be parsed.
	Sign(payload []byte, privateKeyPEM string) (cryptoDomain.Signature, error)

	// SignWithKey signs payload with an already parsed private key.
	SignWithKey(payload []byte, key *rsa.PrivateKey) (cryptoDomain.Signature, error)

	// Verify checks a canonical base64 signature against a PEM-encoded public key.
	// Malformed signatures or keys return false.
	Verify(payload []byte, signature string, publicKeyPEM string) bool

	// VerifyWithKey checks a decoded signature against a parsed public key.
	VerifyWithKey(payload []byte, signature cryptoDomain.Signature, key *rsa.PublicKey) bool
}

// HybridCipher combines an AEAD content cipher with RSA-OAEP key wrapping.
type HybridCipher interface {
	// Encrypt encrypts plaintext under a fresh content key and IV.
	Encrypt(plaintext []byte) (ciphertext, iv, contentKey []byte, err error)

	// Decrypt reverses Encrypt. Returns ErrDecryptionFailed on any integrity failure.
	Decrypt(alg cryptoDomain.Algorithm, ciphertext, iv, contentKey []byte) ([]byte, error)

	// WrapKey encrypts a content key for the holder of publicKeyPEM.
	WrapKey(contentKey []byte, publicKeyPEM string) ([]byte, error)

	// UnwrapKey recovers a content key. Returns ErrKeyUnwrapFailed on mismatch or corruption.
	UnwrapKey(wrappedKey []byte, privateKeyPEM string) ([]byte, error)

	// Seal encrypts plaintext once, wraps the content key for every recipient and
	// signs the plaintext with the originator's private key.
	Seal(
		plaintext []byte,
		recipients map[string]string,
		originatorPrivateKeyPEM string,
	) (*cryptoDomain.Envelope, error)

	// OpenKey unwraps the content key of an envelope for one recipient.
	OpenKey(envelope *cryptoDomain.Envelope, recipientID, privateKeyPEM string) ([]byte, error)

	// Open unwraps the content key for one recipient and decrypts the payload.
	Open(envelope *cryptoDomain.Envelope, recipientID, privateKeyPEM string) ([]byte, error)

	// AddRecipients wraps an already recovered content key for additional recipients.
	// Existing recipients are left untouched. Returns the ids that were added.
	AddRecipients(
		envelope *cryptoDomain.Envelope,
		contentKey []byte,
		recipients map[string]string,
	) ([]string, error)

	// Algorithm returns the content cipher used for new envelopes.
	Algorithm() cryptoDomain.Algorithm
}

// KMSService seals small secrets, such as the root private key, under a key
// held by a KMS. keyURI selects both the provider and the key.
type KMSService interface {
	// Seal encrypts plaintext. Supports gcpkms://, awskms://,
	// azurekeyvault://, hashivault:// and base64key:// URIs.
	Seal(ctx context.Context, keyURI string, plaintext []byte) ([]byte, error)

	// Unseal reverses Seal. A ciphertext the KMS rejects yields ErrUnsealFailed;
	// any other error means the KMS could not be reached.
	Unseal(ctx context.Context, keyURI string, sealed []byte) ([]byte, error)
}
