package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
)

// aeadConstructors maps each supported content cipher to its stdlib or x/crypto
// implementation. Both take a 32-byte key and use a 12-byte nonce and 16-byte tag.
var aeadConstructors = map[cryptoDomain.Algorithm]func(key []byte) (cipher.AEAD, error){
	cryptoDomain.AESGCM: func(key []byte) (cipher.AEAD, error) {
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	},
	cryptoDomain.ChaCha20: chacha20poly1305.New,
}

// sealer adapts a cipher.AEAD to the AEAD interface with a random nonce per
// Encrypt. Decrypt failures never say why.
type sealer struct {
	alg  cryptoDomain.Algorithm
	aead cipher.AEAD
}

// Encrypt seals plaintext under a fresh random nonce and returns the ciphertext
// with its appended tag and the nonce.
func (s *sealer) Encrypt(plaintext, aad []byte) ([]byte, []byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return s.aead.Seal(nil, nonce, plaintext, aad), nonce, nil
}

// Decrypt opens ciphertext with nonce and aad. Any failure, including a nonce of
// the wrong size, is ErrDecryptionFailed.
func (s *sealer) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != s.aead.NonceSize() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// AEADManagerService builds content ciphers by algorithm name.
type AEADManagerService struct{}

// NewAEADManager creates an AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns ErrInvalidKeySize unless key is ContentKeySize bytes,
// and ErrUnsupportedAlgorithm for names other than AESGCM and ChaCha20.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	newAEAD, ok := aeadConstructors[alg]
	if !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
	if len(key) != cryptoDomain.ContentKeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := newAEAD(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s cipher: %w", alg, err)
	}
	return &sealer{alg: alg, aead: aead}, nil
}
