package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	cryptoDomain "github.com/allisson/securevault/internal/crypto/domain"
)

// hybridCipher implements HybridCipher.
//
// Payloads are encrypted once with an AEAD under a random 32-byte content key.
// The content key is wrapped per recipient with RSA-OAEP (SHA-256, empty label).
// A 32-byte key is far below the 190-byte OAEP plaintext limit of RSA-2048.
type hybridCipher struct {
	aeadManager     AEADManager
	signatureEngine SignatureEngine
	algorithm       cryptoDomain.Algorithm
}

// NewHybridCipher creates a HybridCipher producing envelopes with the given algorithm.
func NewHybridCipher(
	aeadManager AEADManager,
	signatureEngine SignatureEngine,
	alg cryptoDomain.Algorithm,
) (HybridCipher, error) {
	if _, err := cryptoDomain.ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}
	return &hybridCipher{
		aeadManager:     aeadManager,
		signatureEngine: signatureEngine,
		algorithm:       alg,
	}, nil
}

// Algorithm returns the content cipher used for new envelopes.
func (h *hybridCipher) Algorithm() cryptoDomain.Algorithm {
	return h.algorithm
}

// Encrypt generates a fresh content key and encrypts plaintext with it.
// The caller owns contentKey and should Wipe it when done.
func (h *hybridCipher) Encrypt(plaintext []byte) (ciphertext, iv, contentKey []byte, err error) {
	contentKey = make([]byte, cryptoDomain.ContentKeySize)
	if _, err := rand.Read(contentKey); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate content key: %w", err)
	}

	aead, err := h.aeadManager.CreateCipher(contentKey, h.algorithm)
	if err != nil {
		cryptoDomain.Wipe(contentKey)
		return nil, nil, nil, err
	}

	ciphertext, iv, err = aead.Encrypt(plaintext, nil)
	if err != nil {
		cryptoDomain.Wipe(contentKey)
		return nil, nil, nil, err
	}

	return ciphertext, iv, contentKey, nil
}

// Decrypt reverses Encrypt for the given algorithm.
func (h *hybridCipher) Decrypt(
	alg cryptoDomain.Algorithm,
	ciphertext, iv, contentKey []byte,
) ([]byte, error) {
	aead, err := h.aeadManager.CreateCipher(contentKey, alg)
	if err != nil {
		if errors.Is(err, cryptoDomain.ErrUnsupportedAlgorithm) {
			return nil, err
		}
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := aead.Decrypt(ciphertext, iv, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// WrapKey encrypts contentKey with RSA-OAEP under publicKeyPEM.
func (h *hybridCipher) WrapKey(contentKey []byte, publicKeyPEM string) ([]byte, error) {
	pub, err := cryptoDomain.ParsePublicKeyPEM(publicKeyPEM)
	if err != nil {
		return nil, err
	}
	return wrapWithKey(contentKey, pub)
}

// UnwrapKey recovers a content key with RSA-OAEP.
func (h *hybridCipher) UnwrapKey(wrappedKey []byte, privateKeyPEM string) ([]byte, error) {
	priv, err := cryptoDomain.ParsePrivateKeyPEM(privateKeyPEM)
	if err != nil {
		return nil, err
	}

	contentKey, err := rsa.DecryptOAEP(sha256.New(), nil, priv, wrappedKey, nil)
	if err != nil {
		return nil, cryptoDomain.ErrKeyUnwrapFailed
	}
	if len(contentKey) != cryptoDomain.ContentKeySize {
		cryptoDomain.Wipe(contentKey)
		return nil, cryptoDomain.ErrKeyUnwrapFailed
	}
	return contentKey, nil
}

// Seal encrypts plaintext once and wraps the content key for every recipient.
// The originator signs the plaintext so recipients can attribute the payload.
func (h *hybridCipher) Seal(
	plaintext []byte,
	recipients map[string]string,
	originatorPrivateKeyPEM string,
) (*cryptoDomain.Envelope, error) {
	if len(recipients) == 0 {
		return nil, cryptoDomain.ErrNoRecipients
	}

	// Reject bad key material before doing any work.
	publicKeys, err := parseRecipientKeys(recipients)
	if err != nil {
		return nil, err
	}

	signature, err := h.signatureEngine.Sign(plaintext, originatorPrivateKeyPEM)
	if err != nil {
		return nil, err
	}

	ciphertext, iv, contentKey, err := h.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Wipe(contentKey)

	wrapped, err := wrapForRecipients(contentKey, publicKeys)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.Envelope{
		Algorithm:   h.algorithm,
		IV:          iv,
		Ciphertext:  ciphertext,
		WrappedKeys: wrapped,
		Signature:   signature,
	}, nil
}

// OpenKey unwraps the envelope content key for recipientID.
func (h *hybridCipher) OpenKey(
	envelope *cryptoDomain.Envelope,
	recipientID, privateKeyPEM string,
) ([]byte, error) {
	wrappedKey, err := envelope.WrappedKeyFor(recipientID)
	if err != nil {
		return nil, err
	}
	return h.UnwrapKey(wrappedKey, privateKeyPEM)
}

// Open unwraps the content key for recipientID and decrypts the payload.
func (h *hybridCipher) Open(
	envelope *cryptoDomain.Envelope,
	recipientID, privateKeyPEM string,
) ([]byte, error) {
	contentKey, err := h.OpenKey(envelope, recipientID, privateKeyPEM)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Wipe(contentKey)

	return h.Decrypt(envelope.Algorithm, envelope.Ciphertext, envelope.IV, contentKey)
}

// AddRecipients wraps contentKey for recipients not yet present in the envelope.
func (h *hybridCipher) AddRecipients(
	envelope *cryptoDomain.Envelope,
	contentKey []byte,
	recipients map[string]string,
) ([]string, error) {
	if len(contentKey) != cryptoDomain.ContentKeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	pending := make(map[string]string, len(recipients))
	for id, publicKeyPEM := range recipients {
		if envelope.HasRecipient(id) {
			continue
		}
		pending[id] = publicKeyPEM
	}
	if len(pending) == 0 {
		return []string{}, nil
	}

	publicKeys, err := parseRecipientKeys(pending)
	if err != nil {
		return nil, err
	}

	wrapped, err := wrapForRecipients(contentKey, publicKeys)
	if err != nil {
		return nil, err
	}

	if envelope.WrappedKeys == nil {
		envelope.WrappedKeys = make(map[string][]byte, len(wrapped))
	}
	added := make([]string, 0, len(wrapped))
	for id, key := range wrapped {
		envelope.WrappedKeys[id] = key
		added = append(added, id)
	}
	sort.Strings(added)
	return added, nil
}

// parseRecipientKeys decodes every recipient public key.
func parseRecipientKeys(recipients map[string]string) (map[string]*rsa.PublicKey, error) {
	keys := make(map[string]*rsa.PublicKey, len(recipients))
	for id, publicKeyPEM := range recipients {
		pub, err := cryptoDomain.ParsePublicKeyPEM(publicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("recipient %s: %w", id, err)
		}
		keys[id] = pub
	}
	return keys, nil
}

// wrapForRecipients wraps contentKey for each recipient concurrently.
func wrapForRecipients(contentKey []byte, keys map[string]*rsa.PublicKey) (map[string][]byte, error) {
	var (
		mu      sync.Mutex
		wrapped = make(map[string][]byte, len(keys))
		g       errgroup.Group
	)

	for id, pub := range keys {
		g.Go(func() error {
			key, err := wrapWithKey(contentKey, pub)
			if err != nil {
				return err
			}
			mu.Lock()
			wrapped[id] = key
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return wrapped, nil
}

// wrapWithKey performs RSA-OAEP-SHA256 encryption of contentKey.
func wrapWithKey(contentKey []byte, pub *rsa.PublicKey) ([]byte, error) {
	if len(contentKey) != cryptoDomain.ContentKeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, contentKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap content key: %w", err)
	}
	return wrapped, nil
}
