// Package domain defines the key material, signature and envelope types shared by
// every component that signs, wraps or encrypts payloads.
package domain

// Algorithm represents the content cipher used to encrypt an envelope payload.
//
// Both supported algorithms are AEADs with a 256-bit key, a 12-byte nonce and a
// 16-byte tag, so a tampered ciphertext is rejected instead of decrypting to garbage.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305. Preferred on platforms without AES hardware.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// RSAKeyBits is the modulus size of every generated key pair.
	RSAKeyBits = 2048

	// MinRSAKeyBits is the smallest modulus accepted from callers.
	MinRSAKeyBits = 2048

	// ContentKeySize is the size in bytes of a per-payload content key.
	ContentKeySize = 32
)

// PEM block types produced by this package.
const (
	PEMTypePublicKey  = "PUBLIC KEY"
	PEMTypePrivateKey = "PRIVATE KEY"
)

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(value) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
